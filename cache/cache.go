// Package cache provides set-associative cache modeling using Akita cache
// components.
//
// The model tracks residency only. It never holds data and never changes
// what a program computes; it classifies each access as a hit or a miss and
// keeps every row ordered from least to most recently used.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the block was resident before the access.
	Hit bool
	// Row is the set the address maps to.
	Row int
	// Tag is the block identifier within the row.
	Tag uint64
	// Evicted is true if a resident block was replaced.
	Evicted bool
	// EvictedTag is the tag of the replaced block (if Evicted is true).
	EvictedTag uint64
}

// Statistics holds cache access statistics. Hits and Misses count reads
// only; stores always allocate and are counted in Writes.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns Hits / Reads, or 0 when there were no reads.
func (s Statistics) HitRate() float64 {
	if s.Reads == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Reads)
}

// Cache is one level of set-associative cache with LRU replacement.
type Cache struct {
	config  Config
	numRows int

	// Akita cache directory for tag and LRU management
	directory *akitacache.DirectoryImpl

	stats Statistics
}

// New creates a new cache with the given configuration. It panics if the
// configuration is invalid; use Config.Validate to check it first.
func New(config Config) *Cache {
	if err := config.Validate(); err != nil {
		panic(err)
	}

	numRows := config.Rows()

	return &Cache{
		config:  config,
		numRows: numRows,
		directory: akitacache.NewDirectory(
			numRows,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Rows returns the number of rows (sets).
func (c *Cache) Rows() int {
	return c.numRows
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockAddr returns the block-aligned address. The directory stores it as
// the block tag.
func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// locate splits an address into row and tag.
func (c *Cache) locate(addr uint64) AccessResult {
	blockID := addr / uint64(c.config.BlockSize)
	return AccessResult{
		Row: int(blockID % uint64(c.numRows)),
		Tag: blockID / uint64(c.numRows),
	}
}

// tagOf converts a directory tag (block-aligned address) to a row tag.
func (c *Cache) tagOf(blockAddr uint64) uint64 {
	return blockAddr / uint64(c.config.BlockSize) / uint64(c.numRows)
}

// Read performs a cache read. A hit refreshes the block to most recently
// used; a miss allocates it, evicting the least recently used block of a
// full row.
func (c *Cache) Read(addr uint64) AccessResult {
	c.stats.Reads++

	result := c.locate(addr)
	block := c.directory.Lookup(0, c.blockAddr(addr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		result.Hit = true
		c.directory.Visit(block) // Update LRU
		return result
	}

	c.stats.Misses++
	c.allocate(addr, &result)

	return result
}

// Write performs a cache write. Every store allocates or refreshes its
// block, whether or not it was resident. Hit only reports prior residency;
// a store is never counted as a hit or a miss.
func (c *Cache) Write(addr uint64) AccessResult {
	c.stats.Writes++

	result := c.locate(addr)
	block := c.directory.Lookup(0, c.blockAddr(addr))

	if block != nil && block.IsValid {
		result.Hit = true
		c.directory.Visit(block)
		return result
	}

	c.allocate(addr, &result)

	return result
}

// allocate places the block for addr in its row, evicting the least recently
// used block when the row is full.
func (c *Cache) allocate(addr uint64, result *AccessResult) {
	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		// This shouldn't happen with proper directory setup
		return
	}

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedTag = c.tagOf(victim.Tag)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	c.directory.Visit(victim)
}

// Contains reports whether the block holding addr is resident, without
// touching LRU order.
func (c *Cache) Contains(addr uint64) bool {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	return block != nil && block.IsValid
}

// Row returns the tags resident in a row, least recently used first.
func (c *Cache) Row(row int) []uint64 {
	sets := c.directory.GetSets()
	if row < 0 || row >= len(sets) {
		return nil
	}

	tags := make([]uint64, 0, c.config.Associativity)
	for _, block := range sets[row].LRUQueue {
		if block.IsValid {
			tags = append(tags, c.tagOf(block.Tag))
		}
	}
	return tags
}

// Reset empties every row and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
