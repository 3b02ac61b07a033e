package cache

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/e20sim/emu"
)

// MaxLevels is the deepest hierarchy supported.
const MaxLevels = 2

// LevelName returns "L1", "L2", ... for a zero-based level index.
func LevelName(level int) string {
	return fmt.Sprintf("L%d", level+1)
}

// EventKind classifies a logged cache access.
type EventKind uint8

// Event kinds. Loads report HIT or MISS; stores always report SW.
const (
	EventHit EventKind = iota
	EventMiss
	EventSW
)

// String returns "HIT", "MISS" or "SW".
func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "HIT"
	case EventMiss:
		return "MISS"
	default:
		return "SW"
	}
}

// Event is one cache access as seen by a single level.
type Event struct {
	Cache string
	Kind  EventKind
	PC    uint16
	Addr  uint16
	Row   int
}

// String formats the event as a cache log line.
func (e Event) String() string {
	return fmt.Sprintf("%-8s pc:%5d\taddr:%5d\trow:%4d",
		e.Cache+" "+e.Kind.String(), e.PC, e.Addr, e.Row)
}

// HookPosCacheAccess marks hooks invoked once per event. The hook context's
// Item is the Event and its Detail the level's AccessResult.
var HookPosCacheAccess = &sim.HookPos{Name: "Cache Access"}

type level struct {
	name  string
	cache *Cache
}

// Hierarchy chains up to two caches. Loads consult L2 only after an L1 miss;
// stores go to every level.
type Hierarchy struct {
	sim.HookableBase

	levels []level
}

// NewHierarchy builds a hierarchy from zero, one or two configurations,
// named L1 and L2 in order.
func NewHierarchy(configs ...Config) (*Hierarchy, error) {
	if len(configs) > MaxLevels {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrInvalidConfig, ErrCacheCount, len(configs))
	}

	h := &Hierarchy{}
	for i, config := range configs {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", LevelName(i), err)
		}
		h.levels = append(h.levels, level{
			name:  LevelName(i),
			cache: New(config),
		})
	}

	return h, nil
}

// Levels returns the caches from L1 down.
func (h *Hierarchy) Levels() []*Cache {
	caches := make([]*Cache, len(h.levels))
	for i, l := range h.levels {
		caches[i] = l.cache
	}
	return caches
}

// Level returns the cache with the given name, or nil.
func (h *Hierarchy) Level(name string) *Cache {
	for _, l := range h.levels {
		if l.name == name {
			return l.cache
		}
	}
	return nil
}

// Access runs one load or store through the hierarchy and returns the events
// it produced, L1 first.
func (h *Hierarchy) Access(pc, addr uint16, kind emu.AccessKind) []Event {
	events := make([]Event, 0, len(h.levels))

	for _, l := range h.levels {
		var result AccessResult
		event := Event{Cache: l.name, PC: pc, Addr: addr}

		if kind == emu.AccessWrite {
			result = l.cache.Write(uint64(addr))
			event.Kind = EventSW
		} else {
			result = l.cache.Read(uint64(addr))
			event.Kind = EventMiss
			if result.Hit {
				event.Kind = EventHit
			}
		}
		event.Row = result.Row

		events = append(events, event)
		h.InvokeHook(sim.HookCtx{
			Domain: h,
			Pos:    HookPosCacheAccess,
			Item:   event,
			Detail: result,
		})

		if kind == emu.AccessRead && result.Hit {
			break
		}
	}

	return events
}

// Observe implements emu.AccessObserver.
func (h *Hierarchy) Observe(access emu.MemAccess) {
	h.Access(access.PC, access.Addr, access.Kind)
}

// LevelStats pairs a level name with its statistics.
type LevelStats struct {
	Name  string
	Stats Statistics
}

// Stats returns per-level statistics, L1 first.
func (h *Hierarchy) Stats() []LevelStats {
	stats := make([]LevelStats, len(h.levels))
	for i, l := range h.levels {
		stats[i] = LevelStats{Name: l.name, Stats: l.cache.Stats()}
	}
	return stats
}

// Reset empties every level.
func (h *Hierarchy) Reset() {
	for _, l := range h.levels {
		l.cache.Reset()
	}
}
