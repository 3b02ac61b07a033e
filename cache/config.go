package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in memory words, excluding metadata
	Size int `json:"size"`
	// Associativity (number of ways)
	Associativity int `json:"associativity"`
	// BlockSize in memory words
	BlockSize int `json:"blocksize"`
}

var (
	validAssociativities = []int{1, 2, 4, 8, 16}
	validBlockSizes      = []int{1, 2, 4, 8, 16, 32, 64}
)

// Rows returns Size / (Associativity * BlockSize).
func (c Config) Rows() int {
	if c.Associativity <= 0 || c.BlockSize <= 0 {
		return 0
	}
	return c.Size / (c.Associativity * c.BlockSize)
}

// Validate checks the geometry. Errors wrap both ErrInvalidConfig and a
// specific cause.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: %w (size %d)", ErrInvalidConfig, ErrSize, c.Size)
	}
	if !slices.Contains(validAssociativities, c.Associativity) {
		return fmt.Errorf("%w: %w (associativity %d)", ErrInvalidConfig, ErrAssociativity, c.Associativity)
	}
	if !slices.Contains(validBlockSizes, c.BlockSize) {
		return fmt.Errorf("%w: %w (blocksize %d)", ErrInvalidConfig, ErrBlockSize, c.BlockSize)
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("%w: %w (size %d, associativity %d, blocksize %d)",
			ErrInvalidConfig, ErrRowCount, c.Size, c.Associativity, c.BlockSize)
	}
	return nil
}

// ParseConfigs parses "size,assoc,blocksize" for one cache or
// "size,assoc,blocksize,size,assoc,blocksize" for L1 and L2.
func ParseConfigs(spec string) ([]Config, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 && len(parts) != 6 {
		return nil, fmt.Errorf("%w: %w (got %d values)", ErrInvalidConfig, ErrCacheCount, len(parts))
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidConfig, part)
		}
		values[i] = v
	}

	configs := make([]Config, 0, len(values)/3)
	for i := 0; i < len(values); i += 3 {
		config := Config{
			Size:          values[i],
			Associativity: values[i+1],
			BlockSize:     values[i+2],
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", LevelName(len(configs)), err)
		}
		configs = append(configs, config)
	}

	return configs, nil
}

// HierarchyConfig is the JSON form of a cache hierarchy.
type HierarchyConfig struct {
	L1 *Config `json:"l1,omitempty"`
	L2 *Config `json:"l2,omitempty"`
}

// Configs returns the configured levels in order.
func (hc *HierarchyConfig) Configs() []Config {
	var configs []Config
	if hc.L1 != nil {
		configs = append(configs, *hc.L1)
	}
	if hc.L2 != nil {
		configs = append(configs, *hc.L2)
	}
	return configs
}

// Validate checks every level. An L2 without an L1 is rejected.
func (hc *HierarchyConfig) Validate() error {
	if hc.L1 == nil && hc.L2 != nil {
		return fmt.Errorf("%w: l2 configured without l1", ErrInvalidConfig)
	}
	for i, config := range hc.Configs() {
		if err := config.Validate(); err != nil {
			return fmt.Errorf("%s: %w", LevelName(i), err)
		}
	}
	return nil
}

// LoadConfig loads a HierarchyConfig from a JSON file.
func LoadConfig(path string) (*HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := &HierarchyConfig{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse cache config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes a HierarchyConfig to a JSON file.
func (hc *HierarchyConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(hc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}
