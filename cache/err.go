package cache

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration error.
	ErrInvalidConfig = errors.New("invalid cache config")

	ErrCacheCount    = errors.New("expected one or two caches")
	ErrSize          = errors.New("size must be positive")
	ErrAssociativity = errors.New("associativity must be one of 1, 2, 4, 8, 16")
	ErrBlockSize     = errors.New("blocksize must be one of 1, 2, 4, 8, 16, 32, 64")
	ErrRowCount      = errors.New("size must be a multiple of associativity * blocksize")
)
