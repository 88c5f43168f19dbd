package arenakit

import (
	"errors"

	"github.com/hupe1980/arenakit/internal/resource"
)

var (
	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLeakedBlocks is returned by Library.Close when arenas still hold blocks.
	ErrLeakedBlocks = errors.New("leaked arena blocks")

	// ErrMemoryLimitExceeded is returned when a block would exceed the
	// Library's memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)
