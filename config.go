package arenakit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/arenakit/internal/conv"
)

const (
	// DefaultMinBlockSize is the smallest block an arena creates (4 KiB).
	DefaultMinBlockSize = 4 << 10
	// DefaultInitialTableSize is the slot count of a lazily created hash table.
	DefaultInitialTableSize = 4096
	// DefaultVirtualReserve is the address space reserved by a virtual provider.
	DefaultVirtualReserve = 64 << 20
)

// Provider names accepted in ArenaConfig.Provider.
const (
	ProviderHeap    = "heap"
	ProviderFixed   = "fixed"
	ProviderVirtual = "virtual"
)

// ByteSize is a byte count that reads and writes human-readable units
// ("4KiB", "64MiB", "1GB") in YAML.
type ByteSize int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n, err := humanize.ParseBytes(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: byte size %q: %v", ErrInvalidConfig, raw, err)
	}
	if n > 1<<62 {
		return fmt.Errorf("%w: byte size %q too large", ErrInvalidConfig, raw)
	}
	*b = ByteSize(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (any, error) {
	return b.String(), nil
}

// Int returns b as an int. It fails for negative sizes and sizes that do
// not fit the platform int.
func (b ByteSize) Int() (int, error) {
	if b < 0 {
		return 0, fmt.Errorf("negative byte size %d", int64(b))
	}
	return conv.Uint64ToInt(uint64(b))
}

func (b ByteSize) String() string {
	if b < 0 {
		return fmt.Sprintf("%d B", int64(b))
	}
	return humanize.IBytes(uint64(b))
}

// Config is the construction-time configuration of a Library and the arenas
// and tables attached to it.
type Config struct {
	Library LibraryConfig `yaml:"library"`
	Arena   ArenaConfig   `yaml:"arena"`
	Table   TableConfig   `yaml:"table"`
}

// LibraryConfig configures the shared Library context.
type LibraryConfig struct {
	// MemoryLimit caps the bytes held by all arenas of the library. 0 = unlimited.
	MemoryLimit ByteSize `yaml:"memory_limit"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// ArenaConfig configures an arena.
type ArenaConfig struct {
	// Provider selects the backing store: heap, fixed or virtual.
	Provider string `yaml:"provider"`
	// MinBlockSize is the smallest block the arena creates.
	MinBlockSize ByteSize `yaml:"min_block_size"`
	// ZeroOnFree wipes regions reclaimed by scopes and resets.
	ZeroOnFree bool `yaml:"zero_on_free"`
	// FixedSize is the size of the buffer used by the fixed provider.
	FixedSize ByteSize `yaml:"fixed_size"`
	// VirtualReserve is the address space reserved by the virtual provider.
	VirtualReserve ByteSize `yaml:"virtual_reserve"`
}

// TableConfig configures a hash table.
type TableConfig struct {
	// InitialSize is the starting slot count. Must be a power of two.
	InitialSize int `yaml:"initial_size"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Library: LibraryConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Arena: ArenaConfig{
			Provider:       ProviderHeap,
			MinBlockSize:   DefaultMinBlockSize,
			VirtualReserve: DefaultVirtualReserve,
		},
		Table: TableConfig{
			InitialSize: DefaultInitialTableSize,
		},
	}
}

// LoadConfig reads a YAML configuration on top of DefaultConfig and validates it.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Library.MemoryLimit < 0 {
		invalid("memory_limit must not be negative")
	}
	if _, err := parseLevel(c.Library.LogLevel); err != nil {
		invalid("log_level %q", c.Library.LogLevel)
	}
	switch c.Library.LogFormat {
	case "", "text", "json":
	default:
		invalid("log_format %q", c.Library.LogFormat)
	}

	switch c.Arena.Provider {
	case "", ProviderHeap:
	case ProviderFixed:
		if c.Arena.FixedSize <= 0 {
			invalid("fixed_size must be positive for the fixed provider")
		}
	case ProviderVirtual:
		if c.Arena.VirtualReserve <= 0 {
			invalid("virtual_reserve must be positive for the virtual provider")
		}
	default:
		invalid("unknown provider %q", c.Arena.Provider)
	}
	if c.Arena.MinBlockSize < 0 {
		invalid("min_block_size must not be negative")
	}

	if n := c.Table.InitialSize; n != 0 && (n < 0 || n&(n-1) != 0) {
		invalid("initial_size %d is not a power of two", n)
	}

	return errors.Join(errs...)
}
