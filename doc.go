// Package arenakit is the shared context of the arena allocator and the
// arena-backed hash table.
//
// # Packages
//
//   - arena: bump allocator over a chain of blocks, with transactional scopes
//     and heap, fixed-buffer and virtual-memory backing providers
//   - hashtable: open-addressing table keyed by 64-bit hashes, stored in arena memory
//   - arenaprom: Prometheus implementation of MetricsCollector
//
// # Library
//
// A Library replaces process-wide state. It carries the logger, the metrics
// collector and an optional memory limit shared by every arena attached to
// it, and aggregates statistics across them. Construct it once at startup
// and Close it at shutdown; Close reports blocks that were never freed.
//
//	lib := arenakit.NewLibrary(
//		arenakit.WithLogger(arenakit.NewJSONLogger(slog.LevelInfo)),
//		arenakit.WithMemoryLimit(512<<20),
//	)
//	defer lib.Close()
//
//	a := arena.New(arena.WithLibrary(lib))
//	defer a.Free()
//
// A nil *Library is valid and does nothing.
//
// # Configuration
//
// Config is read from YAML. Byte sizes accept human-readable units:
//
//	library:
//	  memory_limit: 1GiB
//	  log_level: info
//	arena:
//	  provider: virtual
//	  min_block_size: 64KiB
//	  virtual_reserve: 4GiB
//	table:
//	  initial_size: 4096
//
// Use LoadConfig or LoadConfigFile, then NewLibraryFromConfig,
// arena.NewFromConfig and hashtable.WithConfig.
package arenakit
