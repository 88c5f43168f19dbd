package arenakit_test

import (
	"fmt"
	"strings"

	"github.com/hupe1980/arenakit"
	"github.com/hupe1980/arenakit/arena"
	"github.com/hupe1980/arenakit/hashtable"
)

func Example() {
	cfg, err := arenakit.LoadConfig(strings.NewReader(`
library:
  memory_limit: 1MiB
arena:
  min_block_size: 16KiB
table:
  initial_size: 64
`))
	if err != nil {
		panic(err)
	}

	lib, err := arenakit.NewLibraryFromConfig(cfg.Library, arenakit.WithLogger(arenakit.NoopLogger()))
	if err != nil {
		panic(err)
	}

	a, err := arena.NewFromConfig(cfg.Arena, arena.WithLibrary(lib))
	if err != nil {
		panic(err)
	}
	_, _ = a.Alloc(100, 8, false)

	t := hashtable.New[uint64](hashtable.WithConfig(cfg.Table), hashtable.WithLibrary(lib))
	_, _ = t.Insert(1, 10)

	fmt.Println(lib.Stats().LiveBlocks, t.Cap())

	t.Free()
	a.Free()
	fmt.Println(lib.Close())
	// Output:
	// 2 64
	// <nil>
}
