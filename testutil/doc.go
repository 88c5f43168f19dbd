// Package testutil provides testing utilities for arenakit.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, goroutine-safe RNG with generators for allocation
// workloads and hash table keys.
//
// # Allocation Workloads
//
//	rng := testutil.NewRNG(seed)
//	size := 1 + rng.Intn(700)
//	align := rng.Alignment(128) // random power of two <= 128
//
// # Hash Keys
//
//	hs := rng.Hashes(1000)                // distinct hashes
//	cs := testutil.CollidingHashes(8, 2, 3) // 3 hashes whose ideal slot is 2 in an 8-slot table
//	k := rng.Zipf(2048, 1.2)              // skewed key choice
package testutil
