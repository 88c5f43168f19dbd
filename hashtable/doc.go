// Package hashtable provides an open-addressing hash table whose slots live
// in a private arena.
//
// Keys are caller-computed 64-bit hashes; the table stores the hash and the
// value together in a flat slot array and resolves collisions with linear
// probing. Deletion shifts later entries of the probe run backward instead
// of leaving tombstones, so lookups never degrade after churn.
//
//	t := hashtable.New[Posting](hashtable.WithInitialSize(1024))
//	defer t.Free()
//
//	p, err := t.Insert(h, Posting{Doc: 7})
//	if v, ok := t.Get(h); ok { ... }
//	t.Remove(h, false)
//
// The table doubles when an insert would take the load factor to 0.70.
// Growth builds the new slot array in a fresh arena, rehashes, and only
// then frees the old arena, so a failed growth leaves the table as it was.
//
// Values are stored in arena memory and must be pointer-free. Pointers
// returned by Get, Insert and FindOrAdd are valid until the next growth,
// Clear or Free. A Table is not safe for concurrent use.
package hashtable
