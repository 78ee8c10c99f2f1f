package weave

// ReadOnlyKVStore gives read access to the ledger state. Keys must not be
// nil.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written to while the iterator is used.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches. Callers
// must not modify the slices they pass in.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is implemented by every store backend.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that land in the store together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator returns the entries of a range one by one. The end of the
// range is signalled with ErrIteratorDone, any other error is a failure:
//
//   it, err := db.Iterator(start, end)
//   ...
//   defer it.Release()
//   for {
//       key, value, err := it.Next()
//       if errors.ErrIteratorDone.Is(err) {
//           break
//       }
//       ...
//   }
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stack an uncommitted layer on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap keeps writes in memory, visible to its own reads, until
// Write flushes them to the parent or Discard drops them. Wraps nest, and
// this is how a failing transaction leaves no trace in its block.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store. Every Commit creates a new
// version with its own merkle root.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)

	// LoadLatestVersion opens the newest complete version. After a crash
	// during commit this can be older than the last Commit call.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version.
type CommitID struct {
	Version int64
	Hash    []byte
}
