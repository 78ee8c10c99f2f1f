package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/estate/errors"
)

// MemStore returns a store kept entirely in memory. It is used by tests
// and as the backing store of the in process test application.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser exposes the operations recorded by a batch.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in memory store together with the list of
// operations that were run on it. Writing the store clears the list.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps all writes in a btree on top of a read only parent.
// Every write is also recorded in the batch, which applies them to the
// parent on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps kv. A nil free list allocates a new one, cache
// layers stacked on each other share the list of their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache layer on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all changes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached changes. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// lookup returns the cached entry for the key, if there is one.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool, error) {
	switch it := b.bt.Get(entry{key: key}).(type) {
	case nil:
		return entry{}, false, nil
	case entry:
		return it, true, nil
	default:
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unexpected %T in cache", it)
	}
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok, err := b.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok, err := b.lookup(key)
	switch {
	case err != nil:
		return false, err
	case !ok:
		return b.back.Has(key)
	default:
		return !e.deleted, nil
	}
}

// Iterator merges cached entries with the parent, in ascending order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(ascendBtree(b.bt, start, end), parent, true), nil
}

// ReverseIterator merges cached entries with the parent, in descending
// order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(descendBtree(b.bt, start, end), parent, false), nil
}

// sortKeyer is implemented by everything put into or compared against the
// btree.
type sortKeyer interface {
	sortKey() []byte
}

// entry is a cached write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) sortKey() []byte { return e.key }

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(sortKeyer).sortKey()) < 0
}

// ceiling sorts right after the key it holds. Used as a pivot it turns the
// inclusive bounds of the descending btree functions into exclusive ones
// and the other way round.
type ceiling []byte

func (c ceiling) sortKey() []byte { return c }

func (c ceiling) Less(than btree.Item) bool {
	return bytes.Compare(c, than.(sortKeyer).sortKey()) <= 0
}
