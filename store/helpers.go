package store

import (
	"github.com/iov-one/estate/errors"
)

// SliceIterator iterates over models that are already loaded in memory.
type SliceIterator struct {
	models []Model
	pos    int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (it *SliceIterator) Next() (key, value []byte, err error) {
	if it.pos == len(it.models) {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := it.models[it.pos]
	it.pos++
	return m.Key, m.Value, nil
}

func (it *SliceIterator) Release() {
	it.models, it.pos = nil, 0
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer
// of stores that only keep state in their cache.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch { return NewNonAtomicBatch(e) }

// Op is a single write recorded by a batch.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

func SetOp(key, value []byte) Op { return Op{key: key, value: value} }
func DelOp(key []byte) Op        { return Op{del: true, key: key} }

// IsSetOp is false for deletes.
func (o Op) IsSetOp() bool { return !o.del }

// Apply writes the operation to out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues writes and replays them one by one on Write. A
// failure in the middle leaves the earlier writes in place, so only in
// memory stores may use it.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *NonAtomicBatch) Write() error {
	ops := b.ops
	b.ops = nil
	for i, op := range ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "batch operation %d", i)
		}
	}
	return nil
}

// ShowOps returns the queued operations. Tests use it to inspect what a
// cache flushes.
func (b *NonAtomicBatch) ShowOps() []Op { return b.ops }
