package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/estate/errors"
)

// ascendBtree collects all cached items within the range in ascending
// order. Collecting up front keeps the iterator valid while the cache is
// modified, which the orm does when it updates indexes during a scan.
func ascendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	insert := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, insert)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, insert)
	}
	return res
}

// descendBtree collects all cached items within the range in descending
// order. End stays exclusive and start inclusive.
func descendBtree(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	insert := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Descend(insert)
	case start == nil:
		bt.DescendLessOrEqual(ceiling(end), insert)
	case end == nil:
		bt.DescendGreaterThan(ceiling(start), insert)
	default:
		bt.DescendRange(ceiling(end), ceiling(start), insert)
	}
	return res
}

// cacheIterator joins our results with those of the parent,
// taking into consideration overwrites and deletes.
type cacheIterator struct {
	cached    []entry
	parent    Iterator
	ascending bool

	// next element of the parent iterator, read ahead
	parentKey, parentValue []byte
	parentDone             bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(cached []entry, parent Iterator, ascending bool) *cacheIterator {
	return &cacheIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
}

// Next returns the next element in the order of iteration, merging cached
// and parent data. Deleted cache entries hide the parent value.
func (i *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if err := i.readParent(); err != nil {
			return nil, nil, err
		}

		if len(i.cached) == 0 {
			if i.parentDone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
			}
			key, value = i.parentKey, i.parentValue
			i.parentKey, i.parentValue = nil, nil
			return key, value, nil
		}

		item := i.cached[0]
		if !i.parentDone {
			cmp := bytes.Compare(i.parentKey, item.key)
			if !i.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				key, value = i.parentKey, i.parentValue
				i.parentKey, i.parentValue = nil, nil
				return key, value, nil
			}
			if cmp == 0 {
				// Cached value overwrites the parent one.
				i.parentKey, i.parentValue = nil, nil
			}
		}

		i.cached = i.cached[1:]
		if !item.deleted {
			return item.key, item.value, nil
		}
	}
}

// readParent ensures the next parent element is loaded if there is one.
func (i *cacheIterator) readParent() error {
	if i.parentDone || i.parentKey != nil {
		return nil
	}
	key, value, err := i.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			i.parentDone = true
			return nil
		}
		return err
	}
	i.parentKey, i.parentValue = key, value
	return nil
}

// Release releases the Iterator.
func (i *cacheIterator) Release() {
	i.parent.Release()
	i.cached = nil
}
