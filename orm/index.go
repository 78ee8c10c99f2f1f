package orm

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

const compactIdxPrefix = "_i."

// compactIndex stores all primary keys indexed under the same value as a
// set, serialized and stored under single key. Fine for the small
// collections this application indexes.
//
// An unique index never holds more than one reference per value.
type compactIndex struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

func newCompactIndex(bucket, name string, indexer Indexer, unique bool) compactIndex {
	return compactIndex{
		name:    name,
		id:      []byte(compactIdxPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the model in
// the secondary index.
//
// prev == nil means insert
// next == nil means delete
// both == nil is error
func (i compactIndex) Update(db weave.KVStore, pk []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var prevKey, nextKey []byte
	var err error
	if prev != nil {
		if prevKey, err = i.indexer(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if nextKey, err = i.indexer(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}

	// Nothing changed, nothing to do.
	if prev != nil && next != nil && string(prevKey) == string(nextKey) {
		return nil
	}
	if prevKey != nil {
		if err := i.remove(db, prevKey, pk); err != nil {
			return err
		}
	}
	if nextKey != nil {
		if err := i.insert(db, nextKey, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i compactIndex) insert(db weave.KVStore, value, pk []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
	}
	if err := refs.Add(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.store(db, value, refs)
}

func (i compactIndex) remove(db weave.KVStore, value, pk []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(i.indexKey(value))
	}
	return i.store(db, value, refs)
}

func (i compactIndex) load(db weave.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load index")
	}
	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s corrupted: %s", i.name, err)
		}
	}
	return &refs, nil
}

func (i compactIndex) store(db weave.KVStore, value []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize index")
	}
	return db.Set(i.indexKey(value), raw)
}

// Keys returns all primary keys indexed under given value, in order.
func (i compactIndex) Keys(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// KeysWithPrefix returns all primary keys indexed under a value that starts
// with the given prefix.
func (i compactIndex) KeysWithPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	it, err := db.Iterator(prefixRange(i.indexKey(prefix)))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res [][]byte
	for {
		_, raw, err := it.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			return nil, err
		}
		var refs MultiRef
		if err := refs.Unmarshal(raw); err != nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s corrupted: %s", i.name, err)
		}
		res = append(res, refs.Refs...)
	}
}
