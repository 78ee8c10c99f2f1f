package orm

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// bucketQuery exposes bucket content by primary key.
type bucketQuery struct {
	bucket *modelBucket
}

var _ weave.QueryHandler = bucketQuery{}

// Query handles queries from the QueryRouter. Returned keys include the
// bucket prefix.
func (q bucketQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := q.bucket.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(key, value)}, nil
	case weave.PrefixQueryMod:
		it, err := db.Iterator(prefixRange(q.bucket.dbKey(data)))
		if err != nil {
			return nil, err
		}
		return consumeIterator(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery returns all models referenced by an index value.
type indexQuery struct {
	bucket *modelBucket
	index  compactIndex
}

var _ weave.QueryHandler = indexQuery{}

// Query handles queries from the QueryRouter. Returned keys include the
// bucket prefix.
func (q indexQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	var refs [][]byte
	var err error
	switch mod {
	case weave.KeyQueryMod:
		refs, err = q.index.Keys(db, data)
	case weave.PrefixQueryMod:
		refs, err = q.index.KeysWithPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	if err != nil {
		return nil, err
	}

	res := make([]weave.Model, 0, len(refs))
	for _, ref := range refs {
		key := q.bucket.dbKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrState, "index references missing %X", ref)
		}
		res = append(res, weave.Pair(key, value))
	}
	return res, nil
}

// RegisterQuery registers the raw store access under "/". Use it to read
// any key, or any prefix with the "?prefix" modifier.
func RegisterQuery(qr weave.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

var _ weave.QueryHandler = rawQuery{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		it, err := db.Iterator(prefixRange(data))
		if err != nil {
			return nil, err
		}
		return consumeIterator(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}
