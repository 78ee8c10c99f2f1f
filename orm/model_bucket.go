package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// ModelBucket stores Models of a single type under a common prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all entities that are indexed under given value by
	// the index with the given name. Result is appended to the
	// destination, which must be a pointer to a slice of model pointers,
	// and the primary keys are returned in the same order.
	ByIndex(db weave.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database. If key is nil and the bucket
	// was created with an id sequence, a new key is allocated. The key
	// used is returned.
	Put(db weave.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db weave.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router under /<name> and /<name>/<index>.
	Register(name string, r weave.QueryRouter)
}

// ModelSlicePtr is a pointer to a slice of models, for example *[]*Listing.
type ModelSlicePtr interface{}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index " + name + " declared twice")
		}
		mb.indexes[name] = newCompactIndex(mb.name, name, indexer, unique)
		mb.indexNames = append(mb.indexNames, name)
	}
}

// WithIDSequence configures the bucket to use the given sequence when a
// model is stored without a key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.seq = &s
	}
}

var isBucketName = regexp.MustCompile(`^[a-z][a-z0-9_]{1,35}$`).MatchString

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as the given one. Name must be lower case letters, digits or
// underscores.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: tp,
		indexes:   make(map[string]compactIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name       string
	prefix     []byte
	modelType  reflect.Type
	seq        *Sequence
	indexes    map[string]compactIndex
	indexNames []string
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.modelType.Elem()).Interface().(Model)
}

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.modelType {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.modelType)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot unmarshal %s: %s", mb.name, err)
	}
	return nil
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db weave.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "unknown index %q", indexName)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.Elem().Kind() != reflect.Slice || dv.Elem().Type().Elem() != mb.modelType {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot be loaded with %s", dest, mb.modelType)
	}

	keys, err := idx.Keys(db, key)
	if err != nil {
		return nil, err
	}

	slice := dv.Elem()
	for _, pk := range keys {
		m := mb.newModel()
		if err := mb.One(db, pk, m); err != nil {
			return nil, errors.Wrapf(err, "index %s references %X", indexName, pk)
		}
		slice = reflect.Append(slice, reflect.ValueOf(m))
	}
	dv.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != mb.modelType {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if key == nil {
		if mb.seq == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "%s bucket has no id sequence", mb.name)
		}
		next, err := mb.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
		key = next
	}

	var prev Model
	if len(mb.indexes) > 0 {
		old := mb.newModel()
		switch err := mb.One(db, key, old); {
		case err == nil:
			prev = old
		case errors.ErrNotFound.Is(err):
		default:
			return nil, err
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize model")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	for _, name := range mb.indexNames {
		if err := mb.indexes[name].Update(db, key, prev, m); err != nil {
			return nil, err
		}
	}
	return key, nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	prev := mb.newModel()
	if err := mb.One(db, key, prev); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	for _, name := range mb.indexNames {
		if err := mb.indexes[name].Update(db, key, prev, nil); err != nil {
			return err
		}
	}
	return nil
}

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	r.Register("/"+name, bucketQuery{mb})
	for _, idxName := range mb.indexNames {
		r.Register("/"+name+"/"+idxName, indexQuery{bucket: mb, index: mb.indexes[idxName]})
	}
}
