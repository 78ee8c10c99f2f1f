package orm

import (
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeedBucket() ModelBucket {
	return NewModelBucket("deed", &deed{},
		WithIDSequence(NewSequence("deed", "id")),
		WithIndex("holder", deedByHolder, false),
	)
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := newDeedBucket()

	key, err := b.Put(db, nil, &deed{Holder: []byte("alice"), Title: "first"})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), key)

	key2, err := b.Put(db, nil, &deed{Holder: []byte("bob"), Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(2), key2)

	var got deed
	require.NoError(t, b.One(db, key, &got))
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, []byte("alice"), got.Holder)

	require.NoError(t, b.Has(db, key2))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, EncodeSequence(3))))
	assert.True(t, errors.ErrNotFound.Is(b.One(db, EncodeSequence(3), &got)))

	var wrong other
	assert.True(t, errors.ErrType.Is(b.One(db, key, &wrong)))
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := newDeedBucket()

	_, err := b.Put(db, nil, &deed{Title: "no holder"})
	assert.True(t, errors.ErrEmpty.Is(err))

	_, err = NewModelBucket("plain", &deed{}).Put(db, nil, &deed{Holder: []byte("x")})
	assert.True(t, errors.ErrHuman.Is(err))
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newDeedBucket()

	k1, err := b.Put(db, nil, &deed{Holder: []byte("alice"), Title: "a1"})
	require.NoError(t, err)
	k2, err := b.Put(db, nil, &deed{Holder: []byte("alice"), Title: "a2"})
	require.NoError(t, err)
	k3, err := b.Put(db, nil, &deed{Holder: []byte("bob"), Title: "b1"})
	require.NoError(t, err)

	var deeds []*deed
	keys, err := b.ByIndex(db, "holder", []byte("alice"), &deeds)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{k1, k2}, keys)
	require.Len(t, deeds, 2)
	assert.Equal(t, "a1", deeds[0].Title)

	// Moving a deed to another holder updates the index.
	_, err = b.Put(db, k2, &deed{Holder: []byte("bob"), Title: "a2"})
	require.NoError(t, err)

	deeds = nil
	keys, err = b.ByIndex(db, "holder", []byte("bob"), &deeds)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{k2, k3}, keys)

	require.NoError(t, b.Delete(db, k1))
	deeds = nil
	keys, err = b.ByIndex(db, "holder", []byte("alice"), &deeds)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, deeds)

	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, k1)))

	_, err = b.ByIndex(db, "title", []byte("a1"), &deeds)
	assert.True(t, ErrInvalidIndex.Is(err))
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("deed", &deed{}, WithIndex("holder", deedByHolder, true))

	_, err := b.Put(db, []byte("one"), &deed{Holder: []byte("alice")})
	require.NoError(t, err)
	_, err = b.Put(db, []byte("two"), &deed{Holder: []byte("alice")})
	assert.True(t, errors.ErrDuplicate.Is(err))

	// Updating the same entity keeps the index value.
	_, err = b.Put(db, []byte("one"), &deed{Holder: []byte("alice"), Title: "renamed"})
	assert.NoError(t, err)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newDeedBucket()
	qr := weave.NewQueryRouter()
	b.Register("deeds", qr)

	k1, err := b.Put(db, nil, &deed{Holder: []byte("alice"), Title: "a1"})
	require.NoError(t, err)
	_, err = b.Put(db, nil, &deed{Holder: []byte("bob"), Title: "b1"})
	require.NoError(t, err)

	res, err := qr.Handler("/deeds").Query(db, weave.KeyQueryMod, k1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, append([]byte("deed:"), k1...), res[0].Key)

	res, err = qr.Handler("/deeds").Query(db, weave.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = qr.Handler("/deeds/holder").Query(db, weave.KeyQueryMod, []byte("bob"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	var got deed
	require.NoError(t, got.Unmarshal(res[0].Value))
	assert.Equal(t, "b1", got.Title)

	res, err = qr.Handler("/deeds").Query(db, weave.KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Empty(t, res)
}
