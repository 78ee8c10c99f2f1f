package store

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/weavetest/assert"
)

// StoreConstructor returns a fresh, empty store together with a function
// that releases its resources.
type StoreConstructor func() (base CacheableKVStore, cleanup func())

// KVStoreSuite runs the behaviour every CacheableKVStore implementation
// must provide against the store returned by the constructor. The ledger
// relies on it for both the in memory and the iavl backed state.
type KVStoreSuite struct {
	newStore StoreConstructor
}

// NewKVStoreSuite returns a suite testing stores built by the constructor.
func NewKVStoreSuite(constructor StoreConstructor) *KVStoreSuite {
	return &KVStoreSuite{newStore: constructor}
}

// Run executes all tests of the suite as subtests.
func (s *KVStoreSuite) Run(t *testing.T) {
	t.Run("cache layers", s.CacheLayers)
	t.Run("shadowed writes", s.ShadowedWrites)
	t.Run("random ranges", s.RandomRanges)
	t.Run("merged iteration", s.MergedIteration)
}

// CacheLayers checks that a cache sees its parent, that its writes stay
// private until written and that a discarded cache leaves no trace.
func (s *KVStoreSuite) CacheLayers(t *testing.T) {
	db, cleanup := s.newStore()
	defer cleanup()

	asset, owner := []byte("asset:1"), []byte("seller")
	expect(t, db, asset, nil)
	assert.Nil(t, db.Set(asset, owner))
	expect(t, db, asset, owner)

	listing, state := []byte("listing:1"), []byte("listed")
	cache := db.CacheWrap()
	expect(t, cache, asset, owner)
	assert.Nil(t, cache.Set(listing, state))
	expect(t, cache, listing, state)
	expect(t, db, listing, nil)

	assert.Nil(t, cache.Write())
	expect(t, db, listing, state)

	discarded := db.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("custody"), []byte("10")))
	assert.Nil(t, discarded.Delete(asset))
	discarded.Discard()
	expect(t, db, []byte("custody"), nil)
	expect(t, db, asset, owner)

	// A delete written through a second cache is visible to an older one
	// for keys it never touched.
	older := db.CacheWrap()
	newer := db.CacheWrap()
	assert.Nil(t, newer.Delete(asset))
	assert.Nil(t, newer.Write())
	expect(t, db, asset, nil)
	expect(t, older, asset, nil)
	expect(t, older, listing, state)
}

// ShadowedWrites checks that the values set and deleted in a cache hide
// the parent values, and that writing the cache applies all of them.
func (s *KVStoreSuite) ShadowedWrites(t *testing.T) {
	keys := randItems(4, 16)
	vals := randItems(4, 32)

	db, cleanup := s.newStore()
	defer cleanup()
	applyOps(t, db, SetOp(keys[0], vals[0]), SetOp(keys[1], vals[1]))

	cache := db.CacheWrap()
	applyOps(t, cache, SetOp(keys[0], vals[2]), SetOp(keys[2], vals[3]), DelOp(keys[1]))

	parent := []Model{Pair(keys[0], vals[0]), Pair(keys[1], vals[1]), Pair(keys[2], nil)}
	child := []Model{Pair(keys[0], vals[2]), Pair(keys[1], nil), Pair(keys[2], vals[3])}
	for _, m := range parent {
		expect(t, db, m.Key, m.Value)
	}
	for _, m := range child {
		expect(t, cache, m.Key, m.Value)
	}

	assert.Nil(t, cache.Write())
	for _, m := range child {
		expect(t, db, m.Key, m.Value)
	}
}

// RandomRanges iterates random data in both directions using every
// combination of range limits.
func (s *KVStoreSuite) RandomRanges(t *testing.T) {
	const size = 40

	childSet := randPairs(size, 8, 24)
	parentSet := randPairs(size, 8, 24)
	// Deleting keys that were never set must not show up anywhere.
	noise := append(setOps(childSet...), delOps(randPairs(10, 8, 24)...)...)

	child := sorted(childSet)
	merged := sorted(append(childSet, parentSet...))

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: noise,
			want:  child,
		},
		"child and parent": {
			parent: append(setOps(parentSet...), delOps(randPairs(10, 8, 24)...)...),
			child:  noise,
			want:   merged,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := s.newStore()
			defer cleanup()
			cache := layered(t, db, tc.parent, tc.child)

			n := len(tc.want)
			checkRange(t, cache, nil, nil, tc.want)
			checkRange(t, cache, tc.want[7].Key, nil, tc.want[7:])
			checkRange(t, cache, nil, tc.want[n-5].Key, tc.want[:n-5])
			checkRange(t, cache, tc.want[3].Key, tc.want[21].Key, tc.want[3:21])
		})
	}
}

// MergedIteration covers iteration over a cache that overwrites and
// deletes values of its parent.
func (s *KVStoreSuite) MergedIteration(t *testing.T) {
	ms := randPairs(6, 20, 60)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key = a.Key
	b2.Key = b.Key

	abc := sorted([]Model{a, b, c})
	overwritten := sorted([]Model{a2, b2, c, d})

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"values in the child": {
			child: setOps(a, b, c),
			want:  abc,
		},
		"values in the parent": {
			parent: setOps(a, b, c),
			want:   abc,
		},
		"values in both": {
			parent: setOps(a, b),
			child:  setOps(c),
			want:   abc,
		},
		"child overwrites the parent": {
			parent: setOps(a, b, c),
			child:  setOps(a2, b2, d),
			want:   overwritten,
		},
		"child deletes from the parent": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			want:   []Model{c},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := s.newStore()
			defer cleanup()
			cache := layered(t, db, tc.parent, tc.child)

			checkRange(t, cache, nil, nil, tc.want)
			if len(tc.want) > 2 {
				checkRange(t, cache, tc.want[1].Key, tc.want[2].Key, tc.want[1:2])
			}
			checkRange(t, cache, nil, tc.want[0].Key, nil)
		})
	}
}

// expect ensures the store holds the value under the key. A nil value
// means the key must be absent.
func expect(t testing.TB, db ReadOnlyKVStore, key, value []byte) {
	t.Helper()
	got, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, got)
	has, err := db.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, value != nil, has)
}

func applyOps(t testing.TB, db SetDeleter, ops ...Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(db))
	}
}

func layered(t testing.TB, db CacheableKVStore, parent, child []Op) KVCacheWrap {
	t.Helper()
	applyOps(t, db, parent...)
	cache := db.CacheWrap()
	applyOps(t, cache, child...)
	return cache
}

// checkRange iterates the range both forward and backward.
func checkRange(t testing.TB, db ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()
	forward, err := db.Iterator(start, end)
	assert.Nil(t, err)
	drain(t, "forward", forward, want)

	backward, err := db.ReverseIterator(start, end)
	assert.Nil(t, err)
	rev := make([]Model, len(want))
	for i, m := range want {
		rev[len(want)-1-i] = m
	}
	drain(t, "reverse", backward, rev)
}

func drain(t testing.TB, direction string, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("%s #%d: want key %X, got %X", direction, i, m.Key, key)
		}
		assert.Equal(t, m.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("%s: want iterator to be done, got %+v", direction, err)
	}
}

func randItems(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = make([]byte, size)
		if _, err := rand.Read(res[i]); err != nil {
			panic(fmt.Sprintf("cannot read random data: %s", err))
		}
	}
	return res
}

func randPairs(count, keySize, valueSize int) []Model {
	keys := randItems(count, keySize)
	values := randItems(count, valueSize)
	res := make([]Model, count)
	for i := range res {
		res[i] = Pair(keys[i], values[i])
	}
	return res
}

// sorted returns a copy of the models ordered by key.
func sorted(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
