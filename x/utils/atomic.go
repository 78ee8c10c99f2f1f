package utils

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// Atomic runs fn inside of a cache wrap of the given store. Changes are
// written only when fn succeeds, so a failing multi step operation never
// leaves partial state behind. Stores that cannot be cache wrapped are
// rejected.
func Atomic(db weave.KVStore, fn func(db weave.KVStore) error) error {
	cstore, ok := db.(weave.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrState, "%T store cannot be cache wrapped", db)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing atomic changes")
	}
	return nil
}
