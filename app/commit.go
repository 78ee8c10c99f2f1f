package app

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// CommitStore wraps the persistent store with two cache layers. CheckTx
// runs on the check cache, which is thrown away on every commit. DeliverTx
// runs on the deliver cache, which is flushed to disk on commit.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest version of the store. It panics when the
// store cannot be loaded because the node cannot continue without it.
func NewCommitStore(store weave.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the last commit and starts a
// new block with fresh caches.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.resetCaches()
	return id, nil
}

func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// Keys with the _wv: prefix are reserved for the application itself.
var chainIDKey = []byte("_wv:chainID")

// mustLoadChainID returns the stored chain ID, or an empty string before
// genesis.
func mustLoadChainID(db weave.ReadOnlyKVStore) string {
	v, err := db.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores the chain ID. It can be written only once.
func saveChainID(db weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	if err := db.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
