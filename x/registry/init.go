package registry

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

const optKey = "registry"

// GenesisAsset is an asset minted at chain start. Ids are assigned in
// declaration order, starting at 1.
type GenesisAsset struct {
	Owner       weave.Address `json:"owner"`
	MetadataURI string        `json:"metadata_uri"`
	// Approved is optional.
	Approved weave.Address `json:"approved"`
}

// Initializer mints the genesis assets.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis mints every asset listed under the registry key.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var assets []GenesisAsset
	if err := opts.ReadOptions(optKey, &assets); err != nil {
		return err
	}
	ctrl := NewController()
	for i, a := range assets {
		id, err := ctrl.Mint(db, a.Owner, a.MetadataURI)
		if err != nil {
			return errors.Wrapf(err, "asset %d", i)
		}
		if len(a.Approved) == 0 {
			continue
		}
		if err := ctrl.Approve(db, a.Owner, a.Approved, id); err != nil {
			return errors.Wrapf(err, "asset %d approval", i)
		}
	}
	return nil
}
