package registry

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/orm"
)

// Controller is what other extensions need to read and move assets.
type Controller interface {
	// OwnerOf returns the current holder of the asset.
	OwnerOf(db weave.ReadOnlyKVStore, id uint64) (weave.Address, error)

	// TransferFrom moves the asset from one holder to another. The
	// operator must be the holder or the approved spender.
	TransferFrom(db weave.KVStore, operator, from, to weave.Address, id uint64) error
}

// BaseController implements Controller on top of the asset bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Load returns the asset with the given id or ErrNotFound.
func (c BaseController) Load(db weave.ReadOnlyKVStore, id uint64) (*Asset, error) {
	var a Asset
	if err := c.bucket.One(db, AssetKey(id), &a); err != nil {
		return nil, errors.Wrapf(err, "asset %d", id)
	}
	return &a, nil
}

// Mint creates a new asset and returns its id.
func (c BaseController) Mint(db weave.KVStore, owner weave.Address, metadataURI string) (uint64, error) {
	key, err := c.bucket.Put(db, nil, &Asset{Owner: owner, MetadataURI: metadataURI})
	if err != nil {
		return 0, errors.Wrap(err, "mint")
	}
	return AssetID(key)
}

// Approve grants spender the right to transfer the asset. Only the owner
// can approve and an empty spender revokes the approval.
func (c BaseController) Approve(db weave.KVStore, owner, spender weave.Address, id uint64) error {
	a, err := c.Load(db, id)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner of asset %d", owner, id)
	}
	a.Approved = spender
	_, err = c.bucket.Put(db, AssetKey(id), a)
	return err
}

// OwnerOf returns the current holder of the asset.
func (c BaseController) OwnerOf(db weave.ReadOnlyKVStore, id uint64) (weave.Address, error) {
	a, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	return a.Owner, nil
}

// TransferFrom moves the asset to a new owner and clears the approval.
func (c BaseController) TransferFrom(db weave.KVStore, operator, from, to weave.Address, id uint64) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	a, err := c.Load(db, id)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(from) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not hold asset %d", from, id)
	}
	if !operator.Equals(a.Owner) && (len(a.Approved) == 0 || !operator.Equals(a.Approved)) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s may not transfer asset %d", operator, id)
	}
	a.Owner = to
	a.Approved = nil
	_, err = c.bucket.Put(db, AssetKey(id), a)
	return err
}
