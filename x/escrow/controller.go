package escrow

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/orm"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/registry"
)

// CustodyBalance returns the pooled balance held by the ledger.
func CustodyBalance(db weave.ReadOnlyKVStore) (uint64, error) {
	return cash.NewController().Balance(db, CustodyAddress())
}

// ledger holds the collaborators shared by all handlers.
type ledger struct {
	bucket orm.ModelBucket
	cash   cash.Controller
	assets registry.Controller
}

func newLedger(cashctrl cash.Controller, assets registry.Controller) ledger {
	return ledger{
		bucket: NewBucket(),
		cash:   cashctrl,
		assets: assets,
	}
}

// listed returns the listing of the asset if it can still be acted on.
func (l ledger) listed(db weave.ReadOnlyKVStore, assetID uint64) (*Listing, error) {
	listing, err := LoadListing(db, assetID)
	if err != nil {
		return nil, err
	}
	if !listing.IsListed() {
		return nil, errors.Wrapf(ErrNotListed, "asset %d is %s", assetID, listing.State)
	}
	return listing, nil
}

func (l ledger) save(db weave.KVStore, listing *Listing) error {
	_, err := l.bucket.Put(db, ListingKey(listing.AssetID), listing)
	return errors.Wrap(err, "save listing")
}

// moveAsset transfers the asset with the custody account as operator.
func (l ledger) moveAsset(db weave.KVStore, from, to weave.Address, assetID uint64) error {
	if err := l.assets.TransferFrom(db, CustodyAddress(), from, to, assetID); err != nil {
		return errors.Wrapf(ErrAssetTransfer, "asset %d: %s", assetID, err)
	}
	return nil
}

// custodyBalance returns the pooled balance using the injected controller.
func (l ledger) custodyBalance(db weave.ReadOnlyKVStore) (uint64, error) {
	return l.cash.Balance(db, CustodyAddress())
}

// releaseFromCustody pays the amount out of the pooled balance.
func (l ledger) releaseFromCustody(db weave.KVStore, to weave.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := l.custodyBalance(db)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(ErrInsufficientCustody, "balance %d, required %d", balance, amount)
	}
	return l.cash.Transfer(db, CustodyAddress(), to, amount)
}

// checkFinalize returns ErrPrecondition naming the first unmet condition.
func (l ledger) checkFinalize(db weave.ReadOnlyKVStore, conf *Configuration, listing *Listing) error {
	if !listing.InspectionPassed {
		return errors.Wrap(ErrPrecondition, "inspection not passed")
	}
	parties := []struct {
		name string
		addr weave.Address
	}{
		{"buyer", listing.Buyer},
		{"seller", conf.Seller},
		{"lender", conf.Lender},
	}
	for _, p := range parties {
		if !listing.HasApproved(p.addr) {
			return errors.Wrapf(ErrPrecondition, "%s approval missing", p.name)
		}
	}
	balance, err := l.custodyBalance(db)
	if err != nil {
		return err
	}
	if balance < listing.PurchasePrice {
		return errors.Wrapf(ErrPrecondition, "custody balance %d below purchase price %d", balance, listing.PurchasePrice)
	}
	return nil
}
