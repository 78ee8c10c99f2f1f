package escrow

import (
	"strconv"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/registry"
	"github.com/iov-one/estate/x/utils"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	listCost       int64 = 300
	depositCost    int64 = 100
	inspectionCost int64 = 50
	approveCost    int64 = 50
	finalizeCost   int64 = 300
	cancelCost     int64 = 200
)

// AssetTag is the tag key under which the asset id is reported.
const AssetTag = "asset"

// RegisterRoutes registers all escrow handlers.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, cashctrl cash.Controller, assets registry.Controller) {
	l := newLedger(cashctrl, assets)
	r.Handle(&ListMsg{}, ListHandler{auth: auth, ledger: l})
	r.Handle(&DepositEarnestMsg{}, DepositEarnestHandler{auth: auth, ledger: l})
	r.Handle(&UpdateInspectionMsg{}, UpdateInspectionHandler{auth: auth, ledger: l})
	r.Handle(&ApproveSaleMsg{}, ApproveSaleHandler{auth: auth, ledger: l})
	r.Handle(&FinalizeSaleMsg{}, FinalizeSaleHandler{auth: auth, ledger: l})
	r.Handle(&CancelSaleMsg{}, CancelSaleHandler{auth: auth, ledger: l})
}

func result(assetID uint64) *weave.DeliverResult {
	return &weave.DeliverResult{
		Data: ListingKey(assetID),
		Tags: []common.KVPair{
			{Key: []byte(AssetTag), Value: []byte(strconv.FormatUint(assetID, 10))},
		},
	}
}

// ListHandler takes the asset into custody and creates the listing.
type ListHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = ListHandler{}

func (h ListHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(listCost, ""), nil
}

func (h ListHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	listing := &Listing{
		AssetID:       msg.AssetID,
		Buyer:         msg.Buyer,
		PurchasePrice: msg.PurchasePrice,
		EscrowAmount:  msg.EscrowAmount,
		State:         ListingStateListed,
	}
	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.moveAsset(db, conf.Seller, CustodyAddress(), msg.AssetID); err != nil {
			return err
		}
		return h.save(db, listing)
	})
	if err != nil {
		return nil, err
	}
	return result(msg.AssetID), nil
}

func (h ListHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ListMsg, *Configuration, error) {
	var msg ListMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can list")
	}
	switch err := h.bucket.Has(db, ListingKey(msg.AssetID)); {
	case err == nil:
		return nil, nil, errors.Wrapf(ErrAlreadyListed, "asset %d", msg.AssetID)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	return &msg, conf, nil
}

// DepositEarnestHandler moves value from the buyer into custody.
type DepositEarnestHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = DepositEarnestHandler{}

func (h DepositEarnestHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(depositCost, ""), nil
}

func (h DepositEarnestHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if listing.Deposited+msg.Amount < listing.Deposited {
		return nil, errors.Wrap(errors.ErrOverflow, "deposited amount")
	}
	listing.Deposited += msg.Amount

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.cash.Transfer(db, listing.Buyer, CustodyAddress(), msg.Amount); err != nil {
			return err
		}
		return h.save(db, listing)
	})
	if err != nil {
		return nil, err
	}
	return result(msg.AssetID), nil
}

func (h DepositEarnestHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*DepositEarnestMsg, *Listing, error) {
	var msg DepositEarnestMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	listing, err := LoadListing(db, msg.AssetID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, listing.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can deposit")
	}
	if !listing.IsListed() {
		return nil, nil, errors.Wrapf(ErrNotListed, "asset %d is %s", msg.AssetID, listing.State)
	}
	return &msg, listing, nil
}

// UpdateInspectionHandler records the inspection result.
type UpdateInspectionHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = UpdateInspectionHandler{}

func (h UpdateInspectionHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(inspectionCost, ""), nil
}

func (h UpdateInspectionHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	listing.InspectionPassed = msg.Passed
	if err := h.save(db, listing); err != nil {
		return nil, err
	}
	return result(msg.AssetID), nil
}

func (h UpdateInspectionHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UpdateInspectionMsg, *Listing, error) {
	var msg UpdateInspectionMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Inspector) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the inspector can report")
	}
	listing, err := h.listed(db, msg.AssetID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, listing, nil
}

// ApproveSaleHandler records the approval of the signer.
type ApproveSaleHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = ApproveSaleHandler{}

func (h ApproveSaleHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(approveCost, ""), nil
}

func (h ApproveSaleHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, approver, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	listing.approve(approver)
	if err := h.save(db, listing); err != nil {
		return nil, err
	}
	return result(msg.AssetID), nil
}

// validate returns the approving address. Nobody can approve on behalf of
// someone else.
func (h ApproveSaleHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ApproveSaleMsg, weave.Address, *Listing, error) {
	var msg ApproveSaleMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	approver := msg.Approver
	if len(approver) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		approver = signer.Address()
	}
	if !h.auth.HasAddress(ctx, approver) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "approver signature missing")
	}
	listing, err := h.listed(db, msg.AssetID)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, approver, listing, nil
}

// FinalizeSaleHandler settles a sale once every precondition holds.
type FinalizeSaleHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = FinalizeSaleHandler{}

func (h FinalizeSaleHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(finalizeCost, ""), nil
}

func (h FinalizeSaleHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, conf, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	listing.State = ListingStateFinalized

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.releaseFromCustody(db, conf.Seller, listing.PurchasePrice); err != nil {
			return errors.Wrap(err, "pay seller")
		}
		if err := h.moveAsset(db, CustodyAddress(), listing.Buyer, msg.AssetID); err != nil {
			return err
		}
		return h.save(db, listing)
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Info("sale finalized",
		"asset", msg.AssetID,
		"price", listing.PurchasePrice)
	return result(msg.AssetID), nil
}

func (h FinalizeSaleHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*FinalizeSaleMsg, *Configuration, *Listing, error) {
	var msg FinalizeSaleMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Seller) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can finalize")
	}
	listing, err := h.listed(db, msg.AssetID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := h.checkFinalize(db, conf, listing); err != nil {
		return nil, nil, nil, err
	}
	return &msg, conf, listing, nil
}

// CancelSaleHandler aborts a sale. The earnest goes back to the buyer
// unless the inspection passed.
type CancelSaleHandler struct {
	auth x.Authenticator
	ledger
}

var _ weave.Handler = CancelSaleHandler{}

func (h CancelSaleHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(cancelCost, ""), nil
}

func (h CancelSaleHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, conf, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	earnestTo := listing.Buyer
	if listing.InspectionPassed {
		earnestTo = conf.Seller
	}
	listing.State = ListingStateCancelled

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.releaseFromCustody(db, earnestTo, listing.Deposited); err != nil {
			return errors.Wrap(err, "settle earnest")
		}
		if err := h.moveAsset(db, CustodyAddress(), conf.Seller, msg.AssetID); err != nil {
			return err
		}
		return h.save(db, listing)
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Info("sale cancelled",
		"asset", msg.AssetID,
		"earnest", listing.Deposited,
		"inspection_passed", listing.InspectionPassed)
	return result(msg.AssetID), nil
}

func (h CancelSaleHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CancelSaleMsg, *Configuration, *Listing, error) {
	var msg CancelSaleMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, nil, err
	}
	listing, err := h.listed(db, msg.AssetID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !x.HasAnyAddress(ctx, h.auth, listing.Buyer, conf.Seller) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer or the seller can cancel")
	}
	return &msg, conf, listing, nil
}
