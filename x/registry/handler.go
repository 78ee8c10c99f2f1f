package registry

import (
	"strconv"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	mintCost     int64 = 50
	approveCost  int64 = 10
	transferCost int64 = 20
)

// AssetTag is the tag key under which the asset id is reported.
const AssetTag = "asset"

// RegisterRoutes registers all registry handlers.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(&MintMsg{}, &MintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ApproveMsg{}, &ApproveHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &TransferHandler{auth: auth, ctrl: ctrl})
}

func assetTags(id uint64) []common.KVPair {
	return []common.KVPair{
		{Key: []byte(AssetTag), Value: []byte(strconv.FormatUint(id, 10))},
	}
}

// MintHandler creates new assets. The future owner must sign.
type MintHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ weave.Handler = (*MintHandler)(nil)

func (h *MintHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(mintCost, ""), nil
}

func (h *MintHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Mint(db, msg.Owner, msg.MetadataURI)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: AssetKey(id), Tags: assetTags(id)}, nil
}

func (h *MintHandler) validate(ctx weave.Context, tx weave.Tx) (*MintMsg, error) {
	var msg MintMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, nil
}

// ApproveHandler lets the owner approve a spender.
type ApproveHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ weave.Handler = (*ApproveHandler)(nil)

func (h *ApproveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(approveCost, ""), nil
}

func (h *ApproveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, asset, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, asset.Owner, msg.Spender, msg.AssetID); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: assetTags(msg.AssetID)}, nil
}

func (h *ApproveHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ApproveMsg, *Asset, error) {
	var msg ApproveMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	asset, err := h.ctrl.Load(db, msg.AssetID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, asset.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, asset, nil
}

// TransferHandler moves an asset. It is signed either by the holder or by
// the approved spender.
type TransferHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ weave.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return weave.NewCheck(transferCost, ""), nil
}

func (h *TransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, operator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.TransferFrom(db, operator, msg.From, msg.To, msg.AssetID); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: assetTags(msg.AssetID)}, nil
}

// validate returns the message and the operator that signed it.
func (h *TransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, weave.Address, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	asset, err := h.ctrl.Load(db, msg.AssetID)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case h.auth.HasAddress(ctx, asset.Owner):
		return &msg, asset.Owner, nil
	case len(asset.Approved) != 0 && h.auth.HasAddress(ctx, asset.Approved):
		return &msg, asset.Approved, nil
	default:
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "neither owner nor approved spender signed")
	}
}
