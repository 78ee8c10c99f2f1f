package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

const (
	pathList             = "escrow/list"
	pathDepositEarnest   = "escrow/deposit"
	pathUpdateInspection = "escrow/inspect"
	pathApproveSale      = "escrow/approve"
	pathFinalizeSale     = "escrow/finalize"
	pathCancelSale       = "escrow/cancel"
)

func validateAssetID(id uint64) error {
	if id == 0 {
		return errors.Field("AssetID", errors.ErrEmpty, "required")
	}
	return nil
}

// ListMsg moves an asset from the seller into custody and opens a sale to
// the given buyer.
type ListMsg struct {
	AssetID       uint64        `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Buyer         weave.Address `protobuf:"bytes,2,opt,name=buyer,proto3" json:"buyer,omitempty"`
	PurchasePrice uint64        `protobuf:"varint,3,opt,name=purchase_price,json=purchasePrice,proto3" json:"purchase_price,omitempty"`
	EscrowAmount  uint64        `protobuf:"varint,4,opt,name=escrow_amount,json=escrowAmount,proto3" json:"escrow_amount,omitempty"`
}

var _ weave.Msg = (*ListMsg)(nil)

func (ListMsg) Path() string {
	return pathList
}

func (m *ListMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, validateAssetID(m.AssetID))
	errs = errors.AppendField(errs, "Buyer", m.Buyer.Validate())
	if m.EscrowAmount > m.PurchasePrice {
		errs = errors.Append(errs, errors.Field("EscrowAmount", errors.ErrInput,
			"escrow amount %d greater than purchase price %d", m.EscrowAmount, m.PurchasePrice))
	}
	return errs
}

func (m *ListMsg) Marshal() ([]byte, error)  { return proto.Marshal((*listMsgWire)(m)) }
func (m *ListMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*listMsgWire)(m)) }

type listMsgWire ListMsg

func (m *listMsgWire) Reset()         { *m = listMsgWire{} }
func (m *listMsgWire) String() string { return proto.CompactTextString(m) }
func (*listMsgWire) ProtoMessage()    {}

// DepositEarnestMsg moves value from the buyer into custody.
type DepositEarnestMsg struct {
	AssetID uint64 `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Amount  uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ weave.Msg = (*DepositEarnestMsg)(nil)

func (DepositEarnestMsg) Path() string {
	return pathDepositEarnest
}

func (m *DepositEarnestMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, validateAssetID(m.AssetID))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *DepositEarnestMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*depositEarnestMsgWire)(m))
}
func (m *DepositEarnestMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*depositEarnestMsgWire)(m))
}

type depositEarnestMsgWire DepositEarnestMsg

func (m *depositEarnestMsgWire) Reset()         { *m = depositEarnestMsgWire{} }
func (m *depositEarnestMsgWire) String() string { return proto.CompactTextString(m) }
func (*depositEarnestMsgWire) ProtoMessage()    {}

// UpdateInspectionMsg records the inspection result. A later result
// overwrites an earlier one.
type UpdateInspectionMsg struct {
	AssetID uint64 `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Passed  bool   `protobuf:"varint,2,opt,name=passed,proto3" json:"passed,omitempty"`
}

var _ weave.Msg = (*UpdateInspectionMsg)(nil)

func (UpdateInspectionMsg) Path() string {
	return pathUpdateInspection
}

func (m *UpdateInspectionMsg) Validate() error {
	return validateAssetID(m.AssetID)
}

func (m *UpdateInspectionMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateInspectionMsgWire)(m))
}
func (m *UpdateInspectionMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*updateInspectionMsgWire)(m))
}

type updateInspectionMsgWire UpdateInspectionMsg

func (m *updateInspectionMsgWire) Reset()         { *m = updateInspectionMsgWire{} }
func (m *updateInspectionMsgWire) String() string { return proto.CompactTextString(m) }
func (*updateInspectionMsgWire) ProtoMessage()    {}

// ApproveSaleMsg records the approval of a single party. Approver
// defaults to the main signer of the transaction.
type ApproveSaleMsg struct {
	AssetID  uint64        `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Approver weave.Address `protobuf:"bytes,2,opt,name=approver,proto3" json:"approver,omitempty"`
}

var _ weave.Msg = (*ApproveSaleMsg)(nil)

func (ApproveSaleMsg) Path() string {
	return pathApproveSale
}

func (m *ApproveSaleMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, validateAssetID(m.AssetID))
	if len(m.Approver) != 0 {
		errs = errors.AppendField(errs, "Approver", m.Approver.Validate())
	}
	return errs
}

func (m *ApproveSaleMsg) Marshal() ([]byte, error)  { return proto.Marshal((*approveSaleMsgWire)(m)) }
func (m *ApproveSaleMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*approveSaleMsgWire)(m)) }

type approveSaleMsgWire ApproveSaleMsg

func (m *approveSaleMsgWire) Reset()         { *m = approveSaleMsgWire{} }
func (m *approveSaleMsgWire) String() string { return proto.CompactTextString(m) }
func (*approveSaleMsgWire) ProtoMessage()    {}

// FinalizeSaleMsg pays the seller and hands the asset to the buyer.
type FinalizeSaleMsg struct {
	AssetID uint64 `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
}

var _ weave.Msg = (*FinalizeSaleMsg)(nil)

func (FinalizeSaleMsg) Path() string {
	return pathFinalizeSale
}

func (m *FinalizeSaleMsg) Validate() error {
	return validateAssetID(m.AssetID)
}

func (m *FinalizeSaleMsg) Marshal() ([]byte, error)  { return proto.Marshal((*finalizeSaleMsgWire)(m)) }
func (m *FinalizeSaleMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*finalizeSaleMsgWire)(m)) }

type finalizeSaleMsgWire FinalizeSaleMsg

func (m *finalizeSaleMsgWire) Reset()         { *m = finalizeSaleMsgWire{} }
func (m *finalizeSaleMsgWire) String() string { return proto.CompactTextString(m) }
func (*finalizeSaleMsgWire) ProtoMessage()    {}

// CancelSaleMsg aborts the sale, settles the earnest and returns the
// asset to the seller.
type CancelSaleMsg struct {
	AssetID uint64 `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
}

var _ weave.Msg = (*CancelSaleMsg)(nil)

func (CancelSaleMsg) Path() string {
	return pathCancelSale
}

func (m *CancelSaleMsg) Validate() error {
	return validateAssetID(m.AssetID)
}

func (m *CancelSaleMsg) Marshal() ([]byte, error)  { return proto.Marshal((*cancelSaleMsgWire)(m)) }
func (m *CancelSaleMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*cancelSaleMsgWire)(m)) }

type cancelSaleMsgWire CancelSaleMsg

func (m *cancelSaleMsgWire) Reset()         { *m = cancelSaleMsgWire{} }
func (m *cancelSaleMsgWire) String() string { return proto.CompactTextString(m) }
func (*cancelSaleMsgWire) ProtoMessage()    {}
