package estated

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/escrow"
	"github.com/iov-one/estate/x/registry"
	"github.com/iov-one/estate/x/sigs"
)

// Tx is the only transaction type accepted by the estate node. Exactly
// one of the message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures" json:"signatures,omitempty"`

	SendMsg *cash.SendMsg `protobuf:"bytes,51,opt,name=send_msg,json=sendMsg" json:"send_msg,omitempty"`

	MintAssetMsg     *registry.MintMsg     `protobuf:"bytes,61,opt,name=mint_asset_msg,json=mintAssetMsg" json:"mint_asset_msg,omitempty"`
	ApproveAssetMsg  *registry.ApproveMsg  `protobuf:"bytes,62,opt,name=approve_asset_msg,json=approveAssetMsg" json:"approve_asset_msg,omitempty"`
	TransferAssetMsg *registry.TransferMsg `protobuf:"bytes,63,opt,name=transfer_asset_msg,json=transferAssetMsg" json:"transfer_asset_msg,omitempty"`

	ListMsg             *escrow.ListMsg             `protobuf:"bytes,71,opt,name=list_msg,json=listMsg" json:"list_msg,omitempty"`
	DepositEarnestMsg   *escrow.DepositEarnestMsg   `protobuf:"bytes,72,opt,name=deposit_earnest_msg,json=depositEarnestMsg" json:"deposit_earnest_msg,omitempty"`
	UpdateInspectionMsg *escrow.UpdateInspectionMsg `protobuf:"bytes,73,opt,name=update_inspection_msg,json=updateInspectionMsg" json:"update_inspection_msg,omitempty"`
	ApproveSaleMsg      *escrow.ApproveSaleMsg      `protobuf:"bytes,74,opt,name=approve_sale_msg,json=approveSaleMsg" json:"approve_sale_msg,omitempty"`
	FinalizeSaleMsg     *escrow.FinalizeSaleMsg     `protobuf:"bytes,75,opt,name=finalize_sale_msg,json=finalizeSaleMsg" json:"finalize_sale_msg,omitempty"`
	CancelSaleMsg       *escrow.CancelSaleMsg       `protobuf:"bytes,76,opt,name=cancel_sale_msg,json=cancelSaleMsg" json:"cancel_sale_msg,omitempty"`
}

func (tx *Tx) Marshal() ([]byte, error)  { return proto.Marshal((*txWire)(tx)) }
func (tx *Tx) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*txWire)(tx)) }

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	err := tx.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// msgs returns the messages that are set. A typed nil pointer is not a nil
// interface, so every slot is checked before conversion.
func (tx *Tx) msgs() []weave.Msg {
	var set []weave.Msg
	add := func(present bool, m weave.Msg) {
		if present {
			set = append(set, m)
		}
	}
	add(tx.SendMsg != nil, tx.SendMsg)
	add(tx.MintAssetMsg != nil, tx.MintAssetMsg)
	add(tx.ApproveAssetMsg != nil, tx.ApproveAssetMsg)
	add(tx.TransferAssetMsg != nil, tx.TransferAssetMsg)
	add(tx.ListMsg != nil, tx.ListMsg)
	add(tx.DepositEarnestMsg != nil, tx.DepositEarnestMsg)
	add(tx.UpdateInspectionMsg != nil, tx.UpdateInspectionMsg)
	add(tx.ApproveSaleMsg != nil, tx.ApproveSaleMsg)
	add(tx.FinalizeSaleMsg != nil, tx.FinalizeSaleMsg)
	add(tx.CancelSaleMsg != nil, tx.CancelSaleMsg)
	return set
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	switch set := tx.msgs(); len(set) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "message missing")
	case 1:
		return set[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages set, expected one", len(set))
	}
}

// SetMsg stores the message in its slot, replacing any message the
// transaction carried before.
func (tx *Tx) SetMsg(msg weave.Msg) error {
	sigs := tx.Signatures
	*tx = Tx{Signatures: sigs}
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *registry.MintMsg:
		tx.MintAssetMsg = m
	case *registry.ApproveMsg:
		tx.ApproveAssetMsg = m
	case *registry.TransferMsg:
		tx.TransferAssetMsg = m
	case *escrow.ListMsg:
		tx.ListMsg = m
	case *escrow.DepositEarnestMsg:
		tx.DepositEarnestMsg = m
	case *escrow.UpdateInspectionMsg:
		tx.UpdateInspectionMsg = m
	case *escrow.ApproveSaleMsg:
		tx.ApproveSaleMsg = m
	case *escrow.FinalizeSaleMsg:
		tx.FinalizeSaleMsg = m
	case *escrow.CancelSaleMsg:
		tx.CancelSaleMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns the signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
