package registry

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// MintMsg creates a new asset owned by Owner.
type MintMsg struct {
	Owner       weave.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	MetadataURI string        `protobuf:"bytes,2,opt,name=metadata_uri,json=metadataUri,proto3" json:"metadata_uri,omitempty"`
}

var _ weave.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return "registry/mint"
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if len(m.MetadataURI) > maxMetadataURISize {
		errs = errors.Append(errs, errors.Field("MetadataURI", errors.ErrInput, "too long"))
	}
	return errs
}

func (m *MintMsg) Marshal() ([]byte, error)  { return proto.Marshal((*mintMsgWire)(m)) }
func (m *MintMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*mintMsgWire)(m)) }

type mintMsgWire MintMsg

func (m *mintMsgWire) Reset()         { *m = mintMsgWire{} }
func (m *mintMsgWire) String() string { return proto.CompactTextString(m) }
func (*mintMsgWire) ProtoMessage()    {}

// ApproveMsg allows Spender to transfer the asset. An empty spender
// revokes the current approval.
type ApproveMsg struct {
	AssetID uint64        `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Spender weave.Address `protobuf:"bytes,2,opt,name=spender,proto3" json:"spender,omitempty"`
}

var _ weave.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return "registry/approve"
}

func (m *ApproveMsg) Validate() error {
	var errs error
	if m.AssetID == 0 {
		errs = errors.Append(errs, errors.Field("AssetID", errors.ErrEmpty, "required"))
	}
	if len(m.Spender) != 0 {
		errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	}
	return errs
}

func (m *ApproveMsg) Marshal() ([]byte, error)  { return proto.Marshal((*approveMsgWire)(m)) }
func (m *ApproveMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*approveMsgWire)(m)) }

type approveMsgWire ApproveMsg

func (m *approveMsgWire) Reset()         { *m = approveMsgWire{} }
func (m *approveMsgWire) String() string { return proto.CompactTextString(m) }
func (*approveMsgWire) ProtoMessage()    {}

// TransferMsg moves the asset from its holder to a new owner.
type TransferMsg struct {
	AssetID uint64        `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	From    weave.Address `protobuf:"bytes,2,opt,name=from,proto3" json:"from,omitempty"`
	To      weave.Address `protobuf:"bytes,3,opt,name=to,proto3" json:"to,omitempty"`
}

var _ weave.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "registry/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	if m.AssetID == 0 {
		errs = errors.Append(errs, errors.Field("AssetID", errors.ErrEmpty, "required"))
	}
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error)  { return proto.Marshal((*transferMsgWire)(m)) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*transferMsgWire)(m)) }

type transferMsgWire TransferMsg

func (m *transferMsgWire) Reset()         { *m = transferMsgWire{} }
func (m *transferMsgWire) String() string { return proto.CompactTextString(m) }
func (*transferMsgWire) ProtoMessage()    {}
