package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

const maxMemoSize = 128

// SendMsg moves value from the source wallet to the destination address.
type SendMsg struct {
	Source      weave.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Destination weave.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string        `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "too long"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error)  { return proto.Marshal((*sendMsgWire)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgWire)(m)) }

type sendMsgWire SendMsg

func (m *sendMsgWire) Reset()         { *m = sendMsgWire{} }
func (m *sendMsgWire) String() string { return proto.CompactTextString(m) }
func (*sendMsgWire) ProtoMessage()    {}
