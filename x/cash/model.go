package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single address. The address is the
// primary key and is not part of the value.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate always passes, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error)  { return proto.Marshal((*walletWire)(w)) }
func (w *Wallet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*walletWire)(w)) }

type walletWire Wallet

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

// NewBucket returns a bucket for wallets keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
