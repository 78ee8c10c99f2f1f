package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// ExtensionName is used for the conditions produced by public keys.
const ExtensionName = "sigs"

// PublicKey wraps the public part of a key pair. Only ed25519 keys are
// supported.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey wraps the secret part of a key pair. Only ed25519 keys are
// supported.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is produced by a PrivateKey and verified by the matching
// PublicKey.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signer is implemented by private keys.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ Signer = (*PrivateKey)(nil)

// GetEd25519 returns the raw key bytes or nil.
func (m *PublicKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

// GetEd25519 returns the raw key bytes or nil.
func (m *PrivateKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

// GetEd25519 returns the raw signature bytes or nil.
func (m *Signature) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

// Condition returns the permission a signature of this key grants. It
// returns nil for an empty key.
func (m *PublicKey) Condition() weave.Condition {
	if len(m.GetEd25519()) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", m.Ed25519)
}

// Address returns the address of the condition of this key.
func (m *PublicKey) Address() weave.Address {
	c := m.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Validate ensures the key has the ed25519 length.
func (m *PublicKey) Validate() error {
	if len(m.GetEd25519()) != 32 {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(m.GetEd25519()))
	}
	return nil
}

func (m *PublicKey) Marshal() ([]byte, error)  { return proto.Marshal((*publicKeyWire)(m)) }
func (m *PublicKey) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*publicKeyWire)(m)) }

func (m *PrivateKey) Marshal() ([]byte, error)  { return proto.Marshal((*privateKeyWire)(m)) }
func (m *PrivateKey) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*privateKeyWire)(m)) }

func (m *Signature) Marshal() ([]byte, error)  { return proto.Marshal((*signatureWire)(m)) }
func (m *Signature) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*signatureWire)(m)) }

// The wire types carry the proto.Message methods so the table marshaler
// never calls back into Marshal above.
type publicKeyWire PublicKey

func (m *publicKeyWire) Reset()         { *m = publicKeyWire{} }
func (m *publicKeyWire) String() string { return proto.CompactTextString(m) }
func (*publicKeyWire) ProtoMessage()    {}

type privateKeyWire PrivateKey

func (m *privateKeyWire) Reset()         { *m = privateKeyWire{} }
func (m *privateKeyWire) String() string { return proto.CompactTextString(m) }
func (*privateKeyWire) ProtoMessage()    {}

type signatureWire Signature

func (m *signatureWire) Reset()         { *m = signatureWire{} }
func (m *signatureWire) String() string { return proto.CompactTextString(m) }
func (*signatureWire) ProtoMessage()    {}
