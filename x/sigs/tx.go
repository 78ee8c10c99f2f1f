package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate/crypto"
	"github.com/iov-one/estate/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// It must not include the signatures themselves.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of everyone who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature binds a signature to the public key and the sequence
// (nonce) it was produced with.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,4,opt,name=signature" json:"signature,omitempty"`
}

// GetSequence is nil safe.
func (s *StdSignature) GetSequence() int64 {
	if s == nil {
		return 0
	}
	return s.Sequence
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.GetSequence() < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error)  { return proto.Marshal((*stdSignatureWire)(s)) }
func (s *StdSignature) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*stdSignatureWire)(s)) }

type stdSignatureWire StdSignature

func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }
func (*stdSignatureWire) ProtoMessage()    {}
