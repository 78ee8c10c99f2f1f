package weavetest

import (
	"encoding/binary"

	"github.com/iov-one/estate"
)

// Tx carries a single message. It cannot be serialized, use it with
// handlers and decorators directly.
type Tx struct {
	Msg weave.Msg
	// Err is returned by GetMsg when set.
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) { return tx.Msg, tx.Err }
func (tx *Tx) Marshal() ([]byte, error)   { panic("weavetest.Tx cannot be serialized") }
func (tx *Tx) Unmarshal([]byte) error     { panic("weavetest.Tx cannot be serialized") }

// Msg is a message routed by RoutePath. Its serialized form is whatever
// Serialized holds.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err is returned by Marshal and Unmarshal when set.
	Err error
	// ValidErr is returned by Validate.
	ValidErr error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }
func (m *Msg) Validate() error          { return m.ValidErr }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

// SequenceID returns the key an orm sequence assigns to its n-th value.
func SequenceID(n uint64) []byte {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], n)
	return id[:]
}
