package weave

import (
	"reflect"

	"github.com/iov-one/estate/errors"
)

// Marshaller serializes a value. Marshal may validate first, so expect
// errors from values that were not validated.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written to and read back from the store. Unmarshal
// almost always needs a pointer receiver, which is why Marshaller exists
// on its own.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for a single state transition, such as listing a
// property or depositing earnest money. Authentication data lives in
// the Tx that carries it.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "escrow/deposit". It matches [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks everything that can be checked without reading
	// the store.
	Validate() error
}

// Tx is what a client submits: one message plus whatever the decorators
// need, such as signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath is the path of the carried message, or "(missing)". Meant for
// logs.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the message of tx and copies it into dst, which must
// be a pointer to the concrete message type:
//
//   var msg escrow.ListMsg
//   if err := weave.LoadMsg(tx, &msg); err != nil {
//       return err
//   }
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrState, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	out := reflect.ValueOf(dst)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non nil pointer, got %T", dst)
	}
	in := reflect.Indirect(reflect.ValueOf(msg))
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "%T cannot be loaded into %T", msg, dst)
	}
	out.Elem().Set(in)
	return nil
}
