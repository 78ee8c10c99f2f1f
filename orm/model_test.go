package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate/errors"
)

// deed is a model used only by the tests of this package.
type deed struct {
	Holder []byte `protobuf:"bytes,1,opt,name=holder,proto3"`
	Title  string `protobuf:"bytes,2,opt,name=title,proto3"`
}

func (d *deed) Validate() error {
	if len(d.Holder) == 0 {
		return errors.Field("Holder", errors.ErrEmpty, "required")
	}
	return nil
}

func (d *deed) Marshal() ([]byte, error)  { return proto.Marshal((*deedWire)(d)) }
func (d *deed) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*deedWire)(d)) }

type deedWire deed

func (d *deedWire) Reset()         { *d = deedWire{} }
func (d *deedWire) String() string { return proto.CompactTextString(d) }
func (*deedWire) ProtoMessage()    {}

func deedByHolder(m Model) ([]byte, error) {
	d, ok := m.(*deed)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return d.Holder, nil
}

// other is a model of a different type, to test type checks.
type other struct {
	deed
}
