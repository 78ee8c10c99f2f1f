package registry

import (
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/orm"
)

const (
	// BucketName is where the assets are stored.
	BucketName = "asset"

	maxMetadataURISize = 256
)

// Asset is a single tokenized property.
type Asset struct {
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// Approved is allowed to transfer the asset. Empty when no spender
	// was approved.
	Approved    weave.Address `protobuf:"bytes,2,opt,name=approved,proto3" json:"approved,omitempty"`
	MetadataURI string        `protobuf:"bytes,3,opt,name=metadata_uri,json=metadataUri,proto3" json:"metadata_uri,omitempty"`
}

var _ orm.Model = (*Asset)(nil)

// Validate ensures the asset is consistent.
func (a *Asset) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if len(a.Approved) != 0 {
		errs = errors.AppendField(errs, "Approved", a.Approved.Validate())
	}
	if len(a.MetadataURI) > maxMetadataURISize {
		errs = errors.Append(errs, errors.Field("MetadataURI", errors.ErrInput, "too long"))
	}
	return errs
}

func (a *Asset) Marshal() ([]byte, error)  { return proto.Marshal((*assetWire)(a)) }
func (a *Asset) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*assetWire)(a)) }

type assetWire Asset

func (m *assetWire) Reset()         { *m = assetWire{} }
func (m *assetWire) String() string { return proto.CompactTextString(m) }
func (*assetWire) ProtoMessage()    {}

// AssetKey returns the primary key of the asset with the given id. It is
// the same encoding as used by the id sequence.
func AssetKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// AssetID decodes a primary key created by AssetKey.
func AssetID(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "asset key must be 8 bytes, got %d", len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

func ownerIndexer(obj orm.Model) ([]byte, error) {
	a, ok := obj.(*Asset)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj)
	}
	return a.Owner, nil
}

// NewBucket returns a bucket for assets, indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Asset{},
		orm.WithIDSequence(orm.NewSequence(BucketName, "id")),
		orm.WithIndex("owner", ownerIndexer, false),
	)
}

// RegisterQuery exposes assets under "/assets" and "/assets/owner".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("assets", qr)
}
