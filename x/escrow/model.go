package escrow

import (
	"bytes"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/gconf"
	"github.com/iov-one/estate/orm"
	"github.com/iov-one/estate/x/registry"
)

const (
	// BucketName is where the listings are stored.
	BucketName = "listing"

	// confKey is the gconf key of the roles configuration.
	confKey = "escrow"
)

// CustodyCondition owns the custody account and is the operator of all
// registry transfers done by the ledger.
var CustodyCondition = weave.NewCondition("escrow", "custody", []byte("ledger"))

// CustodyAddress returns the address of the pooled custody account. It
// holds both the listed assets and the deposited value.
func CustodyAddress() weave.Address {
	return CustodyCondition.Address()
}

// Configuration holds the roles that are fixed for the whole chain.
type Configuration struct {
	Seller    weave.Address `protobuf:"bytes,1,opt,name=seller,proto3" json:"seller,omitempty"`
	Inspector weave.Address `protobuf:"bytes,2,opt,name=inspector,proto3" json:"inspector,omitempty"`
	Lender    weave.Address `protobuf:"bytes,3,opt,name=lender,proto3" json:"lender,omitempty"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// Validate requires all three roles.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Seller", c.Seller.Validate())
	errs = errors.AppendField(errs, "Inspector", c.Inspector.Validate())
	errs = errors.AppendField(errs, "Lender", c.Lender.Validate())
	return errs
}

func (c *Configuration) Marshal() ([]byte, error)  { return proto.Marshal((*configurationWire)(c)) }
func (c *Configuration) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*configurationWire)(c)) }

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

// LoadConfiguration returns the roles configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confKey, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// ListingState is the lifecycle state of a listing.
type ListingState int32

const (
	ListingStateInvalid ListingState = iota
	ListingStateListed
	ListingStateFinalized
	ListingStateCancelled
)

var listingStateNames = map[ListingState]string{
	ListingStateListed:    "listed",
	ListingStateFinalized: "finalized",
	ListingStateCancelled: "cancelled",
}

func (s ListingState) String() string {
	if n, ok := listingStateNames[s]; ok {
		return n
	}
	return "invalid"
}

// Listing governs the sale of a single asset. It is stored under the
// asset id and never deleted.
type Listing struct {
	AssetID       uint64        `protobuf:"varint,1,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Buyer         weave.Address `protobuf:"bytes,2,opt,name=buyer,proto3" json:"buyer,omitempty"`
	PurchasePrice uint64        `protobuf:"varint,3,opt,name=purchase_price,json=purchasePrice,proto3" json:"purchase_price,omitempty"`
	EscrowAmount  uint64        `protobuf:"varint,4,opt,name=escrow_amount,json=escrowAmount,proto3" json:"escrow_amount,omitempty"`
	// InspectionPassed holds the last result recorded by the inspector.
	InspectionPassed bool `protobuf:"varint,5,opt,name=inspection_passed,json=inspectionPassed,proto3" json:"inspection_passed,omitempty"`
	// Approvals is the sorted set of addresses that approved the sale.
	Approvals []weave.Address `protobuf:"bytes,6,rep,name=approvals,proto3" json:"approvals,omitempty"`
	State     ListingState    `protobuf:"varint,7,opt,name=state,proto3" json:"state,omitempty"`
	// Deposited is the earnest value the buyer moved into custody.
	Deposited uint64 `protobuf:"varint,8,opt,name=deposited,proto3" json:"deposited,omitempty"`
}

var _ orm.Model = (*Listing)(nil)

// Validate ensures the listing is consistent.
func (l *Listing) Validate() error {
	var errs error
	if l.AssetID == 0 {
		errs = errors.Append(errs, errors.Field("AssetID", errors.ErrEmpty, "required"))
	}
	errs = errors.AppendField(errs, "Buyer", l.Buyer.Validate())
	if l.EscrowAmount > l.PurchasePrice {
		errs = errors.Append(errs, errors.Field("EscrowAmount", errors.ErrInput, "greater than the purchase price"))
	}
	if _, ok := listingStateNames[l.State]; !ok {
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "unknown"))
	}
	for i, a := range l.Approvals {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Approvals", err, "invalid address"))
			break
		}
		if i > 0 && bytes.Compare(l.Approvals[i-1], a) >= 0 {
			errs = errors.Append(errs, errors.Field("Approvals", errors.ErrState, "not a sorted set"))
			break
		}
	}
	return errs
}

func (l *Listing) Marshal() ([]byte, error)  { return proto.Marshal((*listingWire)(l)) }
func (l *Listing) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*listingWire)(l)) }

type listingWire Listing

func (m *listingWire) Reset()         { *m = listingWire{} }
func (m *listingWire) String() string { return proto.CompactTextString(m) }
func (*listingWire) ProtoMessage()    {}

// IsListed is true until the listing is finalized or cancelled.
func (l *Listing) IsListed() bool {
	return l.State == ListingStateListed
}

// HasApproved returns true if the address approved this sale.
func (l *Listing) HasApproved(addr weave.Address) bool {
	_, found := l.findApproval(addr)
	return found
}

// approve records the approval of addr. Approving twice is a no-op.
func (l *Listing) approve(addr weave.Address) {
	i, found := l.findApproval(addr)
	if found {
		return
	}
	l.Approvals = append(l.Approvals, nil)
	copy(l.Approvals[i+1:], l.Approvals[i:])
	l.Approvals[i] = addr.Clone()
}

func (l *Listing) findApproval(addr weave.Address) (int, bool) {
	i := sort.Search(len(l.Approvals), func(i int) bool {
		return bytes.Compare(l.Approvals[i], addr) >= 0
	})
	return i, i < len(l.Approvals) && l.Approvals[i].Equals(addr)
}

func buyerIndexer(obj orm.Model) ([]byte, error) {
	l, ok := obj.(*Listing)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj)
	}
	return l.Buyer, nil
}

// NewBucket returns a bucket of listings keyed by asset id and indexed by
// buyer.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Listing{},
		orm.WithIndex("buyer", buyerIndexer, false),
	)
}

// ListingKey returns the primary key of the listing of the given asset.
func ListingKey(assetID uint64) []byte {
	return registry.AssetKey(assetID)
}

// LoadListing returns the listing of the asset. A missing listing is
// reported as ErrNotListed.
func LoadListing(db weave.ReadOnlyKVStore, assetID uint64) (*Listing, error) {
	var l Listing
	switch err := NewBucket().One(db, ListingKey(assetID), &l); {
	case err == nil:
		return &l, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrNotListed, "asset %d", assetID)
	default:
		return nil, err
	}
}
