package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/gconf"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/registry"
	"github.com/stretchr/testify/require"
)

// sale is a chain with the roles configured, asset #1 owned by the seller
// with custody approved, and funded buyer and lender wallets.
type sale struct {
	t         testing.TB
	db        weave.CacheableKVStore
	seller    weave.Condition
	buyer     weave.Condition
	inspector weave.Condition
	lender    weave.Condition
	stranger  weave.Condition
	cash      cash.BaseController
	assets    registry.BaseController
}

const (
	buyerFunds  = 100
	lenderFunds = 100
)

func newSale(t testing.TB) *sale {
	t.Helper()
	s := &sale{
		t:         t,
		db:        store.MemStore(),
		seller:    weavetest.NewCondition(),
		buyer:     weavetest.NewCondition(),
		inspector: weavetest.NewCondition(),
		lender:    weavetest.NewCondition(),
		stranger:  weavetest.NewCondition(),
		cash:      cash.NewController(),
		assets:    registry.NewController(),
	}
	conf := &Configuration{
		Seller:    s.seller.Address(),
		Inspector: s.inspector.Address(),
		Lender:    s.lender.Address(),
	}
	require.NoError(t, gconf.Save(s.db, confKey, conf))

	id, err := s.assets.Mint(s.db, s.seller.Address(), "https://example.com/1.json")
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	require.NoError(t, s.assets.Approve(s.db, s.seller.Address(), CustodyAddress(), id))

	require.NoError(t, s.cash.Issue(s.db, s.buyer.Address(), buyerFunds))
	require.NoError(t, s.cash.Issue(s.db, s.lender.Address(), lenderFunds))
	return s
}

// deliver runs the message signed by the given party.
func (s *sale) deliver(signer weave.Condition, msg weave.Msg) error {
	rt := app.NewRouter()
	RegisterRoutes(rt, &weavetest.Auth{Signer: signer}, s.cash, s.assets)
	cash.RegisterRoutes(rt, &weavetest.Auth{Signer: signer}, s.cash)
	_, err := rt.Deliver(context.Background(), s.db, &weavetest.Tx{Msg: msg})
	return err
}

// check runs the check phase on a throw away cache.
func (s *sale) check(signer weave.Condition, msg weave.Msg) error {
	rt := app.NewRouter()
	RegisterRoutes(rt, &weavetest.Auth{Signer: signer}, s.cash, s.assets)
	cache := s.db.CacheWrap()
	defer cache.Discard()
	_, err := rt.Check(context.Background(), cache, &weavetest.Tx{Msg: msg})
	return err
}

func (s *sale) mustDeliver(signer weave.Condition, msg weave.Msg) {
	s.t.Helper()
	require.NoError(s.t, s.deliver(signer, msg))
}

// list puts asset #1 on sale to the buyer.
func (s *sale) list(price, earnest uint64) {
	s.t.Helper()
	s.mustDeliver(s.seller, &ListMsg{
		AssetID:       1,
		Buyer:         s.buyer.Address(),
		PurchasePrice: price,
		EscrowAmount:  earnest,
	})
}

// ready lists asset #1 for 10, deposits 5, passes the inspection and
// collects all approvals. Custody holds 5.
func (s *sale) ready() {
	s.t.Helper()
	s.list(10, 5)
	s.mustDeliver(s.buyer, &DepositEarnestMsg{AssetID: 1, Amount: 5})
	s.mustDeliver(s.inspector, &UpdateInspectionMsg{AssetID: 1, Passed: true})
	s.mustDeliver(s.buyer, &ApproveSaleMsg{AssetID: 1})
	s.mustDeliver(s.seller, &ApproveSaleMsg{AssetID: 1})
	s.mustDeliver(s.lender, &ApproveSaleMsg{AssetID: 1})
}

func (s *sale) balance(addr weave.Address) uint64 {
	s.t.Helper()
	b, err := s.cash.Balance(s.db, addr)
	require.NoError(s.t, err)
	return b
}

func (s *sale) custody() uint64 {
	s.t.Helper()
	b, err := CustodyBalance(s.db)
	require.NoError(s.t, err)
	return b
}

func (s *sale) owner(id uint64) weave.Address {
	s.t.Helper()
	o, err := s.assets.OwnerOf(s.db, id)
	require.NoError(s.t, err)
	return o
}

func (s *sale) listing(id uint64) *Listing {
	s.t.Helper()
	l, err := LoadListing(s.db, id)
	require.NoError(s.t, err)
	return l
}

// snapshot captures everything a failed operation must leave untouched.
type snapshot struct {
	listing *Listing
	custody uint64
	seller  uint64
	buyer   uint64
	owner   weave.Address
}

func (s *sale) snapshot(id uint64) snapshot {
	s.t.Helper()
	l, err := LoadListing(s.db, id)
	if err != nil {
		l = nil
	}
	return snapshot{
		listing: l,
		custody: s.custody(),
		seller:  s.balance(s.seller.Address()),
		buyer:   s.balance(s.buyer.Address()),
		owner:   s.owner(id),
	}
}
