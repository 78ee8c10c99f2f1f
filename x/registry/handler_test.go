package registry

import (
	"context"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	owner := weavetest.NewCondition()
	spender := weavetest.NewCondition()
	stranger := weavetest.NewCondition()

	cases := map[string]struct {
		// asset 1 is minted by owner before the message runs
		approved    weave.Address
		signer      weave.Condition
		msg         weave.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
		wantOwner   weave.Address
	}{
		"mint": {
			signer:    owner,
			msg:       &MintMsg{Owner: owner.Address(), MetadataURI: "ipfs://2"},
			wantOwner: owner.Address(),
		},
		"mint for someone else": {
			signer:      stranger,
			msg:         &MintMsg{Owner: owner.Address()},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   owner.Address(),
		},
		"approve": {
			signer:    owner,
			msg:       &ApproveMsg{AssetID: 1, Spender: spender.Address()},
			wantOwner: owner.Address(),
		},
		"approve by stranger": {
			signer:      stranger,
			msg:         &ApproveMsg{AssetID: 1, Spender: stranger.Address()},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   owner.Address(),
		},
		"approve missing asset": {
			signer:      owner,
			msg:         &ApproveMsg{AssetID: 7, Spender: spender.Address()},
			wantCheck:   errors.ErrNotFound,
			wantDeliver: errors.ErrNotFound,
			wantOwner:   owner.Address(),
		},
		"owner transfers": {
			signer:    owner,
			msg:       &TransferMsg{AssetID: 1, From: owner.Address(), To: stranger.Address()},
			wantOwner: stranger.Address(),
		},
		"approved spender transfers": {
			approved:  spender.Address(),
			signer:    spender,
			msg:       &TransferMsg{AssetID: 1, From: owner.Address(), To: spender.Address()},
			wantOwner: spender.Address(),
		},
		"stranger transfers": {
			approved:    spender.Address(),
			signer:      stranger,
			msg:         &TransferMsg{AssetID: 1, From: owner.Address(), To: stranger.Address()},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   owner.Address(),
		},
		"transfer from wrong holder": {
			signer:      owner,
			msg:         &TransferMsg{AssetID: 1, From: spender.Address(), To: stranger.Address()},
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   owner.Address(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			id, err := ctrl.Mint(db, owner.Address(), "ipfs://1")
			require.NoError(t, err)
			if tc.approved != nil {
				require.NoError(t, ctrl.Approve(db, owner.Address(), tc.approved, id))
			}

			rt := app.NewRouter()
			RegisterRoutes(rt, &weavetest.Auth{Signer: tc.signer}, ctrl)
			tx := &weavetest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			if _, err := rt.Check(context.Background(), cache, tx); !tc.wantCheck.Is(err) {
				t.Fatalf("check: want %v, got %+v", tc.wantCheck, err)
			}
			cache.Discard()

			res, err := rt.Deliver(context.Background(), db, tx)
			if !tc.wantDeliver.Is(err) {
				t.Fatalf("deliver: want %v, got %+v", tc.wantDeliver, err)
			}
			if err == nil {
				require.Len(t, res.Tags, 1)
				assert.Equal(t, AssetTag, string(res.Tags[0].Key))
			}

			got, err := ctrl.OwnerOf(db, id)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOwner, got)
		})
	}
}

func TestMintReturnsID(t *testing.T) {
	owner := weavetest.NewCondition()
	db := store.MemStore()
	h := &MintHandler{auth: &weavetest.Auth{Signer: owner}, ctrl: NewController()}

	for want := uint64(1); want <= 3; want++ {
		res, err := h.Deliver(context.Background(), db, &weavetest.Tx{Msg: &MintMsg{Owner: owner.Address()}})
		require.NoError(t, err)
		id, err := AssetID(res.Data)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}
