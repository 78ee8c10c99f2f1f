package cash

import (
	"math"
	"testing"

	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := weavetest.NewCondition().Address()

	bal, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)

	require.NoError(t, ctrl.Issue(db, addr, 500))
	require.NoError(t, ctrl.Issue(db, addr, 250))
	bal, err = ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), bal)

	err = ctrl.Issue(db, addr, math.MaxUint64)
	assert.True(t, errors.ErrOverflow.Is(err))

	err = ctrl.Issue(db, nil, 1)
	assert.True(t, errors.ErrEmpty.Is(err))
	_, err = ctrl.Balance(db, nil)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestTransfer(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	cases := map[string]struct {
		aliceBalance uint64
		bobBalance   uint64
		src, dest    []byte
		amount       uint64
		wantErr      *errors.Error
		wantAlice    uint64
		wantBob      uint64
	}{
		"move everything": {
			aliceBalance: 100,
			src:          alice,
			dest:         bob,
			amount:       100,
			wantAlice:    0,
			wantBob:      100,
		},
		"move a part": {
			aliceBalance: 100,
			bobBalance:   5,
			src:          alice,
			dest:         bob,
			amount:       40,
			wantAlice:    60,
			wantBob:      45,
		},
		"insufficient funds": {
			aliceBalance: 10,
			src:          alice,
			dest:         bob,
			amount:       11,
			wantErr:      errors.ErrAmount,
			wantAlice:    10,
		},
		"empty sender": {
			src:     alice,
			dest:    bob,
			amount:  1,
			wantErr: errors.ErrAmount,
		},
		"zero amount": {
			aliceBalance: 10,
			src:          alice,
			dest:         bob,
			amount:       0,
			wantErr:      errors.ErrAmount,
			wantAlice:    10,
		},
		"recipient overflow": {
			aliceBalance: 10,
			bobBalance:   math.MaxUint64,
			src:          alice,
			dest:         bob,
			amount:       1,
			wantErr:      errors.ErrOverflow,
			wantAlice:    10,
			wantBob:      math.MaxUint64,
		},
		"to self": {
			aliceBalance: 10,
			src:          alice,
			dest:         alice,
			amount:       10,
			wantAlice:    10,
		},
		"invalid destination": {
			aliceBalance: 10,
			src:          alice,
			dest:         []byte("short"),
			amount:       1,
			wantErr:      errors.ErrInput,
			wantAlice:    10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			require.NoError(t, ctrl.Issue(db, alice, tc.aliceBalance))
			require.NoError(t, ctrl.Issue(db, bob, tc.bobBalance))

			err := ctrl.Transfer(db, tc.src, tc.dest, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}

			got, err := ctrl.Balance(db, alice)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}
