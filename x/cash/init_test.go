package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	buyer := weavetest.NewCondition().Address()
	lender := weavetest.NewCondition().Address()

	raw := `[
		{"address": "` + buyer.String() + `", "balance": 1000},
		{"address": "` + lender.String() + `", "balance": 50}
	]`
	opts := weave.Options{optKey: json.RawMessage(raw)}

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController()
	bal, err := ctrl.Balance(db, buyer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)
	bal, err = ctrl.Balance(db, lender)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), bal)
}

func TestGenesisInvalid(t *testing.T) {
	cases := map[string]string{
		"bad json":      `{"address": 1}`,
		"empty address": `[{"balance": 10}]`,
	}
	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			opts := weave.Options{optKey: json.RawMessage(raw)}
			assert.Error(t, Initializer{}.FromGenesis(opts, store.MemStore()))
		})
	}
}
