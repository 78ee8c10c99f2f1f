package estated

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/escrow"
	"github.com/iov-one/estate/x/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	roles := make([]weave.Address, len(Roles))
	args := make([]string, len(Roles))
	for i := range roles {
		roles[i] = weavetest.NewCondition().Address()
		args[i] = roles[i].String()
	}

	raw, err := GenInitOptions(args)
	require.NoError(t, err)

	var opts weave.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, Initializers().FromGenesis(opts, db))

	conf, err := escrow.LoadConfiguration(db)
	require.NoError(t, err)
	assert.Equal(t, roles[0], conf.Seller)
	assert.Equal(t, roles[2], conf.Inspector)
	assert.Equal(t, roles[3], conf.Lender)

	assets := registry.NewController()
	for id := uint64(1); id <= genesisAssets; id++ {
		a, err := assets.Load(db, id)
		require.NoError(t, err)
		assert.Equal(t, roles[0], a.Owner)
		assert.Equal(t, escrow.CustodyAddress(), a.Approved)
	}

	balance, err := cash.NewController().Balance(db, roles[1])
	require.NoError(t, err)
	assert.EqualValues(t, genesisFunds, balance)
}

func TestGenInitOptionsArgs(t *testing.T) {
	_, err := GenInitOptions([]string{"deadbeef"})
	assert.True(t, errors.ErrInput.Is(err))

	args := []string{"zz", "zz", "zz", "zz"}
	_, err = GenInitOptions(args)
	assert.True(t, errors.ErrInput.Is(err))

	// Generated keys are printed and used for every role.
	raw, err := GenInitOptions(nil)
	require.NoError(t, err)
	var opts weave.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	assert.NoError(t, Initializers().FromGenesis(opts, store.MemStore()))
}
