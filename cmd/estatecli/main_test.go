package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/estate"
	estated "github.com/iov-one/estate/cmd/estated/app"
	"github.com/iov-one/estate/cmd/estated/client"
	"github.com/iov-one/estate/weavetest/assert"
	"github.com/iov-one/estate/x/escrow"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "estatecli-test"

// testnet holds the key files of all four parties and points the
// commands to an in process node started with their addresses.
type testnet struct {
	dir  string
	keys map[string]string
	addr map[string]weave.Address
}

func newTestnet(t *testing.T) (*testnet, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "estatecli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	tn := &testnet{
		dir:  dir,
		keys: make(map[string]string),
		addr: make(map[string]weave.Address),
	}
	for _, role := range estated.Roles {
		path := filepath.Join(dir, role+".key")
		var out bytes.Buffer
		if err := cmdKeygen(nil, &out, []string{"-key", path}); err != nil {
			t.Fatalf("cannot generate %s key: %s", role, err)
		}
		a, err := weave.ParseAddress(string(bytes.TrimSpace(out.Bytes())))
		if err != nil {
			t.Fatalf("cannot parse %s address: %s", role, err)
		}
		tn.keys[role] = path
		tn.addr[role] = a
	}

	app, err := estated.GenerateApp("", log.NewNopLogger(), true)
	if err != nil {
		t.Fatalf("cannot create application: %s", err)
	}
	genesis, err := json.Marshal(estated.GenesisState(
		tn.addr["seller"], tn.addr["buyer"], tn.addr["inspector"], tn.addr["lender"]))
	if err != nil {
		t.Fatalf("cannot serialize genesis: %s", err)
	}
	conn := client.NewLocalConnection(app, testChainID)
	if err := conn.InitChain(genesis); err != nil {
		t.Fatalf("cannot initialize chain: %s", err)
	}

	prev := newClient
	newClient = func(string) *client.EstateClient { return client.NewClient(conn) }
	cleanup := func() {
		newClient = prev
		os.RemoveAll(dir)
	}
	return tn, cleanup
}

// run executes the commands as a unix pipeline.
func run(t *testing.T, cmds ...[]string) string {
	t.Helper()
	input := &bytes.Buffer{}
	for _, args := range cmds {
		output := &bytes.Buffer{}
		if err := commands[args[0]](input, output, args[1:]); err != nil {
			t.Fatalf("%s failed: %s", args[0], err)
		}
		input = output
	}
	return input.String()
}

// signed creates a transaction with the message command, signs it with the
// key of the role and submits it.
func (tn *testnet) signed(t *testing.T, role string, msgCmd ...string) string {
	t.Helper()
	return run(t,
		msgCmd,
		[]string{"sign", "-key", tn.keys[role]},
		[]string{"submit"},
	)
}

func (tn *testnet) query(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	out := run(t, append([]string{"query"}, args...))
	var res map[string]interface{}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("cannot decode query result %q: %s", out, err)
	}
	return res
}

func TestSalePipeline(t *testing.T) {
	tn, cleanup := newTestnet(t)
	defer cleanup()

	custody := func() interface{} {
		return tn.query(t, "-entity", "custody")["balance"]
	}

	out := tn.signed(t, "seller",
		"list", "-asset", "1", "-buyer", tn.addr["buyer"].String(), "-price", "10", "-escrow", "5")
	assert.Equal(t, "1\n", out)

	tn.signed(t, "buyer", "deposit", "-asset", "1", "-amount", "5")
	assert.Equal(t, float64(5), custody())

	tn.signed(t, "inspector", "inspect", "-asset", "1", "-passed")
	for _, role := range []string{"buyer", "seller", "lender"} {
		tn.signed(t, role, "approve-sale", "-asset", "1")
	}

	// The lender funds the remainder with a plain transfer.
	tn.signed(t, "lender", "send",
		"-src", tn.addr["lender"].String(), "-dst", escrow.CustodyAddress().String(), "-amount", "5")
	assert.Equal(t, float64(10), custody())

	tn.signed(t, "seller", "finalize", "-asset", "1")
	assert.Equal(t, float64(0), custody())

	listing := tn.query(t, "-entity", "listing", "-asset", "1")
	assert.Equal(t, "finalized", listing["state"])

	asset := tn.query(t, "-entity", "asset", "-asset", "1")
	assert.Equal(t, tn.addr["buyer"].String(), asset["owner"])

	seller := tn.query(t, "-entity", "balance", "-addr", tn.addr["seller"].String())
	assert.Equal(t, float64(10), seller["balance"])
}

func TestMintPipeline(t *testing.T) {
	tn, cleanup := newTestnet(t)
	defer cleanup()

	out := tn.signed(t, "seller", "mint", "-owner", tn.addr["seller"].String(), "-uri", "ipfs://house.json")
	// Genesis registers the first assets.
	assert.Equal(t, "4\n", out)

	tn.signed(t, "seller", "approve-asset", "-asset", "4", "-spender", tn.addr["lender"].String())
	tn.signed(t, "lender", "transfer-asset",
		"-asset", "4", "-from", tn.addr["seller"].String(), "-to", tn.addr["buyer"].String())

	asset := tn.query(t, "-entity", "asset", "-asset", "4")
	assert.Equal(t, tn.addr["buyer"].String(), asset["owner"])
}

func TestKeyaddr(t *testing.T) {
	tn, cleanup := newTestnet(t)
	defer cleanup()

	out := run(t, []string{"keyaddr", "-key", tn.keys["buyer"]})
	assert.Equal(t, tn.addr["buyer"].String()+"\n", out)

	out = run(t, []string{"keyaddr", "-key", tn.keys["buyer"], "-bech32", "estate"})
	a, err := weave.ParseAddress("bech32:" + string(bytes.TrimSpace([]byte(out))))
	assert.Nil(t, err)
	assert.Equal(t, tn.addr["buyer"], a)
}

func TestViewSignedTransaction(t *testing.T) {
	tn, cleanup := newTestnet(t)
	defer cleanup()

	out := run(t,
		[]string{"deposit", "-asset", "2", "-amount", "5"},
		[]string{"sign", "-key", tn.keys["buyer"]},
		[]string{"view"},
	)
	var view struct {
		Path    string
		Signers []struct {
			Address  weave.Address
			Sequence int64
		}
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("cannot decode view %q: %s", out, err)
	}
	assert.Equal(t, "escrow/deposit", view.Path)
	assert.Equal(t, 1, len(view.Signers))
	assert.Equal(t, tn.addr["buyer"], view.Signers[0].Address)
	assert.Equal(t, int64(0), view.Signers[0].Sequence)
}
