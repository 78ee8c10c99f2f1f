package weavetest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is the part of testing.TB the runner needs. Both *testing.T and
// *testing.B implement it.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// WeaveApp is what a test sees inside of a block: transactions can be
// checked and delivered, committed state can be read.
type WeaveApp interface {
	DeliverTx(weave.Tx) error
	CheckTx(weave.Tx) error
	weave.ReadOnlyKVStore
}

// WeaveRunner drives an ABCI application the way tendermint does. It
// serializes transactions and wraps them in blocks. Any failure of the
// block machinery fails the test.
type WeaveRunner struct {
	*app.ABCIStore

	t       Tester
	app     abci.Application
	chainID string
	height  int64
}

var _ WeaveApp = (*WeaveRunner)(nil)

func NewWeaveRunner(t Tester, a abci.Application, chainID string) *WeaveRunner {
	return &WeaveRunner{
		ABCIStore: app.NewABCIStore(a),
		t:         t,
		app:       a,
		chainID:   chainID,
	}
}

// InitChain loads the JSON serialized genesis in its own block. The
// genesis must change the state.
func (w *WeaveRunner) InitChain(genesis interface{}) {
	w.t.Helper()
	raw, err := json.Marshal(genesis)
	if err != nil {
		w.t.Fatalf("cannot serialize genesis: %s", err)
	}
	changed := w.InBlock(func(WeaveApp) error {
		w.app.InitChain(abci.RequestInitChain{
			Time:          time.Now(),
			ChainId:       w.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		w.t.Fatalf("genesis did not change the state")
	}
}

func (w *WeaveRunner) CheckTx(tx weave.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	resp := w.app.CheckTx(raw)
	return responseError(resp.Code, resp.Log)
}

func (w *WeaveRunner) DeliverTx(tx weave.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	resp := w.app.DeliverTx(raw)
	return responseError(resp.Code, resp.Log)
}

func responseError(code uint32, log string) error {
	if code == uint32(errors.SuccessABCICode) {
		return nil
	}
	return errors.ABCIError(code, log)
}

// InBlock runs fn inside of a new block and commits it. An error returned
// by fn fails the test. The result tells whether the block changed the
// application hash.
func (w *WeaveRunner) InBlock(fn func(WeaveApp) error) bool {
	w.t.Helper()

	w.height++
	before := w.app.Info(abci.RequestInfo{}).LastBlockAppHash
	w.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: w.chainID,
			Height:  w.height,
			Time:    time.Now(),
		},
	})
	if err := fn(w); err != nil {
		w.t.Fatalf("block %d: %+v", w.height, err)
	}
	w.app.EndBlock(abci.RequestEndBlock{Height: w.height})
	after := w.app.Commit().Data
	return !bytes.Equal(before, after)
}
