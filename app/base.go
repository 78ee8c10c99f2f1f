package app

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// BaseApp routes decoded transactions to the handler. Storage, queries
// and block bookkeeping are done by the embedded StoreApp.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp builds the application. With debug set, error responses
// carry the full error message instead of the registered description.
func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(raw)
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", raw, tx), b.DeliverStore(), tx)
	return weave.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(raw)
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", raw, tx), b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

// txContext returns the block context with a logger describing the
// transaction.
func (b BaseApp) txContext(call string, raw []byte, tx weave.Tx) weave.Context {
	return weave.WithLogInfo(b.BlockContext(),
		"call", call,
		"path", weave.GetPath(tx),
		"tx", cmn.HexBytes(tmhash.Sum(raw)))
}

// loadTx decodes the transaction. A panicking decoder is reported as an
// error.
func (b BaseApp) loadTx(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(raw)
	return tx, errors.Wrap(err, "cannot decode tx")
}
