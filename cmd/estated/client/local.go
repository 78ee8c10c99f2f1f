package client

import (
	"sync"
	"time"

	"github.com/iov-one/estate/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// LocalConnection drives an in process application. Every broadcast
// transaction is committed in a block of its own.
type LocalConnection struct {
	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
}

var _ Conn = (*LocalConnection)(nil)

// NewLocalConnection wraps the application. InitChain must be called
// before any transaction is broadcast.
func NewLocalConnection(app abci.Application, chainID string) *LocalConnection {
	return &LocalConnection{app: app, chainID: chainID}
}

// InitChain loads the JSON encoded application state in its own block.
func (c *LocalConnection) InitChain(appState []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.height != 0 {
		return errors.Wrap(errors.ErrState, "chain already initialized")
	}
	c.inBlock(func() {
		c.app.InitChain(abci.RequestInitChain{
			Time:          time.Now(),
			ChainId:       c.chainID,
			AppStateBytes: appState,
		})
	})
	return nil
}

func (c *LocalConnection) inBlock(fn func()) {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: c.chainID, Height: c.height, Time: time.Now()},
	})
	fn()
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
}

func (c *LocalConnection) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: resp}, nil
}

func (c *LocalConnection) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := ctypes.ResultBroadcastTxCommit{
		CheckTx: c.app.CheckTx(tx),
		Hash:    tx.Hash(),
	}
	if res.CheckTx.IsErr() {
		return &res, nil
	}
	c.inBlock(func() {
		res.DeliverTx = c.app.DeliverTx(tx)
	})
	res.Height = c.height
	return &res, nil
}

func (c *LocalConnection) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{Genesis: &tmtypes.GenesisDoc{ChainID: c.chainID}}, nil
}
