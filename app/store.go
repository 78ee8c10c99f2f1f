package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp owns the ledger state and serves the ABCI calls that do not
// execute transactions: handshake, genesis, block boundaries, commit and
// queries. BaseApp embeds it and adds CheckTx and DeliverTx.
//
// Info, InitChain, BeginBlock, EndBlock and Commit take no user input, so
// a failure there is a broken node and they panic.
type StoreApp struct {
	name   string
	logger log.Logger
	debug  bool

	store       *CommitStore
	initializer weave.Initializer
	queryRouter weave.QueryRouter

	// chainID is empty until genesis was loaded.
	chainID string

	// base is valid for the whole life of the app, block is replaced on
	// every BeginBlock.
	base  weave.Context
	block weave.Context
}

// NewStoreApp loads the latest committed state. It panics when the state
// cannot be read.
func NewStoreApp(name string, store weave.CommitKVStore, queryRouter weave.QueryRouter, ctx weave.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		base:        ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if id := mustLoadChainID(s.DeliverStore()); id != "" {
		s.setChainID(id)
	}
	s.block = weave.WithHeight(s.base, s.mustCommitInfo().Version)
	return s
}

func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug exposes full error messages in responses.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger of the app and of every context it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.base = weave.WithLogger(s.base, logger)
	if s.block != nil {
		s.block = weave.WithLogger(s.block, logger)
	}
	return s
}

func (s *StoreApp) Logger() log.Logger          { return s.logger }
func (s *StoreApp) GetChainID() string          { return s.chainID }
func (s *StoreApp) BlockContext() weave.Context { return s.block }

func (s *StoreApp) DeliverStore() weave.CacheableKVStore { return s.store.DeliverStore() }
func (s *StoreApp) CheckStore() weave.CacheableKVStore   { return s.store.CheckStore() }

func (s *StoreApp) setChainID(id string) {
	s.chainID = id
	s.base = weave.WithChainID(s.base, id)
	// Transactions checked before the first block run on the block context.
	if s.block != nil {
		s.block = weave.WithChainID(s.block, id)
	}
}

func (s *StoreApp) mustCommitInfo() weave.CommitID {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	return info
}

// Info returns the name and version of the app together with the last
// committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info := s.mustCommitInfo()
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          weave.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain runs only once in the life of a chain. It stores the chain
// id and hands the genesis app state to the initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) loadGenesis(chainID string, raw []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis app_state")
	}
	var opts weave.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}
	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeight(s.base, req.Header.Height)
	s.block = weave.WithBlockTime(ctx, req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The request path selects the
// handler and may end with a "?prefix" modifier, for example
// "/listings?prefix". Data is the key or the prefix to look up. Height is
// ignored.
//
// The response Key and Value are ResultSets of the same length, one entry
// per model found.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.Index(path, "?"); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return weave.QueryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", req.Path), s.debug)
	}

	res, err := s.query(h, mod, req.Data)
	if err != nil {
		return weave.QueryError(err, s.debug)
	}
	return res
}

func (s *StoreApp) query(h weave.QueryHandler, mod string, data []byte) (abci.ResponseQuery, error) {
	var res abci.ResponseQuery
	info, err := s.store.CommitInfo()
	if err != nil {
		return res, err
	}
	res.Height = info.Version

	// Uncommitted deliver writes live in a cache, so the wrapped store
	// only holds committed data.
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, data)
	if err != nil {
		return res, err
	}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return res, err
	}
	res.Value, err = ResultsFromValues(models).Marshal()
	return res, err
}
