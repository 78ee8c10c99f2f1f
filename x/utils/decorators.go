package utils

import (
	"time"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Savepoint runs the rest of the chain on a cache wrap of the store and
// writes it only when the chain succeeds. It is disabled until OnCheck or
// OnDeliver is called.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that also isolates CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that also isolates DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *weave.CheckResult
	err := isolate(db, func(db weave.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *weave.DeliverResult
	err := isolate(db, func(db weave.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate is Atomic that falls back to the plain store when it cannot be
// cache wrapped.
func isolate(db weave.KVStore, fn func(weave.KVStore) error) error {
	if _, ok := db.(weave.CacheableKVStore); !ok {
		return fn(db)
	}
	return Atomic(db, fn)
}

// Recovery converts a panic further down the chain into an ErrPanic.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Logging writes one entry per processed message with its route and
// processing time. Failures are always logged as errors. Successful
// checks are logged at debug level, successful delivers at info level.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, tx, start, msg, err, false)
	return res, err
}

func logResult(ctx weave.Context, tx weave.Tx, start time.Time, msg string, err error, check bool) {
	logger := weave.GetLogger(ctx).With(
		"path", weave.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond)
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}

// ActionKey is the tag key under which ActionTagger stores the path of
// the delivered message.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with
// action=<message path>, for example action=escrow/finalize, so that
// clients can subscribe to a single kind of ledger operation.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
