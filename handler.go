package weave

import (
	"encoding/json"

	"github.com/iov-one/estate/errors"
)

// Checker runs the cheap mempool validation of a transaction.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction included in a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one or more paths, for example
// listing a property or depositing earnest money.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the rest of the chain. Authentication, savepoints
// and logging are decorators shared by every handler.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths. Handle panics on a path that
// is invalid or already taken.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the genesis app_state. Each extension reads the section
// under its own name.
type Options map[string]json.RawMessage

// ReadOptions decodes the section under key into obj. A missing section
// is not an error and leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// MultiInit runs initializers in order and stops at the first failure.
type MultiInit []Initializer

var _ Initializer = MultiInit(nil)

func ChainInitializers(inits ...Initializer) MultiInit { return inits }

func (m MultiInit) FromGenesis(opts Options, db KVStore) error {
	for _, init := range m {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
