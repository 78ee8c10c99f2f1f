/*
Package estated assembles the estate ledger node: the decorator chain,
the cash, registry and escrow handlers, the query routes and the
persistent store.
*/
package estated

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/orm"
	"github.com/iov-one/estate/store/iavl"
	"github.com/iov-one/estate/x"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/escrow"
	"github.com/iov-one/estate/x/registry"
	"github.com/iov-one/estate/x/sigs"
	"github.com/iov-one/estate/x/utils"
)

// Authenticator accepts the conditions of verified signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain runs every transaction through logging, panic recovery and
// signature checks. The first savepoint discards all writes of a failed
// CheckTx. The second one sits after the signature decorator, so a failed
// DeliverTx still consumes the signer nonces.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router registers the handlers of all message paths. Escrow moves funds
// and assets through the same controllers the cash and registry handlers
// use.
func Router(auth x.Authenticator) *app.Router {
	funds := cash.NewController()
	assets := registry.NewController()

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, funds)
	registry.RegisterRoutes(r, auth, assets)
	escrow.RegisterRoutes(r, auth, funds, assets)
	return r
}

// QueryRouter serves "/wallets", "/assets", "/escrow/listings",
// "/escrow/custody", "/auth" and the raw "/" store access.
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		registry.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack is the decorator chain in front of the router.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application opens the store at dbPath and returns the ABCI app
// running h. An empty dbPath keeps the state in memory.
func Application(name string, h weave.Handler, decoder weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, decoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath, or an in memory one for
// an empty path. A trailing extension such as ".db" is dropped because
// the backend adds its own.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
