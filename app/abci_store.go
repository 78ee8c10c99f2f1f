package app

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface of an application as a
// ReadOnlyKVStore, so that buckets can be used to read its state.
// It requires the raw "/" query path to be registered.
type ABCIStore struct {
	app abci.Application
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore wraps given application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(errors.ErrState, "cannot unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

// Iterator only supports iterating over the entire range, as this is
// what a prefix query for an empty prefix returns.
func (a *ABCIStore) Iterator(start, end []byte) (weave.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	res := a.app.Query(abci.RequestQuery{
		Path: "/?" + weave.PrefixQueryMod,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	models, err := ParseQueryResponse(res.Key, res.Value)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is not supported.
func (a *ABCIStore) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	return nil, errors.Wrap(errors.ErrHuman, "reverse iterator not implemented")
}

// ParseQueryResponse decodes key and value result sets of a query
// response into models.
func ParseQueryResponse(keys, values []byte) ([]weave.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(errors.ErrState, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(errors.ErrState, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
