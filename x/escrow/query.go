package escrow

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x/cash"
)

// RegisterQuery exposes listings under "/escrow/listings" and
// "/escrow/listings/buyer" and the custody wallet under "/escrow/custody".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrow/listings", qr)
	qr.Register("/escrow/custody", custodyQuery{ctrl: cash.NewController()})
}

// custodyQuery returns the custody wallet keyed by its address. Query
// data is ignored.
type custodyQuery struct {
	ctrl cash.Controller
}

var _ weave.QueryHandler = custodyQuery{}

func (q custodyQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	balance, err := q.ctrl.Balance(db, CustodyAddress())
	if err != nil {
		return nil, err
	}
	raw, err := (&cash.Wallet{Balance: balance}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal wallet")
	}
	return []weave.Model{weave.Pair(CustodyAddress(), raw)}, nil
}
