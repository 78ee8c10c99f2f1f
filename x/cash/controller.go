package cash

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/orm"
)

// Controller is the functionality needed by other extensions to read and
// move balances.
type Controller interface {
	// Balance returns the balance of the address. Unknown addresses
	// have a zero balance.
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error)

	// Transfer moves the given amount from src to dest. It fails when
	// the source cannot cover the amount.
	Transfer(db weave.KVStore, src, dest weave.Address, amount uint64) error

	// Issue creates the given amount on the destination account.
	Issue(db weave.KVStore, dest weave.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller backed by the
// wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) load(db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}

func (c BaseController) save(db weave.KVStore, addr weave.Address, w *Wallet) error {
	_, err := c.bucket.Put(db, addr, w)
	return errors.Wrap(err, "save wallet")
}

// Balance returns the balance of the address.
func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, err
	}
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Transfer moves the given amount from src to dest. A zero amount is
// rejected. Moving to the same account only verifies the balance.
func (c BaseController) Transfer(db weave.KVStore, src, dest weave.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: balance %d, required %d", sender.Balance, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Balance+amount < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	sender.Balance -= amount
	recipient.Balance += amount

	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// Issue adds the amount to the destination. Fails if it overflows
// the wallet.
func (c BaseController) Issue(db weave.KVStore, dest weave.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if w.Balance+amount < w.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	w.Balance += amount
	return c.save(db, dest, w)
}
