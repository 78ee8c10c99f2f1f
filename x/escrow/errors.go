package escrow

import (
	"github.com/iov-one/estate/errors"
)

// escrow takes 1000-1010
var (
	ErrNotListed           = errors.Register(1000, "asset not listed")
	ErrAlreadyListed       = errors.Register(1001, "asset already listed")
	ErrPrecondition        = errors.Register(1002, "precondition not met")
	ErrAssetTransfer       = errors.Register(1003, "asset transfer failed")
	ErrInsufficientCustody = errors.Register(1004, "insufficient custody balance")
)
