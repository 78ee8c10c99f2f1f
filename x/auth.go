package x

import (
	"github.com/iov-one/estate"
)

// Authenticator extracts the signers of the current transaction from the
// context. Handlers receive it in their constructor so that the ledger
// does not depend on a single signature scheme.
type Authenticator interface {
	// GetConditions returns every condition fulfilled by the transaction.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress reports whether any fulfilled condition resolves to the
	// address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth merges the signers known to several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator accepting a signer known to any of
// impls.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer, or nil when the transaction is not
// signed.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAnyAddress reports whether at least one of the addresses signed the
// transaction.
func HasAnyAddress(ctx weave.Context, auth Authenticator, addrs ...weave.Address) bool {
	for _, a := range addrs {
		if auth.HasAddress(ctx, a) {
			return true
		}
	}
	return false
}
