package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/estate"
)

// counter tracks how many times the check and deliver paths were taken.
type counter struct {
	checks   int
	delivers int
}

func (c *counter) CheckCallCount() int   { return c.checks }
func (c *counter) DeliverCallCount() int { return c.delivers }
func (c *counter) CallCount() int        { return c.checks + c.delivers }

// Handler is a weave.Handler returning preset results. Every call is
// counted, including the failing ones.
type Handler struct {
	counter

	CheckResult weave.CheckResult
	CheckErr    error

	DeliverResult weave.DeliverResult
	DeliverErr    error
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	h.checks++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	h.delivers++
	return &h.DeliverResult, h.DeliverErr
}

// Decorator is a weave.Decorator that either fails with the configured
// error or passes the call to the next handler. Every call is counted.
type Decorator struct {
	counter

	CheckErr   error
	DeliverErr error
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return &weave.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return &weave.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Auth is an authenticator that considers Signer and all Signers to have
// signed every transaction.
type Auth struct {
	Signer  weave.Condition
	Signers []weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]weave.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an authenticator reading signers from the context, stored
// there under Key by SetConditions.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	switch val := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []weave.Condition:
		return val
	default:
		panic(fmt.Sprintf("unexpected %T stored under %q", val, a.Key))
	}
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []weave.Condition, addr weave.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
