package app_test

import (
	"context"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/weavetest"
	"github.com/iov-one/estate/weavetest/assert"
	"github.com/iov-one/estate/x/utils"
)

// panicAtHeight panics when the context height is at least the given
// value.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	if h, _ := weave.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	if h, _ := weave.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	c3 := &weavetest.Decorator{}
	h := &weavetest.Handler{}

	var missing *weavetest.Decorator
	stack := app.ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		c2,
		missing,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/list"}}
	bg := context.Background()

	_, err := stack.Check(weave.WithHeight(bg, 4), nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(weave.WithHeight(bg, 4), nil, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// the panic is recovered before reaching the outer decorators
	_, err = stack.Check(weave.WithHeight(bg, 8), nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(weave.WithHeight(bg, 8), nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}
