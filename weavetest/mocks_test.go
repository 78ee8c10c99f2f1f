package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/weavetest/assert"
)

type callCounter interface {
	CheckCallCount() int
	DeliverCallCount() int
	CallCount() int
}

func assertCalls(t *testing.T, c callCounter, checks, delivers int) {
	t.Helper()
	assert.Equal(t, checks, c.CheckCallCount())
	assert.Equal(t, delivers, c.DeliverCallCount())
	assert.Equal(t, checks+delivers, c.CallCount())
}

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   weave.CheckResult{Data: []byte("listing"), GasAllocated: 3},
		DeliverResult: weave.DeliverResult{Log: "sold"},
	}
	assertCalls(t, &h, 0, 0)

	cres, err := h.Check(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, &h.CheckResult, cres)
	dres, err := h.Deliver(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, "sold", dres.Log)
	assertCalls(t, &h, 1, 1)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(nil, nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = h.Deliver(nil, nil, nil)
	assert.IsErr(t, errors.ErrNotFound, err)
	assertCalls(t, &h, 2, 2)
}

func TestDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	_, err := d.Check(nil, nil, nil, &h)
	assert.Nil(t, err)
	_, err = d.Deliver(nil, nil, nil, &h)
	assert.Nil(t, err)
	assertCalls(t, &d, 1, 1)
	assertCalls(t, &h, 1, 1)

	// A failing decorator never reaches the handler.
	d.CheckErr = errors.ErrUnauthorized
	d.DeliverErr = errors.ErrState
	_, err = d.Check(nil, nil, nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = d.Deliver(nil, nil, nil, nil)
	assert.IsErr(t, errors.ErrState, err)
	assertCalls(t, &d, 2, 2)
	assertCalls(t, &h, 1, 1)
}

func TestAuth(t *testing.T) {
	seller, buyer, inspector := NewCondition(), NewCondition(), NewCondition()

	cases := map[string]struct {
		auth Auth
		want []weave.Condition
	}{
		"nobody":       {want: nil},
		"signer only":  {auth: Auth{Signer: seller}, want: []weave.Condition{seller}},
		"signers only": {auth: Auth{Signers: []weave.Condition{seller, buyer}}, want: []weave.Condition{seller, buyer}},
		"signer last":  {auth: Auth{Signer: buyer, Signers: []weave.Condition{seller}}, want: []weave.Condition{seller, buyer}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.auth.GetConditions(nil))
			for _, c := range tc.want {
				if !tc.auth.HasAddress(nil, c.Address()) {
					t.Errorf("%s must be a signer", c)
				}
			}
			if tc.auth.HasAddress(nil, inspector.Address()) {
				t.Error("inspector never signs")
			}
		})
	}
}

func TestCtxAuth(t *testing.T) {
	seller, buyer := NewCondition(), NewCondition()
	a := CtxAuth{Key: "auth"}

	ctx := context.Background()
	assert.Nil(t, a.GetConditions(ctx))
	assert.Equal(t, false, a.HasAddress(ctx, seller.Address()))

	ctx = a.SetConditions(ctx, seller)
	assert.Equal(t, []weave.Condition{seller}, a.GetConditions(ctx))
	assert.Equal(t, true, a.HasAddress(ctx, seller.Address()))
	assert.Equal(t, false, a.HasAddress(ctx, buyer.Address()))

	assert.Panics(t, func() {
		a.GetConditions(context.WithValue(ctx, "auth", "not conditions"))
	})
}
