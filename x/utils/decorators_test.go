package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
	"github.com/iov-one/estate/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

type panicHandler string

func (p panicHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	panic(string(p))
}

func (p panicHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	panic(string(p))
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	h := panicHandler("custody ledger corrupted")
	r := NewRecovery()

	_, err := r.Check(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err), "got %+v", err)
	assert.Contains(t, err.Error(), "custody ledger corrupted")

	_, err = r.Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err), "got %+v", err)

	// Without panic the result is passed through.
	res, err := r.Deliver(ctx, db, nil, &weavetest.Handler{DeliverResult: weave.DeliverResult{Log: "ok"}})
	assert.NoError(t, err)
	assert.Equal(t, "ok", res.Log)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := weave.WithLogger(context.Background(), logger)
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/deposit"}}

	cases := map[string]struct {
		run      func() error
		contains []string
		absent   []string
	}{
		"successful deliver": {
			run: func() error {
				_, err := NewLogging().Deliver(ctx, db, tx, &weavetest.Handler{
					DeliverResult: weave.DeliverResult{Log: "earnest received"},
				})
				return err
			},
			contains: []string{"earnest received", "path=escrow/deposit", "duration="},
			absent:   []string{"err="},
		},
		"failed deliver": {
			run: func() error {
				_, err := NewLogging().Deliver(ctx, db, tx, &weavetest.Handler{DeliverErr: errors.ErrUnauthorized})
				if !errors.ErrUnauthorized.Is(err) {
					return errors.Wrap(errors.ErrHuman, "error not returned")
				}
				return nil
			},
			contains: []string{"path=escrow/deposit", "unauthorized"},
		},
		"failed check": {
			run: func() error {
				_, err := NewLogging().Check(ctx, db, tx, &weavetest.Handler{CheckErr: errors.ErrAmount})
				if !errors.ErrAmount.Is(err) {
					return errors.Wrap(errors.ErrHuman, "error not returned")
				}
				return nil
			},
			contains: []string{"err="},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			buf.Reset()
			assert.NoError(t, tc.run())
			out := buf.String()
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}
