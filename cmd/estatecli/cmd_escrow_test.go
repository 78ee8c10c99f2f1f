package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/weavetest/assert"
	"github.com/iov-one/estate/x/escrow"
)

func TestCmdListHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-asset", "3",
		"-buyer", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-price", "500",
		"-escrow", "50",
	}
	if err := cmdList(nil, &output, args); err != nil {
		t.Fatalf("cannot create a list transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*escrow.ListMsg)

	assert.Equal(t, uint64(3), msg.AssetID)
	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), msg.Buyer)
	assert.Equal(t, uint64(500), msg.PurchasePrice)
	assert.Equal(t, uint64(50), msg.EscrowAmount)
	assert.Equal(t, 0, len(tx.Signatures))
}

func TestCmdAssetOnlyMessages(t *testing.T) {
	cases := map[string]struct {
		cmd  func(input io.Reader, output io.Writer, args []string) error
		path string
	}{
		"finalize": {cmd: cmdFinalizeSale, path: "escrow/finalize"},
		"cancel":   {cmd: cmdCancelSale, path: "escrow/cancel"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var output bytes.Buffer
			if err := tc.cmd(nil, &output, []string{"-asset", "9"}); err != nil {
				t.Fatalf("cannot create transaction: %s", err)
			}
			tx, _, err := readTx(&output)
			if err != nil {
				t.Fatalf("cannot unmarshal created transaction: %s", err)
			}
			msg, err := tx.GetMsg()
			if err != nil {
				t.Fatalf("cannot get transaction message: %s", err)
			}
			assert.Equal(t, tc.path, msg.Path())
		})
	}
}

func TestReadTxStream(t *testing.T) {
	var stream bytes.Buffer
	for _, args := range [][]string{
		{"-asset", "1", "-passed"},
		{"-asset", "2"},
	} {
		if err := cmdUpdateInspection(nil, &stream, args); err != nil {
			t.Fatalf("cannot create transaction: %s", err)
		}
	}

	first, _, err := readTx(&stream)
	assert.Nil(t, err)
	second, _, err := readTx(&stream)
	assert.Nil(t, err)
	assert.Equal(t, true, first.UpdateInspectionMsg.Passed)
	assert.Equal(t, uint64(2), second.UpdateInspectionMsg.AssetID)
	assert.Equal(t, false, second.UpdateInspectionMsg.Passed)

	_, _, err = readTx(&stream)
	assert.Equal(t, io.EOF, err)
}

func fromHex(t testing.TB, s string) weave.Address {
	t.Helper()
	a, err := weave.ParseAddress(s)
	if err != nil {
		t.Fatalf("cannot decode %q address: %s", s, err)
	}
	return a
}
