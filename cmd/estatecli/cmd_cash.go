package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate/x/cash"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for transfering value from the source account to the
destination account. Use the custody address as the destination to fund a sale.
`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "A source account address that the value is send from.")
		dstFl    = flAddress(fl, "dst", "A destination account address that the value is send to.")
		amountFl = fl.Uint64("amount", 1, "Value that is to be transferred between the source and the destination accounts.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer operation.")
	)
	fl.Parse(args)

	msg := &cash.SendMsg{
		Source:      *srcFl,
		Destination: *dstFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}
