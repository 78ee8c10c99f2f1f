package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/x/escrow"
)

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that lists an asset for sale. The asset is moved into
custody until the sale is finalized or cancelled. Must be signed by the seller.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl  = fl.Uint64("asset", 0, "ID of the listed asset.")
		buyerFl  = flAddress(fl, "buyer", "Address of the buyer.")
		priceFl  = fl.Uint64("price", 0, "Purchase price of the asset.")
		escrowFl = fl.Uint64("escrow", 0, "Earnest amount that the buyer must deposit. Cannot exceed the price.")
	)
	fl.Parse(args)

	msg := &escrow.ListMsg{
		AssetID:       *assetFl,
		Buyer:         *buyerFl,
		PurchasePrice: *priceFl,
		EscrowAmount:  *escrowFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdDepositEarnest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that moves earnest value from the buyer into custody.
Must be signed by the buyer.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl  = fl.Uint64("asset", 0, "ID of the listed asset.")
		amountFl = fl.Uint64("amount", 0, "Deposited value.")
	)
	fl.Parse(args)

	msg := &escrow.DepositEarnestMsg{AssetID: *assetFl, Amount: *amountFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdUpdateInspection(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that records the inspection result. Must be signed by the
inspector. A later result overwrites the previous one.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl  = fl.Uint64("asset", 0, "ID of the listed asset.")
		passedFl = fl.Bool("passed", false, "True if the inspection passed.")
	)
	fl.Parse(args)

	msg := &escrow.UpdateInspectionMsg{AssetID: *assetFl, Passed: *passedFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdApproveSale(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that approves the sale. The approver must sign the
transaction. If no approver is given, the main signer approves.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl    = fl.Uint64("asset", 0, "ID of the listed asset.")
		approverFl = flAddress(fl, "approver", "Optional address of the approving party.")
	)
	fl.Parse(args)

	msg := &escrow.ApproveSaleMsg{AssetID: *assetFl, Approver: *approverFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdFinalizeSale(input io.Reader, output io.Writer, args []string) error {
	return assetMsgCmd(output, args, `
Create a transaction that finalizes the sale. The asset goes to the buyer and
the custody balance to the seller. Must be signed by the seller.
`, func(id uint64) weave.Msg { return &escrow.FinalizeSaleMsg{AssetID: id} })
}

func cmdCancelSale(input io.Reader, output io.Writer, args []string) error {
	return assetMsgCmd(output, args, `
Create a transaction that cancels the sale. The asset goes back to the seller
and the deposited value to the buyer. Must be signed by the buyer or the seller.
`, func(id uint64) weave.Msg { return &escrow.CancelSaleMsg{AssetID: id} })
}

// assetMsgCmd writes a transaction with a message that only refers to an
// asset.
func assetMsgCmd(output io.Writer, args []string, usage string, build func(uint64) weave.Msg) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	assetFl := fl.Uint64("asset", 0, "ID of the listed asset.")
	fl.Parse(args)

	msg := build(*assetFl)
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}
