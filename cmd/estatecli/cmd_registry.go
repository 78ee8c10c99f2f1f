package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate/x/registry"
)

func cmdMintAsset(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that registers a new asset. The asset id is assigned by
the ledger and printed when the transaction is submitted.
`)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "Address of the first owner of the asset.")
		uriFl   = fl.String("uri", "", "Optional location of the asset metadata.")
	)
	fl.Parse(args)

	msg := &registry.MintMsg{Owner: *ownerFl, MetadataURI: *uriFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdApproveAsset(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that allows the spender to transfer the asset on behalf
of its owner. Must be signed by the owner.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl   = fl.Uint64("asset", 0, "ID of the asset.")
		spenderFl = flAddress(fl, "spender", "Address that is approved to transfer the asset.")
	)
	fl.Parse(args)

	msg := &registry.ApproveMsg{AssetID: *assetFl, Spender: *spenderFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}

func cmdTransferAsset(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that moves the asset to a new owner. Must be signed by
the owner or the approved spender.
`)
		fl.PrintDefaults()
	}
	var (
		assetFl = fl.Uint64("asset", 0, "ID of the asset.")
		fromFl  = flAddress(fl, "from", "Current owner of the asset.")
		toFl    = flAddress(fl, "to", "New owner of the asset.")
	)
	fl.Parse(args)

	msg := &registry.TransferMsg{AssetID: *assetFl, From: *fromFl, To: *toFl}
	if err := msg.Validate(); err != nil {
		flagDie("invalid message: %s", err)
	}
	return writeMsgTx(output, msg)
}
