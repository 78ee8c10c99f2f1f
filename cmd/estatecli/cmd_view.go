package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate"
)

// txView is what view prints. Signers are listed by address so that a
// party can see who already signed before adding its own signature.
type txView struct {
	Path    string       `json:"path"`
	Msg     weave.Msg    `json:"msg"`
	Signers []signerView `json:"signers"`
}

type signerView struct {
	Address  weave.Address `json:"address"`
	Sequence int64         `json:"sequence"`
}

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the message and the signers of a transaction read from stdin as JSON.
Check it before signing a transaction somebody else prepared.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract message: %s", err)
	}

	view := txView{Path: msg.Path(), Msg: msg, Signers: []signerView{}}
	for _, sig := range tx.GetSignatures() {
		view.Signers = append(view.Signers, signerView{
			Address:  sig.Pubkey.Address(),
			Sequence: sig.GetSequence(),
		})
	}

	pretty, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
