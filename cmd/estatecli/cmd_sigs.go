package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate/cmd/estated/client"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID and the signer sequence are fetched from the node.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESTATECLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESTATECLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := client.LoadPrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	estateClient := newClient(*tmAddrFl)
	chainID, err := estateClient.ChainID()
	if err != nil {
		return fmt.Errorf("cannot fetch chain ID: %s", err)
	}
	seq, err := client.NewNonce(estateClient, key.PublicKey().Address()).Next()
	if err != nil {
		return fmt.Errorf("cannot get the next sequence number: %s", err)
	}
	if err := client.SignTx(tx, key, chainID, seq); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}

	_, err = writeTx(output, tx)
	return err
}
