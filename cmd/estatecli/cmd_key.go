package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/estate/cmd/estated/client"
	"github.com/iov-one/estate/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

When a seed is given the key is derived from it using the given derivation
path. The same seed and path always produce the same key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESTATECLI_PRIV_KEY environment variable to set it.")
		seedFl = flHex(fl, "seed", "Optional hex encoded seed that the key is derived from.")
		pathFl = fl.String("path", client.DefaultDerivationPath, "Derivation path used together with the seed.")
	)
	fl.Parse(args)

	key := crypto.GenPrivKeyEd25519()
	if len(*seedFl) != 0 {
		var err error
		if key, err = client.DeriveKey(*seedFl, *pathFl); err != nil {
			return fmt.Errorf("cannot derive key: %s", err)
		}
	}

	// Do not allow to overwrite already existing private key. User
	// must manually delete it first to ensure we do not delete
	// such crucial data by an accident (bad command usage).
	if err := client.SavePrivateKey(key, *keyPathFl, false); err != nil {
		return fmt.Errorf("cannot save private key: %s", err)
	}
	_, err := fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESTATECLI_PRIV_KEY environment variable to set it.")
		hrpFl = fl.String("bech32", "", "If given, print the bech32 address using this human readable prefix.")
	)
	fl.Parse(args)

	key, err := client.LoadPrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	addr := key.PublicKey().Address()
	if *hrpFl == "" {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	enc, err := addr.Bech32(*hrpFl)
	if err != nil {
		return fmt.Errorf("cannot encode bech32: %s", err)
	}
	_, err = fmt.Fprintln(output, enc)
	return err
}
