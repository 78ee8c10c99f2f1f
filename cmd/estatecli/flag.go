package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/estate"
)

// flAddress registers an address flag. Any format understood by
// weave.ParseAddress is accepted, an empty value means no address.
func flAddress(fl *flag.FlagSet, name, usage string) *weave.Address {
	var a weave.Address
	fl.Var(&a, name, usage)
	return &a
}

// flHex registers a flag holding hex encoded bytes.
func flHex(fl *flag.FlagSet, name, usage string) *[]byte {
	var b hexBytes
	fl.Var(&b, name, usage)
	return (*[]byte)(&b)
}

type hexBytes []byte

func (b hexBytes) String() string { return hex.EncodeToString(b) }

func (b *hexBytes) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// flagDie reports an invalid command line and exits with the status the
// flag package uses for parse errors.
func flagDie(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
