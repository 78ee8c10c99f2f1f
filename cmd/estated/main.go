package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/estate"
	estated "github.com/iov-one/estate/cmd/estated/app"
	"github.com/iov-one/estate/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var homeFl = flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".estate"),
	"Directory holding the node configuration and data.")

// command runs a single subcommand with the arguments that follow its
// name.
type command struct {
	help string
	run  func(logger log.Logger, home string, args []string) error
}

var commands = map[string]command{
	"init": {
		help: "Write the genesis app state for the four sale parties.",
		run: func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(estated.GenInitOptions, logger, home, args)
		},
	},
	"start": {
		help: "Run the ABCI server.",
		run: func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(estated.GenerateApp, logger, home, args)
		},
	},
	"getblock": {
		help: "Print a block stored in blockchain.db as JSON.",
		run: func(_ log.Logger, _ string, args []string) error {
			return server.GetBlockCmd(args)
		},
	},
	"validate": {
		help: "Load the app state of genesis files into a scratch store.",
		run: func(_ log.Logger, _ string, args []string) error {
			return server.ValidateGenesis(estated.Initializers(), args)
		},
	},
	"version": {
		help: "Print the version.",
		run: func(log.Logger, string, []string) error {
			fmt.Println(weave.Version())
			return nil
		},
	},
}

var commandOrder = []string{"init", "start", "getblock", "validate", "version"}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-home <dir>] <command> [args]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, name := range commandOrder {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-9s %s\n", name, commands[name].help)
	}
	fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "estate")
	if err := cmd.run(logger, *homeFl, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
