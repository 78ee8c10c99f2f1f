package server

import (
	"flag"

	"github.com/iov-one/estate/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator builds the application once the home directory, the
// logger and the debug flag are known.
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd serves the application on the ABCI socket until the process
// is signalled to stop. Tendermint connects to it as a proxy app.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	fl := flag.NewFlagSet("start", flag.ContinueOnError)
	var (
		bindFl  = fl.String("bind", "tcp://localhost:26658", "address the ABCI server listens on")
		debugFl = fl.Bool("debug", false, "return full errors with stack traces")
	)
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	app, err := gen(home, logger, *debugFl)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", *bindFl)
	svr, err := server.NewServer(*bindFl, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	// TrapSignal exits the process once the server is stopped.
	cmn.TrapSignal(logger, func() { svr.Stop() })
	select {}
}
