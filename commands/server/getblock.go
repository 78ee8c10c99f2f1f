package server

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/estate/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// blockCodec prints blocks the way the tendermint RPC does.
var blockCodec = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(blockCodec)
}

// GetBlockCmd prints a block of the tendermint blockstore as JSON:
//
//   estated getblock <home>/data/blockstore.db [-height=H]
//
// The last block is printed unless a height is given.
func GetBlockCmd(args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errors.ErrInput, "usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	fl := flag.NewFlagSet("getblock", flag.ContinueOnError)
	heightFl := fl.Int64("height", 0, "height of the block, the latest when zero")
	if err := fl.Parse(args[1:]); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db, err := openDb(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	blocks := blockchain.NewBlockStore(db)
	height := *heightFl
	if height == 0 {
		height = blocks.Height()
	}
	return writeBlock(os.Stdout, blocks, height)
}

// openDb opens a leveldb database by its directory. leveldb appends ".db"
// to the name, so the path must carry that suffix.
func openDb(path string) (dbm.DB, error) {
	path = filepath.Clean(path)
	name := strings.TrimSuffix(path, ".db")
	if name == path {
		return nil, errors.Wrapf(errors.ErrInput, "database directory must end with .db: %s", path)
	}
	dir, base := filepath.Split(name)
	if base == "" {
		return nil, errors.Wrapf(errors.ErrInput, "no database name in %s", path)
	}
	db, err := dbm.NewGoLevelDB(base, dir)
	return db, errors.Wrap(err, "cannot open database")
}

func writeBlock(w io.Writer, blocks *blockchain.BlockStore, height int64) error {
	b := blocks.LoadBlock(height)
	if b == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height: %d", height)
	}
	js, err := blockCodec.MarshalJSONIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize block")
	}
	_, err = w.Write(append(js, '\n'))
	return err
}
