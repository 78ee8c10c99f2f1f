package main

import (
	"encoding/binary"
	"io"

	"github.com/iov-one/estate"
	estated "github.com/iov-one/estate/cmd/estated/app"
	"github.com/iov-one/estate/cmd/estated/client"
	"github.com/iov-one/estate/errors"
)

// Transactions are piped between commands as a stream of frames. Each
// frame is the protobuf encoded transaction preceded by its length as a
// big endian uint32, so that several transactions can share one stream.
const frameHeader = 4

// maxFrame guards against reading garbage as a huge length.
const maxFrame = 1 << 20

func writeTx(w io.Writer, tx *estated.Tx) (int, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return 0, err
	}
	frame := make([]byte, frameHeader+len(raw))
	binary.BigEndian.PutUint32(frame, uint32(len(raw)))
	copy(frame[frameHeader:], raw)
	return w.Write(frame)
}

// readTx returns io.EOF when the stream ends on a frame boundary.
func readTx(r io.Reader) (*estated.Tx, int, error) {
	var head [frameHeader]byte
	if n, err := io.ReadFull(r, head[:]); err != nil {
		return nil, n, err
	}
	size := binary.BigEndian.Uint32(head[:])
	if size > maxFrame {
		return nil, frameHeader, errors.Wrapf(errors.ErrInput, "transaction of %d bytes", size)
	}
	raw := make([]byte, size)
	n, err := io.ReadFull(r, raw)
	n += frameHeader
	if err != nil {
		return nil, n, err
	}
	tx, err := client.ParseTx(raw)
	return tx, n, err
}

// writeMsgTx wraps msg in an unsigned transaction and writes its frame.
func writeMsgTx(w io.Writer, msg weave.Msg) error {
	tx, err := client.BuildTx(msg)
	if err != nil {
		return err
	}
	_, err = writeTx(w, tx)
	return err
}
