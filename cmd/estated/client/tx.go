package client

import (
	"github.com/iov-one/estate"
	estated "github.com/iov-one/estate/cmd/estated/app"
	"github.com/iov-one/estate/crypto"
	"github.com/iov-one/estate/x/sigs"
)

// BuildTx wraps a message into an unsigned transaction.
func BuildTx(msg weave.Msg) (*estated.Tx, error) {
	var tx estated.Tx
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return &tx, nil
}

// SignTx modifies the tx in-place, adding signatures
func SignTx(tx *estated.Tx, signer crypto.Signer, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// ParseTx will load a serialized tx into a format we can read
func ParseTx(data []byte) (*estated.Tx, error) {
	var tx estated.Tx
	err := tx.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
