package weavetest

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}
