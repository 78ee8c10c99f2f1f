package client

import (
	"encoding/hex"
	"io/ioutil"
	"os"

	"github.com/iov-one/estate/crypto"
	"github.com/iov-one/estate/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// DefaultDerivationPath is the bip44 path used for keys derived from a
// seed when no other path is requested.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey derives an ed25519 private key from a bip39 seed following
// the SLIP-0010 scheme for the given path.
func DeriveKey(seed []byte, path string) (*crypto.PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive for path %q: %s", path, err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive public key: %s", err)
	}
	return &crypto.PrivateKey{Ed25519: append(k.Key, pub...)}, nil
}

// DecodePrivateKey reads a hex encoded, 64 bytes long ed25519 private key.
func DecodePrivateKey(hexKey string) (*crypto.PrivateKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

// LoadPrivateKey will load a private key from a file,
// Which was previously written by SavePrivateKey
func LoadPrivateKey(filename string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read private key file")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

// SavePrivateKey writes the raw private key to the named file.
//
// Refuses to overwrite a file unless force is true
func SavePrivateKey(key *crypto.PrivateKey, filename string, force bool) error {
	if err := canWrite(filename, force); err != nil {
		return err
	}
	return ioutil.WriteFile(filename, key.GetEd25519(), KeyPerm)
}

// canWrite is a little helper to check if we want to write a file
func canWrite(filename string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(filename); err == nil {
		return errors.Wrapf(errors.ErrState, "refusing to overwrite: %s", filename)
	}
	return nil
}
