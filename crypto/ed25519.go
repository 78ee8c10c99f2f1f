package crypto

import (
	"golang.org/x/crypto/ed25519"
)

// Verify verifies the signature was created with this message and public key
func (m *PublicKey) Verify(message []byte, sig *Signature) bool {
	raw := sig.GetEd25519()
	if len(raw) != ed25519.SignatureSize || len(m.GetEd25519()) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(m.Ed25519), message, raw)
}

// Sign returns a matching signature for this private key
func (m *PrivateKey) Sign(message []byte) (*Signature, error) {
	bz := ed25519.Sign(ed25519.PrivateKey(m.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (m *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(m.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
// It panics if the seed is not 32 bytes long.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
