package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureVerification(t *testing.T) {
	seller := GenPrivKeyEd25519()
	buyer := GenPrivKeyEd25519()

	deed := []byte("transfer deed of asset 1")
	offer := []byte("purchase price 40")

	deedSig, err := seller.Sign(deed)
	require.NoError(t, err)
	offerSig, err := seller.Sign(offer)
	require.NoError(t, err)

	cases := map[string]struct {
		key  *PublicKey
		msg  []byte
		sig  *Signature
		want bool
	}{
		"valid deed signature":     {key: seller.PublicKey(), msg: deed, sig: deedSig, want: true},
		"valid offer signature":    {key: seller.PublicKey(), msg: offer, sig: offerSig, want: true},
		"signature of another msg": {key: seller.PublicKey(), msg: deed, sig: offerSig},
		"signed by someone else":   {key: buyer.PublicKey(), msg: deed, sig: deedSig},
		"empty signature":          {key: seller.PublicKey(), msg: deed, sig: &Signature{}},
		"nil signature":            {key: seller.PublicKey(), msg: deed},
		"empty key":                {key: &PublicKey{}, msg: deed, sig: deedSig},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.Verify(tc.msg, tc.sig))
		})
	}

	a, err := deedSig.Marshal()
	require.NoError(t, err)
	b, err := offerSig.Marshal()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, b), "different messages share a serialized signature")
}

func TestPublicKeyCondition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	require.NoError(t, pub.Validate())
	require.NoError(t, pub.Condition().Validate())
	assert.NotEqual(t, pub.Address(), GenPrivKeyEd25519().PublicKey().Address())

	var empty PublicKey
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())
	assert.Error(t, empty.Validate())

	raw, err := pub.Marshal()
	require.NoError(t, err)
	var loaded PublicKey
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, pub.Address(), loaded.Address())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	cases := map[string]struct {
		seed    string
		wantPub string
	}{
		"zero seed": {
			seed:    "0000000000000000000000000000000000000000000000000000000000000000",
			wantPub: "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29",
		},
		"repeated byte seed": {
			seed:    "1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f",
			wantPub: "43046bfe4092b3e94994eada15dcc20d8aaa07b658fd3954eb8e0efb8bdca5de",
		},
		"no seed":        {},
		"seed too short": {seed: "00"},
		"seed too long":  {seed: "000000000000000000000000000000000000000000000000000000000000000000"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			seed, err := hex.DecodeString(tc.seed)
			require.NoError(t, err)
			if tc.wantPub == "" {
				assert.Panics(t, func() { PrivKeyEd25519FromSeed(seed) })
				return
			}
			key := PrivKeyEd25519FromSeed(seed)
			assert.Equal(t, tc.seed+tc.wantPub, hex.EncodeToString(key.GetEd25519()))
			assert.Equal(t, tc.wantPub, hex.EncodeToString(key.PublicKey().GetEd25519()))
		})
	}
}
