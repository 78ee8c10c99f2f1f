package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestBech32EncodeDecode(t *testing.T) {
	cases := map[string]struct {
		enc     string
		hrp     string
		payload string
	}{
		"testnet prefix": {
			enc:     `tiov1w3jhxapdwpshjmr0v9jqymqq4y`,
			hrp:     "tiov",
			payload: "746573742d7061796c6f6164",
		},
		"estate prefix": {
			enc:     `estate1wpex7ur9wf68jttyv4jkgcfa359`,
			hrp:     "estate",
			payload: "70726f70657274792d64656564",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			want, err := hex.DecodeString(tc.payload)
			if err != nil {
				t.Fatal(err)
			}

			hrp, payload, err := Decode(tc.enc)
			if err != nil {
				t.Fatal(err)
			}
			if hrp != tc.hrp {
				t.Fatalf("want %q prefix, got %q", tc.hrp, hrp)
			}
			if !bytes.Equal(want, payload) {
				t.Logf("want %d", want)
				t.Logf("got  %d", payload)
				t.Fatal("invalid decode")
			}

			raw, err := Encode(hrp, payload)
			if err != nil {
				t.Fatalf("cannot encode: %s", err)
			}
			if string(raw) != tc.enc {
				t.Fatalf("invalid encoding: %q", raw)
			}
		})
	}
}

func TestBech32InvalidChecksum(t *testing.T) {
	if _, _, err := Decode(`estate1wpex7ur9wf68jttyv4jkgcfa35q`); err == nil {
		t.Fatal("corrupted checksum accepted")
	}
}
