package weave

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/weavetest/assert"
)

func TestReadOptions(t *testing.T) {
	cases := map[string]struct {
		json    string
		wantErr *errors.Error
		want    struct{ Key int }
	}{
		"happy path": {
			json: `{"conf": {"key": 7}}`,
			want: struct{ Key int }{Key: 7},
		},
		"missing key is not an error": {
			json: `{}`,
		},
		"wrong value": {
			json:    `{"conf": {"key": "seven"}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &o))
			var got struct{ Key int }
			err := o.ReadOptions("conf", &got)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type recordingInit struct {
	calls *[]string
	name  string
	err   error
}

func (r recordingInit) FromGenesis(Options, KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	init := ChainInitializers(
		recordingInit{calls: &calls, name: "cash"},
		recordingInit{calls: &calls, name: "registry", err: errors.ErrState},
		recordingInit{calls: &calls, name: "escrow"},
	)
	err := init.FromGenesis(Options{}, nil)
	assert.IsErr(t, errors.ErrState, err)
	// The first failure stops the chain.
	assert.Equal(t, []string{"cash", "registry"}, calls)
}
