package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/store"
)

// ValidateGenesis runs the initializer over the app_state of every file
// against a scratch in memory store. Nothing is persisted.
func ValidateGenesis(ini weave.Initializer, paths []string) error {
	if len(paths) == 0 {
		return errors.Wrap(errors.ErrInput, "usage: cmd validate <path to genesis.json>...")
	}
	var errs error
	for _, p := range paths {
		errs = errors.Append(errs, errors.Wrap(loadGenesisFile(ini, p), p))
	}
	return errs
}

func loadGenesisFile(ini weave.Initializer, path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}
	var doc struct {
		AppState weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}
	return errors.Wrap(ini.FromGenesis(doc.AppState, store.MemStore()), "cannot initialize from genesis")
}
