package escrow

import (
	"github.com/iov-one/estate"
	"github.com/iov-one/estate/gconf"
)

// Initializer stores the roles configuration from genesis.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis reads conf.escrow. The configuration is required.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confKey, &conf)
}
