package estated

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/crypto"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/escrow"
	"github.com/iov-one/estate/x/registry"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Roles are the participants of a sale, in the order GenInitOptions
// accepts their addresses.
var Roles = []string{"seller", "buyer", "inspector", "lender"}

const (
	// genesisFunds is the balance the buyer and the lender start with.
	genesisFunds  = 100
	genesisAssets = 3
	metadataURI   = "https://ipfs.io/ipfs/QmQVcpsjrA6cr1iJjZAodYwmPekYgbnXGo4DFubJiLc2EB/%d.json"
)

// GenesisState builds the app_state for the given role addresses: the
// escrow roles, three assets minted to the seller with the escrow
// custody approved to move them, and funds for the buyer and the lender.
func GenesisState(seller, buyer, inspector, lender weave.Address) weave.Options {
	assets := make([]registry.GenesisAsset, genesisAssets)
	for i := range assets {
		assets[i] = registry.GenesisAsset{
			Owner:       seller,
			MetadataURI: fmt.Sprintf(metadataURI, i+1),
			Approved:    escrow.CustodyAddress(),
		}
	}
	accounts := []cash.GenesisAccount{
		{Address: buyer, Balance: genesisFunds},
		{Address: lender, Balance: genesisFunds},
	}
	conf := map[string]interface{}{
		"escrow": escrow.Configuration{
			Seller:    seller,
			Inspector: inspector,
			Lender:    lender,
		},
	}

	opts := weave.Options{}
	for key, value := range map[string]interface{}{
		"conf":     conf,
		"cash":     accounts,
		"registry": assets,
	} {
		raw, err := json.Marshal(value)
		if err != nil {
			// All values are plain structures.
			panic(err)
		}
		opts[key] = raw
	}
	return opts
}

// GenInitOptions will produce the genesis options of a dev chain with
// four participants.
//
// Role addresses may be passed as arguments, in the Roles order. When
// none is given, keys are generated and printed, so that they can be
// imported into the client.
func GenInitOptions(args []string) (json.RawMessage, error) {
	addrs := make([]weave.Address, len(Roles))
	switch len(args) {
	case 0:
		for i, role := range Roles {
			addr, keys, err := GenerateCoinKey()
			if err != nil {
				return nil, err
			}
			fmt.Printf("%s: %s\n%s\n", role, addr, keys)
			addrs[i] = addr
		}
	case len(Roles):
		for i, arg := range args {
			addr, err := weave.ParseAddress(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "%s address", Roles[i])
			}
			if err := addr.Validate(); err != nil {
				return nil, errors.Wrapf(err, "%s address", Roles[i])
			}
			addrs[i] = addr
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "expected %d addresses (%v), got %d", len(Roles), Roles, len(args))
	}

	return json.MarshalIndent(GenesisState(addrs[0], addrs[1], addrs[2], addrs[3]), "", "  ")
}

// Initializers loads every extension state from the genesis file.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		&cash.Initializer{},
		&registry.Initializer{},
		&escrow.Initializer{},
	)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "estate.db")
	}

	application, err := Application("estated", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in the client to use them
func GenerateCoinKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}

	return addr, string(keys), nil
}
