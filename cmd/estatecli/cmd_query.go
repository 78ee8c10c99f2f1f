package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/cmd/estated/client"
	"github.com/iov-one/estate/x/escrow"
)

// queries maps the name of a queried entity to the function that fetches
// it. Returned value is JSON serialized.
var queries = map[string]func(c *client.EstateClient, id uint64, addr weave.Address) (interface{}, error){
	"asset": func(c *client.EstateClient, id uint64, _ weave.Address) (interface{}, error) {
		return c.GetAsset(id)
	},
	"listing": func(c *client.EstateClient, id uint64, _ weave.Address) (interface{}, error) {
		l, err := c.GetListing(id)
		if err != nil {
			return nil, err
		}
		return listingView{Listing: l, State: l.State.String()}, nil
	},
	"balance": func(c *client.EstateClient, _ uint64, addr weave.Address) (interface{}, error) {
		b, err := c.GetBalance(addr)
		return balanceView{Address: addr, Balance: b}, err
	},
	"custody": func(c *client.EstateClient, _ uint64, _ weave.Address) (interface{}, error) {
		b, err := c.GetCustody()
		return balanceView{Address: escrow.CustodyAddress(), Balance: b}, err
	},
	"user": func(c *client.EstateClient, _ uint64, addr weave.Address) (interface{}, error) {
		return c.GetUser(addr)
	},
}

type listingView struct {
	*escrow.Listing
	State string `json:"state"`
}

type balanceView struct {
	Address weave.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the ledger state and print JSON encoded result.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESTATECLI_TM_ADDR environment variable to set it.")
		entityFl = fl.String("entity", "", "Queried entity. Must be one of the supported.")
		assetFl  = fl.Uint64("asset", 0, "Asset ID, used by the asset and listing queries.")
		addrFl   = flAddress(fl, "addr", "Account address, used by the balance and user queries.")
	)
	fl.Parse(args)

	query, ok := queries[*entityFl]
	if !ok {
		var names []string
		for n := range queries {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("available entities:\n\t- %s", strings.Join(names, "\n\t- "))
	}

	res, err := query(newClient(*tmAddrFl), *assetFl, *addrFl)
	if err != nil {
		return fmt.Errorf("cannot query %s: %s", *entityFl, err)
	}
	pretty, err := json.MarshalIndent(res, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
