package client

import (
	"bytes"
	"sync"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/app"
	"github.com/iov-one/estate/errors"
	"github.com/iov-one/estate/x/cash"
	"github.com/iov-one/estate/x/escrow"
	"github.com/iov-one/estate/x/registry"
	"github.com/iov-one/estate/x/sigs"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the part of the tendermint RPC client used by EstateClient.
// client.HTTP and client.Local both implement it.
type Conn interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

var _ Conn = (client.Client)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) Conn {
	return client.NewHTTP(remote, "/websocket")
}

// EstateClient is a tendermint client wrapped to provide
// simple access to the data structures used by the estate node.
type EstateClient struct {
	conn Conn
}

// NewClient wraps an EstateClient around an existing
// tendermint client connection.
func NewClient(conn Conn) *EstateClient {
	return &EstateClient{conn: conn}
}

// ChainID returns the chain id from the node genesis.
func (c *EstateClient) ChainID() (string, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrap(err, "fetch genesis")
	}
	return gen.Genesis.ChainID, nil
}

// AbciResponse contains a query result:
// a (possibly empty) list of key-value pairs, and the height
// at which it queried
type AbciResponse struct {
	// a list of key/value pairs
	Models []weave.Model
	Height int64
}

// AbciQuery calls abci query on tendermint rpc,
// verifies if it is an error or empty, and if there is
// data pulls out the ResultSets from keys and values into
// a useful AbciResponse struct
func (c *EstateClient) AbciQuery(path string, data []byte) (AbciResponse, error) {
	var out AbciResponse

	q, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return out, errors.Wrap(err, "abci query")
	}
	resp := q.Response
	if resp.IsErr() {
		return out, errors.ABCIError(resp.Code, resp.Log)
	}
	out.Height = resp.Height

	if len(resp.Key) == 0 {
		return out, nil
	}
	out.Models, err = app.ParseQueryResponse(resp.Key, resp.Value)
	return out, err
}

// BroadcastTxResponse is the result of submitting a transaction.
type BroadcastTxResponse struct {
	Error    error                           // not-nil if there was an error sending
	Response *ctypes.ResultBroadcastTxCommit // not-nil if we got response from node
}

// IsError returns the error for failure if it failed,
// or nil if it succeeded. Registered error codes are mapped back to
// their errors.
func (b BroadcastTxResponse) IsError() error {
	if b.Error != nil {
		return b.Error
	}
	if b.Response.CheckTx.IsErr() {
		ctx := b.Response.CheckTx
		return errors.Wrap(errors.ABCIError(ctx.Code, ctx.Log), "check tx")
	}
	if b.Response.DeliverTx.IsErr() {
		dtx := b.Response.DeliverTx
		return errors.Wrap(errors.ABCIError(dtx.Code, dtx.Log), "deliver tx")
	}
	return nil
}

// BroadcastTx serializes a signed transaction and writes to the
// blockchain. It returns when the tx is committed to the
// blockchain.
func (c *EstateClient) BroadcastTx(tx weave.Tx) BroadcastTxResponse {
	data, err := tx.Marshal()
	if err != nil {
		return BroadcastTxResponse{Error: errors.Wrap(err, "marshal tx")}
	}
	res, err := c.conn.BroadcastTxCommit(data)
	return BroadcastTxResponse{
		Error:    err,
		Response: res,
	}
}

// queryOne returns the single model stored under key in the bucket
// exposed at path. It returns nil if there is none.
func (c *EstateClient) queryOne(path, bucket string, key []byte, dest weave.Persistent) (int64, bool, error) {
	resp, err := c.AbciQuery(path, key)
	if err != nil {
		return 0, false, err
	}
	if len(resp.Models) == 0 {
		return resp.Height, false, nil
	}
	// assume only one result
	model := resp.Models[0]
	// make sure the return value is expected
	got := bytes.TrimPrefix(model.Key, []byte(bucket+":"))
	if !bytes.Equal(got, key) {
		return 0, false, errors.Wrapf(errors.ErrState, "mismatch: queried %X, returned %X", key, got)
	}
	if err := dest.Unmarshal(model.Value); err != nil {
		return 0, false, errors.Wrap(err, "unmarshal result")
	}
	return resp.Height, true, nil
}

// UserResponse is a response on a query for a User
type UserResponse struct {
	Address  weave.Address
	UserData sigs.UserData
	Height   int64
}

// GetUser will return nonce and public key registered
// for a given address if it was ever used.
// If it returns (nil, nil), then this address never signed
// a transaction before (and can use nonce = 0)
func (c *EstateClient) GetUser(addr weave.Address) (*UserResponse, error) {
	// make sure we send a valid address to the server
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid address")
	}
	out := UserResponse{Address: addr}
	height, ok, err := c.queryOne("/auth", sigs.BucketName, addr, &out.UserData)
	if err != nil || !ok {
		return nil, err
	}
	out.Height = height
	return &out, nil
}

// GetBalance returns the balance held by an address. An address that
// never received value has a zero balance.
func (c *EstateClient) GetBalance(addr weave.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "invalid address")
	}
	var w cash.Wallet
	if _, _, err := c.queryOne("/wallets", cash.BucketName, addr, &w); err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// GetAsset returns the registry entry of an asset or ErrNotFound.
func (c *EstateClient) GetAsset(id uint64) (*registry.Asset, error) {
	var a registry.Asset
	_, ok, err := c.queryOne("/assets", registry.BucketName, registry.AssetKey(id), &a)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "asset %d", id)
	}
	return &a, nil
}

// GetListing returns the sale record of an asset or ErrNotListed if the
// asset was never listed.
func (c *EstateClient) GetListing(id uint64) (*escrow.Listing, error) {
	var l escrow.Listing
	_, ok, err := c.queryOne("/escrow/listings", escrow.BucketName, escrow.ListingKey(id), &l)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(escrow.ErrNotListed, "asset %d", id)
	}
	return &l, nil
}

// GetCustody returns the value held in escrow custody.
func (c *EstateClient) GetCustody() (uint64, error) {
	resp, err := c.AbciQuery("/escrow/custody", nil)
	if err != nil {
		return 0, err
	}
	if len(resp.Models) == 0 {
		return 0, nil
	}
	var w cash.Wallet
	if err := w.Unmarshal(resp.Models[0].Value); err != nil {
		return 0, errors.Wrap(err, "unmarshal wallet")
	}
	return w.Balance, nil
}

// Nonce has a client/address pair, queries for the nonce
// and caches recent nonce locally to quickly sign
type Nonce struct {
	mutex     sync.Mutex
	client    *EstateClient
	addr      weave.Address
	nonce     int64
	fromQuery bool
}

// NewNonce creates a nonce for a client / address pair.
// Call Query to force a query, Next to use cache if possible
func NewNonce(client *EstateClient, addr weave.Address) *Nonce {
	return &Nonce{client: client, addr: addr}
}

// Query always queries the blockchain for the next nonce
func (n *Nonce) Query() (int64, error) {
	user, err := n.client.GetUser(n.addr)
	if err != nil {
		return 0, err
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if user != nil {
		n.nonce = user.UserData.Sequence
	} else {
		n.nonce = 0 // new account starts at 0
	}
	n.fromQuery = true
	return n.nonce, nil
}

// Next will use a cached value if present, otherwise Query
// It will always increment by 1, assuming last nonce
// was properly used. This is designed for cases where
// you want to rapidly generate many tranasactions without
// querying the blockchain each time
func (n *Nonce) Next() (int64, error) {
	n.mutex.Lock()
	uninitialized := !n.fromQuery && n.nonce == 0
	n.mutex.Unlock()
	if uninitialized {
		return n.Query()
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.nonce++
	n.fromQuery = false
	return n.nonce, nil
}
