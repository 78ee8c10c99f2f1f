package weave

import (
	"github.com/iov-one/estate/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successful DeliverTx. Failures are
// always reported as errors instead.
type DeliverResult struct {
	// Data is machine readable, for example the id of a listed asset.
	Data []byte
	Log  string
	// Tags are indexed by tendermint, so transactions can be searched by
	// asset or action.
	Tags []common.KVPair
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// CheckResult is the outcome of a successful CheckTx.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the cost of the transaction, reported to
	// tendermint as the wanted gas.
	GasAllocated int64
}

// NewCheck returns a check result with the cost and log set.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError returns the ABCI response for a DeliverTx outcome.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the ABCI response for a CheckTx outcome.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// ParseDeliverOrError turns a DeliverTx response back into a result, or
// into an error carrying the response code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != uint32(errors.SuccessABCICode) {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{Data: res.Data, Log: res.Log, Tags: res.Tags}, nil
}

// errorInfo returns the code and log for the error. Unless debug is set,
// internal errors are redacted.
func errorInfo(err error, debug bool, prefix string) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code != uint32(errors.SuccessABCICode) {
		log = prefix + log
	}
	return code, log
}

// DeliverTxError converts the error into a failed DeliverTx response.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo(err, debug, "cannot deliver tx: ")
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts the error into a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo(err, debug, "cannot check tx: ")
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// QueryError converts the error into a failed query response.
func QueryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
