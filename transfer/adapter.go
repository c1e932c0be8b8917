// Package transfer defines the host ledger's value-transfer contract.
//
// The billing engine consumes this interface but never implements it:
// moving value is the host's job. A transfer is assumed atomic and
// synchronous within the enclosing host transaction. The engine calls
// it at most once per due cycle and never retries; failure routes the
// subscription to Lapsed.
package transfer

import (
	"context"
	"errors"

	"github.com/xraph/recur/types"
)

// ErrInsufficientFunds is the one failure mode the engine handles
// specially: it lapses the subscription instead of aborting the
// transaction. Adapters must wrap or return this sentinel for balance
// shortfalls; any other error aborts the enclosing transaction.
var ErrInsufficientFunds = errors.New("transfer: insufficient funds")

// Adapter moves value between accounts on the host ledger.
type Adapter interface {
	Transfer(ctx context.Context, from, to string, amount types.Coin) error
}

// AdapterFunc adapts a plain function to an Adapter.
type AdapterFunc func(ctx context.Context, from, to string, amount types.Coin) error

// Transfer implements Adapter.
func (f AdapterFunc) Transfer(ctx context.Context, from, to string, amount types.Coin) error {
	return f(ctx, from, to, amount)
}
