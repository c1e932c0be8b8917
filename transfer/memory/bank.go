// Package memory provides a deterministic in-memory bank implementing
// transfer.Adapter. It backs tests and embedders that run without a
// host ledger.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/recur/transfer"
	"github.com/xraph/recur/types"
)

// compile-time interface check
var _ transfer.Adapter = (*Bank)(nil)

// Bank holds per-account balances keyed by denomination.
type Bank struct {
	mu       sync.Mutex
	balances map[string]map[string]int64 // account -> denom -> amount
}

func New() *Bank {
	return &Bank{
		balances: make(map[string]map[string]int64),
	}
}

// Fund credits an account. Test setup helper.
func (b *Bank) Fund(account string, amount types.Coin) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.credit(account, amount)
}

// Balance returns the account's balance in the given denomination.
func (b *Bank) Balance(account, denom string) types.Coin {
	b.mu.Lock()
	defer b.mu.Unlock()

	return types.NewCoin(b.balances[account][denom], denom)
}

// Transfer implements transfer.Adapter. It debits from and credits to
// atomically, returning transfer.ErrInsufficientFunds when the source
// balance cannot cover the amount.
func (b *Bank) Transfer(_ context.Context, from, to string, amount types.Coin) error {
	if amount.IsNegative() {
		return transfer.ErrInsufficientFunds
	}
	if amount.IsZero() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from][amount.Denom] < amount.Amount {
		return transfer.ErrInsufficientFunds
	}

	b.balances[from][amount.Denom] -= amount.Amount
	b.credit(to, amount)
	return nil
}

func (b *Bank) credit(account string, amount types.Coin) {
	if b.balances[account] == nil {
		b.balances[account] = make(map[string]int64)
	}
	b.balances[account][amount.Denom] += amount.Amount
}
