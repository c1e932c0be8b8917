package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/recur/transfer"
	"github.com/xraph/recur/types"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.Fund("alice", types.NewCoin(500, "ucro"))

	if err := b.Transfer(ctx, "alice", "bob", types.NewCoin(200, "ucro")); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if got := b.Balance("alice", "ucro"); !got.Equal(types.NewCoin(300, "ucro")) {
		t.Errorf("alice balance: got %v, want 300ucro", got)
	}
	if got := b.Balance("bob", "ucro"); !got.Equal(types.NewCoin(200, "ucro")) {
		t.Errorf("bob balance: got %v, want 200ucro", got)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.Fund("alice", types.NewCoin(100, "ucro"))

	err := b.Transfer(ctx, "alice", "bob", types.NewCoin(200, "ucro"))
	if !errors.Is(err, transfer.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Failed transfer must not move anything.
	if got := b.Balance("alice", "ucro"); !got.Equal(types.NewCoin(100, "ucro")) {
		t.Errorf("alice balance changed: got %v", got)
	}
	if got := b.Balance("bob", "ucro"); !got.IsZero() {
		t.Errorf("bob balance changed: got %v", got)
	}
}

func TestTransferUnknownAccount(t *testing.T) {
	ctx := context.Background()
	b := New()

	err := b.Transfer(ctx, "ghost", "bob", types.NewCoin(1, "ucro"))
	if !errors.Is(err, transfer.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestTransferZeroIsNoOp(t *testing.T) {
	ctx := context.Background()
	b := New()

	if err := b.Transfer(ctx, "alice", "bob", types.ZeroOf("ucro")); err != nil {
		t.Fatalf("zero transfer: %v", err)
	}
}
