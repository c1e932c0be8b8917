// Package event defines the billing events emitted on every
// subscription state transition, consumed by off-core indexers through
// router responses and plugin hooks.
package event

import (
	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/types"
)

// Type classifies the transition an event reports.
type Type string

const (
	// TypeCharged: a due cycle was billed successfully.
	TypeCharged Type = "charged"
	// TypeTerminated: the record reached Lapsed or PlanInactive.
	TypeTerminated Type = "terminated"
	// TypeCancelled: the record reached Cancelled (subscriber, payee,
	// or expiry initiated).
	TypeCancelled Type = "cancelled"
)

// Event is one completed or failed charge attempt, or a lifecycle
// transition. Events are emitted, not persisted. The subscription
// record remains the source of truth.
type Event struct {
	ID      id.BillingEventID `json:"id"`
	Type    Type              `json:"type"`
	Key     subscription.Key  `json:"subscription_key"`
	Amount  *types.Coin       `json:"amount,omitempty"`
	Outcome billing.Outcome   `json:"outcome"`
	Time    int64             `json:"time"`
	Height  uint64            `json:"height"`
}

// New builds an event for the given transition at block context
// (blockTime, height). seq is the persisted billing-event sequence
// (store.SeqBillingEvent); deriving the ID from (blockTime, seq) keeps
// event identifiers identical across replicas replaying the same
// transaction.
func New(typ Type, key subscription.Key, outcome billing.Outcome, blockTime int64, height uint64, seq uint64) *Event {
	return &Event{
		ID:      id.NewBillingEventIDAt(blockTime, seq),
		Type:    typ,
		Key:     key,
		Outcome: outcome,
		Time:    blockTime,
		Height:  height,
	}
}

// WithAmount attaches the charged amount.
func (e *Event) WithAmount(amount types.Coin) *Event {
	e.Amount = &amount
	return e
}
