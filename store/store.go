// Package store defines the unified storage interface for plans and
// subscriptions, with interchangeable backends under subdirectories.
package store

import (
	"context"

	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
)

// Sequence names used by the engine for identifier derivation.
const (
	SeqPlan         = "plan"
	SeqBillingEvent = "billing_event"
)

// Store is the unified storage interface for all billing entities.
// Instead of embedding the sub-interfaces, we explicitly declare all
// methods to avoid naming conflicts.
//
// Implementations must be deterministic: list methods return results
// in a stable order (plans by ID, subscriptions by key, due records by
// cursor then key) so every replica observes the same sequence.
type Store interface {
	// Plan methods
	CreatePlan(ctx context.Context, p *plan.Plan) error
	GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error)
	ListPlans(ctx context.Context, opts plan.ListOpts) ([]*plan.Plan, error)
	UpdatePlan(ctx context.Context, p *plan.Plan) error

	// Subscription methods
	CreateSubscription(ctx context.Context, s *subscription.Subscription) error
	GetSubscription(ctx context.Context, key subscription.Key) (*subscription.Subscription, error)
	ListSubscriptions(ctx context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error)
	UpdateSubscription(ctx context.Context, s *subscription.Subscription) error

	// ListDue returns non-terminal subscriptions with NextDueAt <= asOf,
	// ordered by (NextDueAt, key), at most limit records.
	ListDue(ctx context.Context, asOf int64, limit int) ([]*subscription.Subscription, error)

	// NextSeq increments and returns the named counter, starting at 1.
	// Identifier derivation depends on the counter being persisted
	// state: a process-local counter would drift across replicas.
	NextSeq(ctx context.Context, name string) (uint64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
