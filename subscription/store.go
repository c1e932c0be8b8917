package subscription

import (
	"context"

	"github.com/xraph/recur/id"
)

type Store interface {
	Create(ctx context.Context, s *Subscription) error
	Get(ctx context.Context, key Key) (*Subscription, error)
	ListByPlan(ctx context.Context, planID id.PlanID, opts ListOpts) ([]*Subscription, error)
	Update(ctx context.Context, s *Subscription) error

	// ListDue returns non-terminal subscriptions with NextDueAt <= asOf,
	// ordered by (NextDueAt, key) so relayers see a deterministic queue.
	ListDue(ctx context.Context, asOf int64, limit int) ([]*Subscription, error)
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
