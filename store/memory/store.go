// Package memory provides an in-memory store implementation, suitable
// for tests and single-process embedding.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/recur"
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/store"
	"github.com/xraph/recur/subscription"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Plan storage
	plans map[string]*plan.Plan

	// Subscription storage, keyed by "plan_id/subscriber"
	subscriptions map[string]*subscription.Subscription

	// Named counters for identifier derivation
	seqs map[string]uint64

	closed bool
}

func New() *Store {
	return &Store{
		plans:         make(map[string]*plan.Plan),
		subscriptions: make(map[string]*subscription.Subscription),
		seqs:          make(map[string]uint64),
	}
}

// Plan Store implementation

func (s *Store) CreatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return recur.ErrStoreClosed
	}
	if _, exists := s.plans[p.ID.String()]; exists {
		return recur.ErrConflict
	}
	s.plans[p.ID.String()] = p.Clone()
	return nil
}

func (s *Store) GetPlan(_ context.Context, planID id.PlanID) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, recur.ErrStoreClosed
	}
	if p, ok := s.plans[planID.String()]; ok {
		return p.Clone(), nil
	}
	return nil, recur.ErrPlanNotFound
}

func (s *Store) ListPlans(_ context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, recur.ErrStoreClosed
	}

	result := make([]*plan.Plan, 0)
	for _, p := range s.plans {
		if opts.ActiveOnly && !p.Active {
			continue
		}
		result = append(result, p.Clone())
	}

	// Map iteration order is random; sort by ID for a stable sequence.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdatePlan(_ context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return recur.ErrStoreClosed
	}
	if _, exists := s.plans[p.ID.String()]; !exists {
		return recur.ErrPlanNotFound
	}
	s.plans[p.ID.String()] = p.Clone()
	return nil
}

// Subscription Store implementation

func (s *Store) CreateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return recur.ErrStoreClosed
	}
	k := sub.Key().String()
	if _, exists := s.subscriptions[k]; exists {
		return recur.ErrSubscriptionExists
	}
	s.subscriptions[k] = sub.Clone()
	return nil
}

func (s *Store) GetSubscription(_ context.Context, key subscription.Key) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, recur.ErrStoreClosed
	}
	if sub, ok := s.subscriptions[key.String()]; ok {
		return sub.Clone(), nil
	}
	return nil, recur.ErrSubscriptionNotFound
}

func (s *Store) ListSubscriptions(_ context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, recur.ErrStoreClosed
	}

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.PlanID != planID {
			continue
		}
		if opts.Status != "" && sub.Status != opts.Status {
			continue
		}
		result = append(result, sub.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Subscriber < result[j].Subscriber
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return recur.ErrStoreClosed
	}
	k := sub.Key().String()
	if _, exists := s.subscriptions[k]; !exists {
		return recur.ErrSubscriptionNotFound
	}
	s.subscriptions[k] = sub.Clone()
	return nil
}

func (s *Store) ListDue(_ context.Context, asOf int64, limit int) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, recur.ErrStoreClosed
	}

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.Status.IsTerminal() {
			continue
		}
		if sub.NextDueAt > asOf {
			continue
		}
		result = append(result, sub.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].NextDueAt != result[j].NextDueAt {
			return result[i].NextDueAt < result[j].NextDueAt
		}
		return result[i].Key().String() < result[j].Key().String()
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) NextSeq(_ context.Context, name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, recur.ErrStoreClosed
	}
	s.seqs[name]++
	return s.seqs[name], nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return recur.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
