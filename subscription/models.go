package subscription

import (
	"fmt"
	"strings"

	"github.com/xraph/recur/id"
	"github.com/xraph/recur/types"
)

// Status is the lifecycle state of a subscription.
//
// Pending is the initial state. Cancelled, Lapsed, and PlanInactive are
// terminal: no further transitions are permitted from them, and ticks
// against them are idempotent no-ops.
type Status string

const (
	StatusPending      Status = "pending"       // created, not yet first-billed
	StatusActive       Status = "active"        // billing cursor advancing
	StatusCancelled    Status = "cancelled"     // terminal, subscriber- or payee-initiated
	StatusLapsed       Status = "lapsed"        // terminal, billing failed or cap exceeded
	StatusPlanInactive Status = "plan_inactive" // terminal, payee deactivated the plan
)

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusLapsed, StatusPlanInactive:
		return true
	default:
		return false
	}
}

// Key uniquely identifies a subscription by its (plan, subscriber)
// pair. A subscriber holds at most one record per plan.
type Key struct {
	PlanID     id.PlanID `json:"plan_id"`
	Subscriber string    `json:"subscriber"`
}

// NewKey builds a subscription key.
func NewKey(planID id.PlanID, subscriber string) Key {
	return Key{PlanID: planID, Subscriber: subscriber}
}

// String renders the key in the canonical "plan_id/subscriber" form
// used for storage keys and log fields.
func (k Key) String() string {
	return k.PlanID.String() + "/" + k.Subscriber
}

// ParseKey parses the canonical "plan_id/subscriber" form.
func ParseKey(s string) (Key, error) {
	planStr, subscriber, ok := strings.Cut(s, "/")
	if !ok || subscriber == "" {
		return Key{}, fmt.Errorf("subscription: parse key %q: expected plan_id/subscriber", s)
	}

	planID, err := id.ParsePlanID(planStr)
	if err != nil {
		return Key{}, fmt.Errorf("subscription: parse key %q: %w", s, err)
	}

	return Key{PlanID: planID, Subscriber: subscriber}, nil
}

// Subscription is a subscriber's enrollment in a plan, with its own
// billing cursor. It holds the plan by identifier only, never a live
// reference, so plan deactivation cannot dangle.
type Subscription struct {
	types.Entity
	PlanID     id.PlanID `json:"plan_id"`
	Subscriber string    `json:"subscriber"`
	Status     Status    `json:"status"`

	// NextDueAt is the monotonic billing cursor: the unix-second
	// boundary of the next owed interval. Always >= the time of the
	// last successful charge; advances by exactly one plan interval
	// per charge.
	NextDueAt int64 `json:"next_due_at"`

	// AuthorizedMax optionally caps cumulative spend across the
	// subscription's lifetime. Nil means uncapped.
	AuthorizedMax *types.Coin `json:"authorized_max,omitempty"`

	// Expires optionally ends the subscription at the given unix
	// second; a tick at or after this time cancels instead of charging.
	Expires *int64 `json:"expires,omitempty"`

	CyclesBilled int64 `json:"cycles_billed"`
}

// Key returns the identity of this record.
func (s *Subscription) Key() Key {
	return Key{PlanID: s.PlanID, Subscriber: s.Subscriber}
}

// ExpiredAt reports whether the subscription's optional expiry has
// passed at the given block time.
func (s *Subscription) ExpiredAt(now int64) bool {
	return s.Expires != nil && now >= *s.Expires
}

// Clone returns a deep copy so stores can hand out records without
// aliasing their internal state.
func (s *Subscription) Clone() *Subscription {
	out := *s
	if s.AuthorizedMax != nil {
		m := *s.AuthorizedMax
		out.AuthorizedMax = &m
	}
	if s.Expires != nil {
		e := *s.Expires
		out.Expires = &e
	}
	return &out
}
