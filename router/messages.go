package router

import (
	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/event"
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/types"
)

// ExecuteMsg is the one-of envelope for state-changing requests.
// Exactly one field must be set.
type ExecuteMsg struct {
	CreatePlan     *CreatePlanMsg     `json:"create_plan,omitempty"`
	DeactivatePlan *DeactivatePlanMsg `json:"deactivate_plan,omitempty"`
	Subscribe      *SubscribeMsg      `json:"subscribe,omitempty"`
	Cancel         *CancelMsg         `json:"cancel,omitempty"`
	CancelFor      *CancelForMsg      `json:"cancel_for,omitempty"`
	UpdateExpires  *UpdateExpiresMsg  `json:"update_expires,omitempty"`
	Tick           *TickMsg           `json:"tick,omitempty"`
	TickBatch      *TickBatchMsg      `json:"tick_batch,omitempty"`
}

// CreatePlanMsg registers a plan owned by the sender.
type CreatePlanMsg struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       types.Coin        `json:"price"`
	Interval    int64             `json:"interval"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DeactivatePlanMsg retires a plan; sender must be the payee.
type DeactivatePlanMsg struct {
	PlanID id.PlanID `json:"plan_id"`
}

// SubscribeMsg enrolls the sender into a plan.
type SubscribeMsg struct {
	PlanID        id.PlanID   `json:"plan_id"`
	AuthorizedMax *types.Coin `json:"authorized_max,omitempty"`
	Expires       *int64      `json:"expires,omitempty"`
}

// CancelMsg ends the sender's own subscription.
type CancelMsg struct {
	PlanID id.PlanID `json:"plan_id"`
}

// CancelForMsg ends a subscription on the subscriber's behalf; sender
// must be the plan payee.
type CancelForMsg struct {
	PlanID     id.PlanID `json:"plan_id"`
	Subscriber string    `json:"subscriber"`
}

// UpdateExpiresMsg changes or clears the sender's subscription expiry.
type UpdateExpiresMsg struct {
	PlanID  id.PlanID `json:"plan_id"`
	Expires *int64    `json:"expires,omitempty"`
}

// TickMsg attempts to advance one subscription by one cycle. Public.
type TickMsg struct {
	PlanID     id.PlanID `json:"plan_id"`
	Subscriber string    `json:"subscriber"`
}

// TickBatchMsg ticks several subscriptions in order. Public.
type TickBatchMsg struct {
	Items []TickMsg `json:"items"`
}

// ExecuteResponse carries whatever the executed operation produced.
type ExecuteResponse struct {
	Plan         *plan.Plan                 `json:"plan,omitempty"`
	Subscription *subscription.Subscription `json:"subscription,omitempty"`
	Outcome      billing.Outcome            `json:"outcome,omitempty"`
	Outcomes     []billing.Outcome          `json:"outcomes,omitempty"`
	Events       []*event.Event             `json:"events,omitempty"`
}

// QueryMsg is the one-of envelope for read-only requests.
// Exactly one field must be set.
type QueryMsg struct {
	GetPlan           *GetPlanMsg           `json:"get_plan,omitempty"`
	ListPlans         *ListPlansMsg         `json:"list_plans,omitempty"`
	GetSubscription   *GetSubscriptionMsg   `json:"get_subscription,omitempty"`
	ListSubscriptions *ListSubscriptionsMsg `json:"list_subscriptions,omitempty"`
	DueSubscriptions  *DueSubscriptionsMsg  `json:"due_subscriptions,omitempty"`
}

type GetPlanMsg struct {
	PlanID id.PlanID `json:"plan_id"`
}

type ListPlansMsg struct {
	ActiveOnly bool `json:"active_only,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	Offset     int  `json:"offset,omitempty"`
}

type GetSubscriptionMsg struct {
	PlanID     id.PlanID `json:"plan_id"`
	Subscriber string    `json:"subscriber"`
}

type ListSubscriptionsMsg struct {
	PlanID id.PlanID           `json:"plan_id"`
	Status subscription.Status `json:"status,omitempty"`
	Limit  int                 `json:"limit,omitempty"`
	Offset int                 `json:"offset,omitempty"`
}

type DueSubscriptionsMsg struct {
	Limit int `json:"limit,omitempty"`
}

// PlansResponse answers ListPlans.
type PlansResponse struct {
	Plans []*plan.Plan `json:"plans"`
}

// SubscriptionsResponse answers ListSubscriptions and DueSubscriptions.
type SubscriptionsResponse struct {
	Subscriptions []*subscription.Subscription `json:"subscriptions"`
}
