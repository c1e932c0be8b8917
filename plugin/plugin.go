// Package plugin provides an extensible hook system for the billing
// engine. Plugins observe lifecycle events; they never influence
// billing decisions, so a misbehaving plugin cannot break consensus.
package plugin

import (
	"context"

	"github.com/xraph/recur/event"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Plan lifecycle hooks
// ──────────────────────────────────────────────────

// OnPlanCreated is called when a new plan is registered.
type OnPlanCreated interface {
	Plugin
	OnPlanCreated(ctx context.Context, p *plan.Plan) error
}

// OnPlanDeactivated is called when a payee retires a plan.
type OnPlanDeactivated interface {
	Plugin
	OnPlanDeactivated(ctx context.Context, p *plan.Plan) error
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscribed is called when a new subscription is created.
type OnSubscribed interface {
	Plugin
	OnSubscribed(ctx context.Context, sub *subscription.Subscription) error
}

// OnCancelled is called when a subscription reaches Cancelled,
// whether by the subscriber, the payee, or expiry.
type OnCancelled interface {
	Plugin
	OnCancelled(ctx context.Context, sub *subscription.Subscription) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnBillingEvent is called for every state-mutating tick outcome:
// charges, lapses, expiries and plan-inactive terminations.
type OnBillingEvent interface {
	Plugin
	OnBillingEvent(ctx context.Context, evt *event.Event) error
}
