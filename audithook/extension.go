// Package audithook bridges billing lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend
// on any particular audit store. Callers inject a RecorderFunc adapter
// that bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/event"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/plugin"
	"github.com/xraph/recur/subscription"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin            = (*Extension)(nil)
	_ plugin.OnPlanCreated     = (*Extension)(nil)
	_ plugin.OnPlanDeactivated = (*Extension)(nil)
	_ plugin.OnSubscribed      = (*Extension)(nil)
	_ plugin.OnCancelled       = (*Extension)(nil)
	_ plugin.OnBillingEvent    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so this package carries no backend dependency;
// callers inject the concrete recorder at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges billing lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnPlanCreated implements plugin.OnPlanCreated.
func (e *Extension) OnPlanCreated(ctx context.Context, p *plan.Plan) error {
	return e.record(ctx, ActionPlanCreated, SeverityInfo, OutcomeSuccess,
		ResourcePlan, p.ID.String(), CategoryBilling,
		"payee", p.Payee,
		"price", p.Price.String(),
		"interval", p.Interval,
	)
}

// OnPlanDeactivated implements plugin.OnPlanDeactivated.
func (e *Extension) OnPlanDeactivated(ctx context.Context, p *plan.Plan) error {
	return e.record(ctx, ActionPlanDeactivated, SeverityWarning, OutcomeSuccess,
		ResourcePlan, p.ID.String(), CategoryBilling,
		"payee", p.Payee,
	)
}

// OnSubscribed implements plugin.OnSubscribed.
func (e *Extension) OnSubscribed(ctx context.Context, sub *subscription.Subscription) error {
	return e.record(ctx, ActionSubscriptionCreated, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, sub.Key().String(), CategorySubscription,
		"subscriber", sub.Subscriber,
		"next_due_at", sub.NextDueAt,
	)
}

// OnCancelled implements plugin.OnCancelled.
func (e *Extension) OnCancelled(ctx context.Context, sub *subscription.Subscription) error {
	return e.record(ctx, ActionSubscriptionCancelled, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, sub.Key().String(), CategorySubscription,
		"subscriber", sub.Subscriber,
		"cycles_billed", sub.CyclesBilled,
	)
}

// OnBillingEvent implements plugin.OnBillingEvent.
func (e *Extension) OnBillingEvent(ctx context.Context, evt *event.Event) error {
	action, severity, outcome := classify(evt.Outcome)
	if action == "" {
		return nil
	}

	kv := []any{
		"type", string(evt.Type),
		"block_time", evt.Time,
		"height", evt.Height,
	}
	if evt.Amount != nil {
		kv = append(kv, "amount", evt.Amount.String())
	}

	return e.record(ctx, action, severity, outcome,
		ResourceSubscription, evt.Key.String(), CategoryBilling, kv...)
}

// classify maps a billing outcome to audit action, severity and outcome.
func classify(o billing.Outcome) (action, severity, outcome string) {
	switch o {
	case billing.OutcomeCharged:
		return ActionCharged, SeverityInfo, OutcomeSuccess
	case billing.OutcomeTerminated:
		return ActionTerminated, SeverityWarning, OutcomeSuccess
	case billing.OutcomeExpired:
		return ActionExpired, SeverityInfo, OutcomeSuccess
	case billing.OutcomeAuthorizationExceeded:
		return ActionAuthorizationExceeded, SeverityWarning, OutcomeFailure
	case billing.OutcomePaymentFailed:
		return ActionPaymentFailed, SeverityError, OutcomeFailure
	default:
		return "", "", ""
	}
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
