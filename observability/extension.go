// Package observability provides a metrics plugin for the billing
// engine that records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/event"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/plugin"
	"github.com/xraph/recur/subscription"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin            = (*MetricsExtension)(nil)
	_ plugin.OnInit            = (*MetricsExtension)(nil)
	_ plugin.OnPlanCreated     = (*MetricsExtension)(nil)
	_ plugin.OnPlanDeactivated = (*MetricsExtension)(nil)
	_ plugin.OnSubscribed      = (*MetricsExtension)(nil)
	_ plugin.OnCancelled       = (*MetricsExtension)(nil)
	_ plugin.OnBillingEvent    = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track billing
// activity. Counters observe emitted events only; they never feed back
// into billing decisions.
type MetricsExtension struct {
	factory MetricFactory

	// Plan metrics
	PlanCreated     Counter
	PlanDeactivated Counter

	// Subscription metrics
	SubscriptionCreated   Counter
	SubscriptionCancelled Counter

	// Billing metrics
	Charged               Counter
	Terminated            Counter
	Expired               Counter
	AuthorizationExceeded Counter
	PaymentFailed         Counter
	ChargeAmount          Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Plan metrics
		PlanCreated:     factory.Counter("recur.plan.created"),
		PlanDeactivated: factory.Counter("recur.plan.deactivated"),

		// Subscription metrics
		SubscriptionCreated:   factory.Counter("recur.subscription.created"),
		SubscriptionCancelled: factory.Counter("recur.subscription.cancelled"),

		// Billing metrics
		Charged:               factory.Counter("recur.billing.charged"),
		Terminated:            factory.Counter("recur.billing.terminated"),
		Expired:               factory.Counter("recur.billing.expired"),
		AuthorizationExceeded: factory.Counter("recur.billing.authorization_exceeded"),
		PaymentFailed:         factory.Counter("recur.billing.payment_failed"),
		ChargeAmount:          factory.Histogram("recur.billing.charge_amount"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	// No initialization needed
	return nil
}

// OnPlanCreated implements plugin.OnPlanCreated.
func (m *MetricsExtension) OnPlanCreated(_ context.Context, _ *plan.Plan) error {
	m.PlanCreated.Inc()
	return nil
}

// OnPlanDeactivated implements plugin.OnPlanDeactivated.
func (m *MetricsExtension) OnPlanDeactivated(_ context.Context, _ *plan.Plan) error {
	m.PlanDeactivated.Inc()
	return nil
}

// OnSubscribed implements plugin.OnSubscribed.
func (m *MetricsExtension) OnSubscribed(_ context.Context, _ *subscription.Subscription) error {
	m.SubscriptionCreated.Inc()
	return nil
}

// OnCancelled implements plugin.OnCancelled.
func (m *MetricsExtension) OnCancelled(_ context.Context, _ *subscription.Subscription) error {
	m.SubscriptionCancelled.Inc()
	return nil
}

// OnBillingEvent implements plugin.OnBillingEvent.
func (m *MetricsExtension) OnBillingEvent(_ context.Context, evt *event.Event) error {
	switch evt.Outcome {
	case billing.OutcomeCharged:
		m.Charged.Inc()
		if evt.Amount != nil {
			m.ChargeAmount.Observe(float64(evt.Amount.Amount))
		}
	case billing.OutcomeTerminated:
		m.Terminated.Inc()
	case billing.OutcomeExpired:
		m.Expired.Inc()
	case billing.OutcomeAuthorizationExceeded:
		m.AuthorizationExceeded.Inc()
	case billing.OutcomePaymentFailed:
		m.PaymentFailed.Inc()
	}
	return nil
}
