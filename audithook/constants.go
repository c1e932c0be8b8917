package audithook

// Action constants for audit events.
const (
	// Plan actions
	ActionPlanCreated     = "plan.created"
	ActionPlanDeactivated = "plan.deactivated"

	// Subscription actions
	ActionSubscriptionCreated   = "subscription.created"
	ActionSubscriptionCancelled = "subscription.cancelled"

	// Billing actions
	ActionCharged               = "billing.charged"
	ActionTerminated            = "billing.terminated"
	ActionExpired               = "billing.expired"
	ActionAuthorizationExceeded = "billing.authorization_exceeded"
	ActionPaymentFailed         = "billing.payment_failed"
)

// Resource constants for audit events.
const (
	ResourcePlan         = "plan"
	ResourceSubscription = "subscription"
)

// Category constants for audit events.
const (
	CategoryBilling      = "billing"
	CategorySubscription = "subscription"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
