package recur

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/event"
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/plugin"
	"github.com/xraph/recur/store"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/transfer"
	"github.com/xraph/recur/types"
)

// Pagination bounds for list operations.
const (
	DefaultLimit = 10
	MaxLimit     = 30
)

// Engine is the main billing engine. Every state-changing method takes
// an Env carrying the host's block time and height; the engine itself
// never reads the wall clock, so replaying the same calls against the
// same store yields identical state on every replica.
type Engine struct {
	store   store.Store
	bank    transfer.Adapter
	plugins *plugin.Registry
	logger  *slog.Logger
}

// New creates a new Engine instance.
func New(s store.Store, bank transfer.Adapter, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		bank:    bank,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("billing engine started", "plugins", e.plugins.Count())

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())
	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Plan Management
// ──────────────────────────────────────────────────

// CreatePlan registers a new recurring plan owned by payee.
func (e *Engine) CreatePlan(ctx context.Context, env Env, payee string, content plan.Content) (*plan.Plan, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if payee == "" {
		return nil, ValidationError{Field: "payee", Message: "must not be empty"}
	}

	seq, err := e.store.NextSeq(ctx, store.SeqPlan)
	if err != nil {
		return nil, err
	}

	p := &plan.Plan{
		Entity:      types.NewEntityAt(env.Time),
		ID:          id.NewPlanIDAt(env.Time, seq),
		Payee:       payee,
		Title:       content.Title,
		Description: content.Description,
		Price:       content.Price,
		Interval:    content.Interval,
		Active:      true,
		Metadata:    content.Metadata,
	}

	if err := e.store.CreatePlan(ctx, p); err != nil {
		return nil, err
	}

	e.plugins.EmitPlanCreated(ctx, p)
	e.logger.Debug("plan created", "plan_id", p.ID, "payee", payee)
	return p, nil
}

// DeactivatePlan retires a plan. Only the owning payee may call it.
// The plan record survives so existing subscribers terminate cleanly
// on their next tick.
func (e *Engine) DeactivatePlan(ctx context.Context, env Env, sender string, planID id.PlanID) error {
	p, err := e.store.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if p.Payee != sender {
		return ErrUnauthorized
	}
	if !p.Active {
		return ErrPlanInactive
	}

	p.Active = false
	p.TouchAt(env.Time)
	if err := e.store.UpdatePlan(ctx, p); err != nil {
		return err
	}

	e.plugins.EmitPlanDeactivated(ctx, p)
	e.logger.Debug("plan deactivated", "plan_id", p.ID)
	return nil
}

// GetPlan retrieves a plan by ID.
func (e *Engine) GetPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	return e.store.GetPlan(ctx, planID)
}

// ListPlans returns plans ordered by ID.
func (e *Engine) ListPlans(ctx context.Context, opts plan.ListOpts) ([]*plan.Plan, error) {
	opts.Limit = clampLimit(opts.Limit)
	return e.store.ListPlans(ctx, opts)
}

// ──────────────────────────────────────────────────
// Subscription Management
// ──────────────────────────────────────────────────

// Subscribe enrolls subscriber into the plan. The subscription starts
// Pending with its cursor at the current block time, so the first
// charge is due immediately.
func (e *Engine) Subscribe(ctx context.Context, env Env, subscriber string, planID id.PlanID, authorizedMax *types.Coin, expires *int64) (*subscription.Subscription, error) {
	if subscriber == "" {
		return nil, ValidationError{Field: "subscriber", Message: "must not be empty"}
	}

	p, err := e.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrPlanInactive
	}
	if authorizedMax != nil {
		if !authorizedMax.SameDenom(p.Price) {
			return nil, ErrDenomMismatch
		}
		if authorizedMax.IsNegative() {
			return nil, ValidationError{Field: "authorized_max", Message: "must not be negative"}
		}
	}
	if expires != nil && *expires <= env.Time {
		return nil, ErrInvalidExpiry
	}

	sub := &subscription.Subscription{
		Entity:        types.NewEntityAt(env.Time),
		PlanID:        planID,
		Subscriber:    subscriber,
		Status:        subscription.StatusPending,
		NextDueAt:     env.Time,
		AuthorizedMax: authorizedMax,
		Expires:       expires,
	}

	if err := e.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	e.plugins.EmitSubscribed(ctx, sub)
	e.logger.Debug("subscribed", "key", sub.Key(), "next_due_at", sub.NextDueAt)
	return sub, nil
}

// GetSubscription retrieves a subscription by its composite key.
func (e *Engine) GetSubscription(ctx context.Context, key subscription.Key) (*subscription.Subscription, error) {
	return e.store.GetSubscription(ctx, key)
}

// ListSubscriptions returns a plan's subscriptions ordered by
// subscriber address.
func (e *Engine) ListSubscriptions(ctx context.Context, planID id.PlanID, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	opts.Limit = clampLimit(opts.Limit)
	return e.store.ListSubscriptions(ctx, planID, opts)
}

// DueSubscriptions returns the non-terminal subscriptions whose cursor
// has passed, ordered by (cursor, key).
func (e *Engine) DueSubscriptions(ctx context.Context, env Env, limit int) ([]*subscription.Subscription, error) {
	return e.store.ListDue(ctx, env.Time, clampLimit(limit))
}

// UpdateExpires changes or clears a subscription's expiry. Only the
// subscriber may call it.
func (e *Engine) UpdateExpires(ctx context.Context, env Env, sender string, key subscription.Key, expires *int64) error {
	sub, err := e.store.GetSubscription(ctx, key)
	if err != nil {
		return err
	}
	if sub.Subscriber != sender {
		return ErrUnauthorized
	}
	if sub.Status.IsTerminal() {
		return ErrInvalidState
	}
	if expires != nil && *expires <= env.Time {
		return ErrInvalidExpiry
	}

	sub.Expires = expires
	sub.TouchAt(env.Time)
	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	e.logger.Debug("expiry updated", "key", key)
	return nil
}

// Cancel ends a subscription at the subscriber's request. Already-paid
// cycles are not refunded.
func (e *Engine) Cancel(ctx context.Context, env Env, sender string, key subscription.Key) error {
	sub, err := e.store.GetSubscription(ctx, key)
	if err != nil {
		return err
	}
	if sub.Subscriber != sender {
		return ErrUnauthorized
	}
	return e.cancel(ctx, env, sub)
}

// CancelFor ends a subscription at the payee's request, releasing the
// subscriber from future charges.
func (e *Engine) CancelFor(ctx context.Context, env Env, sender string, key subscription.Key) error {
	sub, err := e.store.GetSubscription(ctx, key)
	if err != nil {
		return err
	}
	p, err := e.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if p.Payee != sender {
		return ErrUnauthorized
	}
	return e.cancel(ctx, env, sub)
}

func (e *Engine) cancel(ctx context.Context, env Env, sub *subscription.Subscription) error {
	if sub.Status.IsTerminal() {
		return ErrInvalidState
	}

	billing.ApplyCancel(sub, env.Time)
	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	evt, err := e.newEvent(ctx, event.TypeCancelled, sub.Key(), billing.OutcomeTerminated, env)
	if err != nil {
		return err
	}
	e.plugins.EmitCancelled(ctx, sub)
	e.plugins.EmitBillingEvent(ctx, evt)
	e.logger.Debug("cancelled", "key", sub.Key())
	return nil
}

// ──────────────────────────────────────────────────
// Billing
// ──────────────────────────────────────────────────

// TickResult reports what a tick did to one subscription.
type TickResult struct {
	Key     subscription.Key `json:"key"`
	Outcome billing.Outcome  `json:"outcome"`
	Event   *event.Event     `json:"event,omitempty"`
}

// Tick assesses one subscription against the current block time and
// applies at most one state transition. Anyone may call it; the
// outcome depends only on recorded state and env, never on the caller.
func (e *Engine) Tick(ctx context.Context, env Env, key subscription.Key) (*TickResult, error) {
	sub, err := e.store.GetSubscription(ctx, key)
	if err != nil {
		return nil, err
	}
	p, err := e.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	a := billing.Assess(p, sub, env.Time)
	res := &TickResult{Key: key}

	switch a.Action {
	case billing.ActionNone:
		res.Outcome = billing.OutcomeNoOp
		return res, nil

	case billing.ActionWait:
		res.Outcome = billing.OutcomeNotYetDue
		return res, nil

	case billing.ActionExpire:
		billing.ApplyCancel(sub, env.Time)
		res.Outcome = billing.OutcomeExpired
		if res.Event, err = e.newEvent(ctx, event.TypeCancelled, key, billing.OutcomeExpired, env); err != nil {
			return nil, err
		}

	case billing.ActionTerminate:
		billing.ApplyPlanInactive(sub, env.Time)
		res.Outcome = billing.OutcomeTerminated
		if res.Event, err = e.newEvent(ctx, event.TypeTerminated, key, billing.OutcomeTerminated, env); err != nil {
			return nil, err
		}

	case billing.ActionLapseAuthorization:
		billing.ApplyLapse(sub, env.Time)
		res.Outcome = billing.OutcomeAuthorizationExceeded
		if res.Event, err = e.newEvent(ctx, event.TypeTerminated, key, billing.OutcomeAuthorizationExceeded, env); err != nil {
			return nil, err
		}

	case billing.ActionCharge:
		err := e.bank.Transfer(ctx, sub.Subscriber, p.Payee, a.Amount)
		switch {
		case errors.Is(err, transfer.ErrInsufficientFunds):
			billing.ApplyLapse(sub, env.Time)
			res.Outcome = billing.OutcomePaymentFailed
			if res.Event, err = e.newEvent(ctx, event.TypeTerminated, key, billing.OutcomePaymentFailed, env); err != nil {
				return nil, err
			}
		case err != nil:
			// Adapter faults other than a balance shortfall abort the
			// transaction so the host can roll back.
			return nil, err
		default:
			billing.ApplyCharge(sub, p.Interval, env.Time)
			res.Outcome = billing.OutcomeCharged
			if res.Event, err = e.newEvent(ctx, event.TypeCharged, key, billing.OutcomeCharged, env); err != nil {
				return nil, err
			}
			res.Event.WithAmount(a.Amount)
		}
	}

	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if res.Event != nil {
		if res.Outcome == billing.OutcomeExpired {
			e.plugins.EmitCancelled(ctx, sub)
		}
		e.plugins.EmitBillingEvent(ctx, res.Event)
	}

	e.logger.Debug("tick",
		"key", key,
		"outcome", res.Outcome,
		"block_time", env.Time,
		"height", env.Height,
	)
	return res, nil
}

// TickBatch ticks each key in order, collecting per-key results.
// No-op and not-yet-due items do not abort the batch; a store or
// adapter fault does, so the host transaction can roll back whole.
func (e *Engine) TickBatch(ctx context.Context, env Env, keys []subscription.Key) ([]*TickResult, error) {
	results := make([]*TickResult, 0, len(keys))
	for _, key := range keys {
		res, err := e.Tick(ctx, env, key)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// newEvent builds a billing event whose ID derives from the persisted
// event sequence, so replicas replaying the same transaction emit
// identical event identifiers.
func (e *Engine) newEvent(ctx context.Context, typ event.Type, key subscription.Key, outcome billing.Outcome, env Env) (*event.Event, error) {
	seq, err := e.store.NextSeq(ctx, store.SeqBillingEvent)
	if err != nil {
		return nil, err
	}
	return event.New(typ, key, outcome, env.Time, env.Height, seq), nil
}

func validateContent(c plan.Content) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return ValidationError{Field: "title", Message: "must not be empty"}
	}
	if len(c.Title) > plan.MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(c.Description) > plan.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !c.Price.IsPositive() {
		return ValidationError{Field: "price", Message: "must be positive"}
	}
	if c.Price.Denom == "" {
		return ValidationError{Field: "price", Message: "denom must not be empty"}
	}
	if c.Interval <= 0 {
		return ValidationError{Field: "interval", Message: "must be positive"}
	}
	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
