// Package router translates JSON wire messages into engine calls,
// enforcing the one-of envelope convention and returning the emitted
// events alongside each response.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xraph/recur"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
)

// Router dispatches wire messages to an Engine. Authorization is
// enforced by the engine from the sender identity the host attaches to
// the transaction; the router only carries it through.
type Router struct {
	engine *recur.Engine
	logger *slog.Logger
}

// New creates a Router over the given engine.
func New(engine *recur.Engine, opts ...Option) *Router {
	r := &Router{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// Execute decodes and dispatches a state-changing message.
func (r *Router) Execute(ctx context.Context, env recur.Env, sender string, raw []byte) (*ExecuteResponse, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.logger.Warn("rejected malformed execute message", "sender", sender, "error", err)
		return nil, fmt.Errorf("%w: %s", recur.ErrInvalidParameter, err)
	}

	switch {
	case msg.CreatePlan != nil:
		return r.createPlan(ctx, env, sender, msg.CreatePlan)
	case msg.DeactivatePlan != nil:
		err := r.engine.DeactivatePlan(ctx, env, sender, msg.DeactivatePlan.PlanID)
		return &ExecuteResponse{}, err
	case msg.Subscribe != nil:
		return r.subscribe(ctx, env, sender, msg.Subscribe)
	case msg.Cancel != nil:
		key := subscription.NewKey(msg.Cancel.PlanID, sender)
		err := r.engine.Cancel(ctx, env, sender, key)
		return &ExecuteResponse{}, err
	case msg.CancelFor != nil:
		key := subscription.NewKey(msg.CancelFor.PlanID, msg.CancelFor.Subscriber)
		err := r.engine.CancelFor(ctx, env, sender, key)
		return &ExecuteResponse{}, err
	case msg.UpdateExpires != nil:
		key := subscription.NewKey(msg.UpdateExpires.PlanID, sender)
		err := r.engine.UpdateExpires(ctx, env, sender, key, msg.UpdateExpires.Expires)
		return &ExecuteResponse{}, err
	case msg.Tick != nil:
		return r.tick(ctx, env, msg.Tick)
	case msg.TickBatch != nil:
		return r.tickBatch(ctx, env, msg.TickBatch)
	default:
		r.logger.Warn("rejected empty execute message", "sender", sender)
		return nil, fmt.Errorf("%w: empty execute message", recur.ErrInvalidParameter)
	}
}

// Query decodes and dispatches a read-only message, returning the
// JSON-encoded response.
func (r *Router) Query(ctx context.Context, env recur.Env, raw []byte) (json.RawMessage, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.logger.Warn("rejected malformed query message", "error", err)
		return nil, fmt.Errorf("%w: %s", recur.ErrInvalidParameter, err)
	}

	switch {
	case msg.GetPlan != nil:
		p, err := r.engine.GetPlan(ctx, msg.GetPlan.PlanID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)

	case msg.ListPlans != nil:
		plans, err := r.engine.ListPlans(ctx, listPlanOpts(msg.ListPlans))
		if err != nil {
			return nil, err
		}
		return json.Marshal(PlansResponse{Plans: plans})

	case msg.GetSubscription != nil:
		key := subscription.NewKey(msg.GetSubscription.PlanID, msg.GetSubscription.Subscriber)
		sub, err := r.engine.GetSubscription(ctx, key)
		if err != nil {
			return nil, err
		}
		return json.Marshal(sub)

	case msg.ListSubscriptions != nil:
		subs, err := r.engine.ListSubscriptions(ctx, msg.ListSubscriptions.PlanID, subscription.ListOpts{
			Status: msg.ListSubscriptions.Status,
			Limit:  msg.ListSubscriptions.Limit,
			Offset: msg.ListSubscriptions.Offset,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(SubscriptionsResponse{Subscriptions: subs})

	case msg.DueSubscriptions != nil:
		subs, err := r.engine.DueSubscriptions(ctx, env, msg.DueSubscriptions.Limit)
		if err != nil {
			return nil, err
		}
		return json.Marshal(SubscriptionsResponse{Subscriptions: subs})

	default:
		r.logger.Warn("rejected empty query message")
		return nil, fmt.Errorf("%w: empty query message", recur.ErrInvalidParameter)
	}
}

func (r *Router) createPlan(ctx context.Context, env recur.Env, sender string, msg *CreatePlanMsg) (*ExecuteResponse, error) {
	p, err := r.engine.CreatePlan(ctx, env, sender, planContent(msg))
	if err != nil {
		return nil, err
	}
	return &ExecuteResponse{Plan: p}, nil
}

func (r *Router) subscribe(ctx context.Context, env recur.Env, sender string, msg *SubscribeMsg) (*ExecuteResponse, error) {
	sub, err := r.engine.Subscribe(ctx, env, sender, msg.PlanID, msg.AuthorizedMax, msg.Expires)
	if err != nil {
		return nil, err
	}
	return &ExecuteResponse{Subscription: sub}, nil
}

func (r *Router) tick(ctx context.Context, env recur.Env, msg *TickMsg) (*ExecuteResponse, error) {
	res, err := r.engine.Tick(ctx, env, subscription.NewKey(msg.PlanID, msg.Subscriber))
	if err != nil {
		return nil, err
	}
	resp := &ExecuteResponse{Outcome: res.Outcome}
	if res.Event != nil {
		resp.Events = append(resp.Events, res.Event)
	}
	return resp, nil
}

func (r *Router) tickBatch(ctx context.Context, env recur.Env, msg *TickBatchMsg) (*ExecuteResponse, error) {
	keys := make([]subscription.Key, len(msg.Items))
	for i, item := range msg.Items {
		keys[i] = subscription.NewKey(item.PlanID, item.Subscriber)
	}

	results, err := r.engine.TickBatch(ctx, env, keys)
	if err != nil {
		return nil, err
	}

	resp := &ExecuteResponse{}
	for _, res := range results {
		resp.Outcomes = append(resp.Outcomes, res.Outcome)
		if res.Event != nil {
			resp.Events = append(resp.Events, res.Event)
		}
	}
	return resp, nil
}

func planContent(msg *CreatePlanMsg) plan.Content {
	return plan.Content{
		Title:       msg.Title,
		Description: msg.Description,
		Price:       msg.Price,
		Interval:    msg.Interval,
		Metadata:    msg.Metadata,
	}
}

func listPlanOpts(msg *ListPlansMsg) plan.ListOpts {
	return plan.ListOpts{
		ActiveOnly: msg.ActiveOnly,
		Limit:      msg.Limit,
		Offset:     msg.Offset,
	}
}
