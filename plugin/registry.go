package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xraph/recur/event"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
)

// Registry manages all registered plugins and provides efficient
// dispatch. It uses type-cached discovery so emitting an event touches
// only the plugins that implement the hook.
//
// Hooks run synchronously in registration order. Billing runs inside a
// host transaction that must produce the same result on every replica,
// so the registry never spawns goroutines and never applies timeouts.
// Hook errors are logged and swallowed; they cannot fail the
// transaction.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit            []OnInit
	onShutdown        []OnShutdown
	onPlanCreated     []OnPlanCreated
	onPlanDeactivated []OnPlanDeactivated
	onSubscribed      []OnSubscribed
	onCancelled       []OnCancelled
	onBillingEvent    []OnBillingEvent
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnPlanCreated); ok {
		r.onPlanCreated = append(r.onPlanCreated, v)
	}
	if v, ok := p.(OnPlanDeactivated); ok {
		r.onPlanDeactivated = append(r.onPlanDeactivated, v)
	}
	if v, ok := p.(OnSubscribed); ok {
		r.onSubscribed = append(r.onSubscribed, v)
	}
	if v, ok := p.(OnCancelled); ok {
		r.onCancelled = append(r.onCancelled, v)
	}
	if v, ok := p.(OnBillingEvent); ok {
		r.onBillingEvent = append(r.onBillingEvent, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnInit(ctx, engine); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnShutdown(ctx); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPlanCreated emits a plan created event.
func (r *Registry) EmitPlanCreated(ctx context.Context, pl *plan.Plan) {
	r.mu.RLock()
	plugins := r.onPlanCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnPlanCreated(ctx, pl); err != nil {
			r.logger.Warn("plugin OnPlanCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPlanDeactivated emits a plan deactivated event.
func (r *Registry) EmitPlanDeactivated(ctx context.Context, pl *plan.Plan) {
	r.mu.RLock()
	plugins := r.onPlanDeactivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnPlanDeactivated(ctx, pl); err != nil {
			r.logger.Warn("plugin OnPlanDeactivated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSubscribed emits a subscription created event.
func (r *Registry) EmitSubscribed(ctx context.Context, sub *subscription.Subscription) {
	r.mu.RLock()
	plugins := r.onSubscribed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnSubscribed(ctx, sub); err != nil {
			r.logger.Warn("plugin OnSubscribed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCancelled emits a subscription cancelled event.
func (r *Registry) EmitCancelled(ctx context.Context, sub *subscription.Subscription) {
	r.mu.RLock()
	plugins := r.onCancelled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnCancelled(ctx, sub); err != nil {
			r.logger.Warn("plugin OnCancelled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBillingEvent emits a billing outcome event.
func (r *Registry) EmitBillingEvent(ctx context.Context, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onBillingEvent
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := p.OnBillingEvent(ctx, evt); err != nil {
			r.logger.Warn("plugin OnBillingEvent failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}
