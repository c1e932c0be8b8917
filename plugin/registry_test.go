package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/recur/billing"
	"github.com/xraph/recur/event"
	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
)

// recordingPlugin implements a subset of the hooks so dispatch caching
// can be observed.
type recordingPlugin struct {
	name         string
	planCreated  int
	billingEvent int
	err          error
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) OnPlanCreated(ctx context.Context, pl *plan.Plan) error {
	p.planCreated++
	return p.err
}

func (p *recordingPlugin) OnBillingEvent(ctx context.Context, evt *event.Event) error {
	p.billingEvent++
	return p.err
}

// namedPlugin implements no hooks at all.
type namedPlugin struct{ name string }

func (p *namedPlugin) Name() string { return p.name }

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&namedPlugin{name: "metrics"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := r.Register(&namedPlugin{name: "metrics"}); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestGetAndList(t *testing.T) {
	r := NewRegistry()
	p := &namedPlugin{name: "audit"}
	if err := r.Register(p); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if got := r.Get("audit"); got != Plugin(p) {
		t.Error("Get should return the registered plugin")
	}
	if got := r.Get("missing"); got != nil {
		t.Error("Get of an unknown name should return nil")
	}
	if len(r.List()) != 1 {
		t.Errorf("List() returned %d plugins, want 1", len(r.List()))
	}
}

func TestEmitDispatchesOnlyToImplementers(t *testing.T) {
	r := NewRegistry()
	hooked := &recordingPlugin{name: "hooked"}
	if err := r.Register(hooked); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := r.Register(&namedPlugin{name: "plain"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	ctx := context.Background()
	r.EmitPlanCreated(ctx, &plan.Plan{})
	r.EmitPlanCreated(ctx, &plan.Plan{})
	r.EmitSubscribed(ctx, &subscription.Subscription{})

	if hooked.planCreated != 2 {
		t.Errorf("OnPlanCreated called %d times, want 2", hooked.planCreated)
	}
	if hooked.billingEvent != 0 {
		t.Errorf("OnBillingEvent called %d times, want 0", hooked.billingEvent)
	}
}

func TestEmitSwallowsHookErrors(t *testing.T) {
	r := NewRegistry()
	failing := &recordingPlugin{name: "failing", err: errors.New("boom")}
	second := &recordingPlugin{name: "second"}
	if err := r.Register(failing); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := r.Register(second); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	evt := event.New(event.TypeCharged,
		subscription.NewKey(id.NewPlanIDAt(100, 1), "alice"),
		billing.OutcomeCharged, 100, 7, 1)
	r.EmitBillingEvent(context.Background(), evt)

	if failing.billingEvent != 1 {
		t.Errorf("failing hook called %d times, want 1", failing.billingEvent)
	}
	if second.billingEvent != 1 {
		t.Error("a failing hook must not stop dispatch to later plugins")
	}
}
