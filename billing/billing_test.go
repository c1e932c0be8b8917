package billing

import (
	"math"
	"testing"

	"github.com/xraph/recur/id"
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/types"
)

func testPlan() *plan.Plan {
	return &plan.Plan{
		ID:       id.NewPlanIDAt(0, 1),
		Payee:    "payee",
		Title:    "daily",
		Price:    types.NewCoin(100, "ucro"),
		Interval: 86400,
		Active:   true,
	}
}

func testSub(p *plan.Plan, nextDueAt int64) *subscription.Subscription {
	return &subscription.Subscription{
		PlanID:     p.ID,
		Subscriber: "subscriber",
		Status:     subscription.StatusPending,
		NextDueAt:  nextDueAt,
	}
}

func TestAssessOrder(t *testing.T) {
	cap150 := types.NewCoin(150, "ucro")
	expired := int64(50)

	tests := []struct {
		name   string
		mutate func(p *plan.Plan, sub *subscription.Subscription)
		now    int64
		want   Action
	}{
		{"due pending charges", nil, 0, ActionCharge},
		{"late tick charges", nil, 200000, ActionCharge},
		{"early tick waits", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.NextDueAt = 86400
		}, 1000, ActionWait},
		{"terminal cancelled is none", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.Status = subscription.StatusCancelled
		}, 0, ActionNone},
		{"terminal lapsed is none", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.Status = subscription.StatusLapsed
		}, 0, ActionNone},
		{"terminal plan_inactive is none", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.Status = subscription.StatusPlanInactive
		}, 0, ActionNone},
		{"inactive plan terminates", func(p *plan.Plan, _ *subscription.Subscription) {
			p.Active = false
		}, 0, ActionTerminate},
		{"inactive plan beats authorization", func(p *plan.Plan, sub *subscription.Subscription) {
			p.Active = false
			sub.AuthorizedMax = &cap150
			sub.CyclesBilled = 1
		}, 0, ActionTerminate},
		{"cap exceeded lapses", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.AuthorizedMax = &cap150
			sub.CyclesBilled = 1
		}, 0, ActionLapseAuthorization},
		{"cap not yet exceeded charges", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.AuthorizedMax = &cap150
		}, 0, ActionCharge},
		{"expiry passed cancels", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.Expires = &expired
		}, 100, ActionExpire},
		{"expiry in future charges", func(_ *plan.Plan, sub *subscription.Subscription) {
			future := int64(1000)
			sub.Expires = &future
		}, 0, ActionCharge},
		{"expiry beats not-yet-due", func(_ *plan.Plan, sub *subscription.Subscription) {
			sub.NextDueAt = 86400
			sub.Expires = &expired
		}, 100, ActionExpire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlan()
			sub := testSub(p, 0)
			if tt.mutate != nil {
				tt.mutate(p, sub)
			}

			got := Assess(p, sub, tt.now)
			if got.Action != tt.want {
				t.Errorf("Assess action: got %d, want %d", got.Action, tt.want)
			}
			if got.Action == ActionCharge && !got.Amount.Equal(p.Price) {
				t.Errorf("charge amount: got %v, want %v", got.Amount, p.Price)
			}
		})
	}
}

func TestApplyChargeAdvancesFromCursorNotNow(t *testing.T) {
	p := testPlan()
	sub := testSub(p, 0)

	// Tick arrives more than two intervals late. The cursor still moves
	// by exactly one interval from its previous value.
	ApplyCharge(sub, p.Interval, 200000)

	if sub.NextDueAt != 86400 {
		t.Errorf("NextDueAt: got %d, want 86400", sub.NextDueAt)
	}
	if sub.CyclesBilled != 1 {
		t.Errorf("CyclesBilled: got %d, want 1", sub.CyclesBilled)
	}
	if sub.Status != subscription.StatusActive {
		t.Errorf("Status: got %s, want active", sub.Status)
	}

	// The record is immediately due again, so a follow-up tick catches
	// up the missed cycle deterministically.
	if got := Assess(p, sub, 200000); got.Action != ActionCharge {
		t.Errorf("follow-up assess: got action %d, want charge", got.Action)
	}

	ApplyCharge(sub, p.Interval, 200000)
	if sub.NextDueAt != 172800 {
		t.Errorf("NextDueAt after catch-up: got %d, want 172800", sub.NextDueAt)
	}
}

func TestChargeIdempotentPerInterval(t *testing.T) {
	p := testPlan()
	sub := testSub(p, 0)

	// One elapsed interval, arbitrarily many tick attempts: exactly one
	// charge happens.
	charges := 0
	for i := 0; i < 10; i++ {
		a := Assess(p, sub, 1000)
		if a.Action == ActionCharge {
			charges++
			ApplyCharge(sub, p.Interval, 1000)
		}
	}
	if charges != 1 {
		t.Errorf("charges in one interval: got %d, want 1", charges)
	}
	if sub.NextDueAt != 86400 {
		t.Errorf("NextDueAt: got %d, want 86400", sub.NextDueAt)
	}
}

func TestAuthorizationCapTotalSpend(t *testing.T) {
	p := testPlan()
	cap150 := types.NewCoin(150, "ucro")
	sub := testSub(p, 0)
	sub.AuthorizedMax = &cap150

	// First cycle: 100 <= 150, allowed.
	a := Assess(p, sub, 0)
	if a.Action != ActionCharge {
		t.Fatalf("first cycle: got action %d, want charge", a.Action)
	}
	ApplyCharge(sub, p.Interval, 0)

	// Second cycle would total 200 > 150.
	a = Assess(p, sub, p.Interval)
	if a.Action != ActionLapseAuthorization {
		t.Fatalf("second cycle: got action %d, want lapse", a.Action)
	}
	ApplyLapse(sub, p.Interval)
	if sub.Status != subscription.StatusLapsed {
		t.Errorf("Status: got %s, want lapsed", sub.Status)
	}

	// Further ticks are no-ops.
	if got := Assess(p, sub, p.Interval*10); got.Action != ActionNone {
		t.Errorf("terminal assess: got action %d, want none", got.Action)
	}
}

func TestAuthorizationCapHugeValues(t *testing.T) {
	// Cumulative spend for a large price over many cycles exceeds the
	// int64 product range; the cap check must still decide correctly.
	p := testPlan()
	p.Price = types.NewCoin(math.MaxInt64/2, "ucro")
	max := types.NewCoin(math.MaxInt64, "ucro")

	sub := testSub(p, 0)
	sub.AuthorizedMax = &max
	sub.CyclesBilled = 5

	if got := Assess(p, sub, 0); got.Action != ActionLapseAuthorization {
		t.Errorf("over cap: got action %d, want lapse", got.Action)
	}

	// A tiny price under a huge cap never lapses, however many cycles
	// have been billed.
	p.Price = types.NewCoin(2, "ucro")
	sub.CyclesBilled = 1 << 40
	if got := Assess(p, sub, 0); got.Action != ActionCharge {
		t.Errorf("under cap: got action %d, want charge", got.Action)
	}
}

func TestAssessNeverMutates(t *testing.T) {
	p := testPlan()
	sub := testSub(p, 0)
	before := *sub

	_ = Assess(p, sub, 500000)

	if *sub != before {
		t.Error("Assess mutated the subscription")
	}
}

func TestTerminalApplies(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*subscription.Subscription, int64)
		want  subscription.Status
	}{
		{"cancel", ApplyCancel, subscription.StatusCancelled},
		{"plan inactive", ApplyPlanInactive, subscription.StatusPlanInactive},
		{"lapse", ApplyLapse, subscription.StatusLapsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlan()
			sub := testSub(p, 0)
			tt.apply(sub, 42)
			if sub.Status != tt.want {
				t.Errorf("Status: got %s, want %s", sub.Status, tt.want)
			}
			if !sub.Status.IsTerminal() {
				t.Error("expected terminal status")
			}
			if sub.UpdatedAt != 42 {
				t.Errorf("UpdatedAt: got %d, want 42", sub.UpdatedAt)
			}
		})
	}
}

func TestOutcomeMutated(t *testing.T) {
	for _, o := range []Outcome{OutcomeNoOp, OutcomeNotYetDue} {
		if o.Mutated() {
			t.Errorf("%s should not count as a mutation", o)
		}
	}
	for _, o := range []Outcome{OutcomeCharged, OutcomeTerminated, OutcomeExpired, OutcomeAuthorizationExceeded, OutcomePaymentFailed} {
		if !o.Mutated() {
			t.Errorf("%s should count as a mutation", o)
		}
	}
}
