package subscription

import (
	"testing"

	"github.com/xraph/recur/id"
	"github.com/xraph/recur/types"
)

func TestKeyRoundTrip(t *testing.T) {
	planID := id.NewPlanIDAt(1000, 1)
	key := NewKey(planID, "cro1subscriber")

	parsed, err := ParseKey(key.String())
	if err != nil {
		t.Fatalf("ParseKey(%q) failed: %v", key.String(), err)
	}
	if parsed != key {
		t.Errorf("round trip mismatch: got %v, want %v", parsed, key)
	}
}

func TestParseKeyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no separator", "plan_01h455vb4pex5vsknk084sn02q"},
		{"empty subscriber", "plan_01h455vb4pex5vsknk084sn02q/"},
		{"bad plan id", "not-a-plan-id/alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseKey(tt.input); err == nil {
				t.Errorf("ParseKey(%q) should fail", tt.input)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusActive, false},
		{StatusCancelled, true},
		{StatusLapsed, true},
		{StatusPlanInactive, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestExpiredAt(t *testing.T) {
	sub := &Subscription{Status: StatusActive}
	if sub.ExpiredAt(1000) {
		t.Error("subscription without expiry should never expire")
	}

	expires := int64(500)
	sub.Expires = &expires
	if sub.ExpiredAt(499) {
		t.Error("should not be expired before the expiry time")
	}
	if !sub.ExpiredAt(500) {
		t.Error("should be expired exactly at the expiry time")
	}
	if !sub.ExpiredAt(501) {
		t.Error("should be expired after the expiry time")
	}
}

func TestCloneIsDeep(t *testing.T) {
	max := types.NewCoin(500, "ucro")
	expires := int64(9000)
	orig := &Subscription{
		PlanID:        id.NewPlanIDAt(1000, 1),
		Subscriber:    "alice",
		Status:        StatusActive,
		NextDueAt:     86400,
		AuthorizedMax: &max,
		Expires:       &expires,
		CyclesBilled:  3,
	}

	clone := orig.Clone()
	clone.AuthorizedMax.Amount = 999
	*clone.Expires = 1

	if orig.AuthorizedMax.Amount != 500 {
		t.Error("mutating the clone's cap leaked into the original")
	}
	if *orig.Expires != 9000 {
		t.Error("mutating the clone's expiry leaked into the original")
	}
	if clone.Key() != orig.Key() {
		t.Error("clone should keep the same identity")
	}
}
