package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/xraph/recur"
	"github.com/xraph/recur/billing"
	storemem "github.com/xraph/recur/store/memory"
	transfermem "github.com/xraph/recur/transfer/memory"
	"github.com/xraph/recur/types"
)

func newRouter(t *testing.T) (*Router, *transfermem.Bank) {
	t.Helper()
	bank := transfermem.New()
	engine := recur.New(storemem.New(), bank)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return New(engine), bank
}

func execute(t *testing.T, r *Router, env recur.Env, sender, msg string) *ExecuteResponse {
	t.Helper()
	resp, err := r.Execute(context.Background(), env, sender, []byte(msg))
	if err != nil {
		t.Fatalf("execute %s: %v", msg, err)
	}
	return resp
}

func TestExecuteRoundTrip(t *testing.T) {
	r, bank := newRouter(t)
	env := recur.Env{Time: 0, Height: 1}
	bank.Fund("alice", types.NewCoin(1000, "ucro"))

	resp := execute(t, r, env, "payee", `{"create_plan":{"title":"daily","price":{"amount":"100","denom":"ucro"},"interval":86400}}`)
	if resp.Plan == nil {
		t.Fatal("create_plan returned no plan")
	}
	planID := resp.Plan.ID

	resp = execute(t, r, env, "alice", fmt.Sprintf(`{"subscribe":{"plan_id":%q}}`, planID))
	if resp.Subscription == nil || resp.Subscription.NextDueAt != 0 {
		t.Fatal("subscribe returned unexpected record")
	}

	resp = execute(t, r, env, "anyone", fmt.Sprintf(`{"tick":{"plan_id":%q,"subscriber":"alice"}}`, planID))
	if resp.Outcome != billing.OutcomeCharged {
		t.Fatalf("tick outcome: got %s, want charged", resp.Outcome)
	}
	if len(resp.Events) != 1 || resp.Events[0].Amount == nil || resp.Events[0].Amount.Amount != 100 {
		t.Fatalf("tick events: %+v", resp.Events)
	}
	if got := bank.Balance("payee", "ucro"); got.Amount != 100 {
		t.Errorf("payee balance: got %v", got)
	}

	// Query the advanced cursor back out.
	raw, err := r.Query(context.Background(), env, []byte(fmt.Sprintf(`{"get_subscription":{"plan_id":%q,"subscriber":"alice"}}`, planID)))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var got struct {
		NextDueAt int64 `json:"next_due_at"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.NextDueAt != 86400 {
		t.Errorf("next_due_at: got %d, want 86400", got.NextDueAt)
	}
}

func TestExecuteAuthorization(t *testing.T) {
	r, _ := newRouter(t)
	env := recur.Env{Time: 0, Height: 1}

	resp := execute(t, r, env, "payee", `{"create_plan":{"title":"daily","price":{"amount":"100","denom":"ucro"},"interval":86400}}`)
	planID := resp.Plan.ID
	execute(t, r, env, "alice", fmt.Sprintf(`{"subscribe":{"plan_id":%q}}`, planID))

	// Only the payee may deactivate.
	_, err := r.Execute(context.Background(), env, "mallory", []byte(fmt.Sprintf(`{"deactivate_plan":{"plan_id":%q}}`, planID)))
	if !errors.Is(err, recur.ErrUnauthorized) {
		t.Errorf("deactivate by stranger: got %v, want ErrUnauthorized", err)
	}

	// Cancel binds to the sender, so mallory cancels nothing of alice's.
	_, err = r.Execute(context.Background(), env, "mallory", []byte(fmt.Sprintf(`{"cancel":{"plan_id":%q}}`, planID)))
	if !recur.IsNotFound(err) {
		t.Errorf("cancel by stranger: got %v, want not found", err)
	}

	// cancel_for requires the payee.
	_, err = r.Execute(context.Background(), env, "mallory", []byte(fmt.Sprintf(`{"cancel_for":{"plan_id":%q,"subscriber":"alice"}}`, planID)))
	if !errors.Is(err, recur.ErrUnauthorized) {
		t.Errorf("cancel_for by stranger: got %v, want ErrUnauthorized", err)
	}
	if _, err := r.Execute(context.Background(), env, "payee", []byte(fmt.Sprintf(`{"cancel_for":{"plan_id":%q,"subscriber":"alice"}}`, planID))); err != nil {
		t.Errorf("cancel_for by payee: %v", err)
	}
}

func TestExecuteBatch(t *testing.T) {
	r, bank := newRouter(t)
	env := recur.Env{Time: 0, Height: 1}
	bank.Fund("alice", types.NewCoin(1000, "ucro"))

	resp := execute(t, r, env, "payee", `{"create_plan":{"title":"daily","price":{"amount":"100","denom":"ucro"},"interval":86400}}`)
	planID := resp.Plan.ID
	execute(t, r, env, "alice", fmt.Sprintf(`{"subscribe":{"plan_id":%q}}`, planID))
	execute(t, r, env, "bob", fmt.Sprintf(`{"subscribe":{"plan_id":%q}}`, planID))

	// alice charges, bob has no funds and lapses; neither aborts the
	// batch.
	resp = execute(t, r, env, "anyone", fmt.Sprintf(
		`{"tick_batch":{"items":[{"plan_id":%q,"subscriber":"alice"},{"plan_id":%q,"subscriber":"bob"}]}}`, planID, planID))

	want := []billing.Outcome{billing.OutcomeCharged, billing.OutcomePaymentFailed}
	if len(resp.Outcomes) != len(want) {
		t.Fatalf("outcomes: got %d, want %d", len(resp.Outcomes), len(want))
	}
	for i, w := range want {
		if resp.Outcomes[i] != w {
			t.Errorf("outcome[%d]: got %s, want %s", i, resp.Outcomes[i], w)
		}
	}
}

func TestMalformedMessages(t *testing.T) {
	bank := transfermem.New()
	engine := recur.New(storemem.New(), bank)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	var logs bytes.Buffer
	r := New(engine, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	env := recur.Env{Time: 0, Height: 1}

	for _, raw := range []string{`{}`, `not json`} {
		if _, err := r.Execute(context.Background(), env, "x", []byte(raw)); !errors.Is(err, recur.ErrInvalidParameter) {
			t.Errorf("execute %q: got %v, want ErrInvalidParameter", raw, err)
		}
		if _, err := r.Query(context.Background(), env, []byte(raw)); !errors.Is(err, recur.ErrInvalidParameter) {
			t.Errorf("query %q: got %v, want ErrInvalidParameter", raw, err)
		}
	}

	// Rejections go to the configured logger.
	if got := logs.String(); !strings.Contains(got, "rejected malformed execute message") ||
		!strings.Contains(got, "rejected empty query message") {
		t.Errorf("rejections not logged:\n%s", got)
	}
}

func TestQueryDueSubscriptions(t *testing.T) {
	r, _ := newRouter(t)
	env := recur.Env{Time: 0, Height: 1}

	resp := execute(t, r, env, "payee", `{"create_plan":{"title":"daily","price":{"amount":"100","denom":"ucro"},"interval":86400}}`)
	planID := resp.Plan.ID
	execute(t, r, env, "alice", fmt.Sprintf(`{"subscribe":{"plan_id":%q}}`, planID))

	raw, err := r.Query(context.Background(), env, []byte(`{"due_subscriptions":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	var got SubscriptionsResponse
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Subscriptions) != 1 || got.Subscriptions[0].Subscriber != "alice" {
		t.Errorf("due: got %d records", len(got.Subscriptions))
	}
}
