// Package billing holds the pure decision logic for advancing a
// subscription by one billing cycle.
//
// Nothing here performs I/O. Assess inspects a (plan, subscription,
// block time) triple and returns the single action the caller must
// take; the Apply* functions produce the corresponding next state.
// Exactly-once billing falls out of the interval-quantized cursor:
// NextDueAt only ever advances by one plan interval from its previous
// value, so duplicate, early, or late ticks cannot change the total
// amount charged.
package billing

import (
	"github.com/xraph/recur/plan"
	"github.com/xraph/recur/subscription"
	"github.com/xraph/recur/types"
)

// Outcome is the result of one tick against one subscription, as
// reported to the submitter and recorded on emitted events.
type Outcome string

const (
	// OutcomeCharged: the due amount was transferred and the cursor advanced.
	OutcomeCharged Outcome = "charged"
	// OutcomeNoOp: the record is terminal; nothing happened. A success,
	// not an error, so duplicate ticks don't burn the submitter's fee.
	OutcomeNoOp Outcome = "no_op"
	// OutcomeNotYetDue: block time has not reached the cursor. A success.
	OutcomeNotYetDue Outcome = "not_yet_due"
	// OutcomeTerminated: the plan was deactivated; the record moved to
	// PlanInactive without a charge.
	OutcomeTerminated Outcome = "terminated"
	// OutcomeExpired: the subscriber-set expiry passed; the record moved
	// to Cancelled without a charge.
	OutcomeExpired Outcome = "expired"
	// OutcomeAuthorizationExceeded: the next charge would pass the
	// authorized cap; the record moved to Lapsed without a charge.
	OutcomeAuthorizationExceeded Outcome = "authorization_exceeded"
	// OutcomePaymentFailed: the transfer reported insufficient funds;
	// the record moved to Lapsed.
	OutcomePaymentFailed Outcome = "payment_failed"
)

// Mutated reports whether this outcome corresponds to a state change.
func (o Outcome) Mutated() bool {
	return o != OutcomeNoOp && o != OutcomeNotYetDue
}

// Action is the single step a tick must take next.
type Action int

const (
	// ActionNone: terminal record; do nothing.
	ActionNone Action = iota
	// ActionWait: not yet due; do nothing.
	ActionWait
	// ActionExpire: cancel the record (subscriber-set expiry passed).
	ActionExpire
	// ActionTerminate: move the record to PlanInactive.
	ActionTerminate
	// ActionLapseAuthorization: move the record to Lapsed (cap exceeded).
	ActionLapseAuthorization
	// ActionCharge: transfer Amount from subscriber to payee, then
	// advance the cursor.
	ActionCharge
)

// Assessment is the decision Assess reaches for one tick.
type Assessment struct {
	Action Action
	// Amount is the charge for ActionCharge; zero otherwise.
	Amount types.Coin
}

// Assess decides what a tick at block time now must do to sub under p.
// It is a pure function of its inputs and never mutates them.
//
// The checks run in a fixed order that every replica must agree on:
// terminal, expiry, cursor, plan activity, authorization, charge.
func Assess(p *plan.Plan, sub *subscription.Subscription, now int64) Assessment {
	if sub.Status.IsTerminal() {
		return Assessment{Action: ActionNone}
	}

	if sub.ExpiredAt(now) {
		return Assessment{Action: ActionExpire}
	}

	if now < sub.NextDueAt {
		return Assessment{Action: ActionWait}
	}

	if !p.Active {
		return Assessment{Action: ActionTerminate}
	}

	if exceedsAuthorization(p, sub) {
		return Assessment{Action: ActionLapseAuthorization}
	}

	return Assessment{Action: ActionCharge, Amount: p.Price}
}

// exceedsAuthorization reports whether billing one more cycle would
// push cumulative spend past the subscriber's cap. Cumulative spend is
// derived from the cycle counter; price is immutable per plan. The
// comparison divides the cap by the price instead of multiplying, so a
// large price over a long-lived subscription cannot overflow int64:
// price*(cycles+1) > max holds exactly when cycles+1 > max/price under
// integer division.
func exceedsAuthorization(p *plan.Plan, sub *subscription.Subscription) bool {
	if sub.AuthorizedMax == nil {
		return false
	}
	price := p.Price.Amount
	if price <= 0 {
		return false
	}
	return sub.CyclesBilled+1 > sub.AuthorizedMax.Amount/price
}

// ApplyCharge advances sub after a successful transfer. The cursor
// moves by exactly one interval from its previous value, never from
// now, so a late tick leaves the record due again immediately and a
// follow-up tick catches up one cycle at a time.
func ApplyCharge(sub *subscription.Subscription, interval int64, now int64) {
	sub.NextDueAt += interval
	sub.CyclesBilled++
	sub.Status = subscription.StatusActive
	sub.TouchAt(now)
}

// ApplyCancel moves sub to the terminal Cancelled state.
func ApplyCancel(sub *subscription.Subscription, now int64) {
	sub.Status = subscription.StatusCancelled
	sub.TouchAt(now)
}

// ApplyPlanInactive moves sub to the terminal PlanInactive state.
func ApplyPlanInactive(sub *subscription.Subscription, now int64) {
	sub.Status = subscription.StatusPlanInactive
	sub.TouchAt(now)
}

// ApplyLapse moves sub to the terminal Lapsed state.
func ApplyLapse(sub *subscription.Subscription, now int64) {
	sub.Status = subscription.StatusLapsed
	sub.TouchAt(now)
}
