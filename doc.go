// Package recur provides a deterministic recurring-subscription billing
// state machine for hosts that execute transactions in a replicated,
// transactional environment (blockchain runtimes, embedded ledgers).
//
// Recur manages fixed-price, fixed-interval subscription billing:
//
//   - Payees publish immutable Plans (price, interval)
//   - Subscribers enroll and authorize a spending cap
//   - Anyone submits Tick transactions that advance due subscriptions
//     and debit the owed amount through a host-provided transfer
//     primitive
//
// The central discipline is exactly-once billing under adversarial
// trigger submission: ticks may arrive duplicated, reordered, or
// arbitrarily late, from any caller. Correctness comes from the
// interval-quantized billing cursor, not from any scheduler:
//
//   - A tick before the cursor is a harmless NotYetDue no-op
//   - A successful charge advances the cursor by exactly one interval
//     from its previous value, never from the current time, so a tick
//     arriving three intervals late bills once and leaves the record
//     immediately due again
//   - Ticks against terminal records are NoOp successes, never errors
//
// # Determinism
//
// Every operation receives the host's block context as an explicit
// [Env] (unix-second time, block height). The core never reads the
// wall clock, spawns goroutines, retries, or times out internally:
// every validator replaying the same transaction against the same
// prior state computes the identical result.
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/recur"
//	    "github.com/xraph/recur/plan"
//	    "github.com/xraph/recur/store/memory"
//	    bankmem "github.com/xraph/recur/transfer/memory"
//	)
//
//	bank := bankmem.New()
//	eng := recur.New(memory.New(), bank)
//
//	env := recur.Env{Time: blockTime, Height: blockHeight}
//	p, err := eng.CreatePlan(ctx, env, "payee-addr", plan.Content{
//	    Title:    "Pro",
//	    Price:    types.NewCoin(100, "ucro"),
//	    Interval: 86400,
//	})
//
//	key, err := eng.Subscribe(ctx, env, "subscriber-addr", p.ID, nil, nil)
//	res, err := eng.Tick(ctx, env, key)
//
// The wire-facing surface lives in the router package, which maps
// JSON execute/query messages onto the engine and enforces caller
// authorization (payee-only, subscriber-only, public).
//
// # Storage
//
// State lives behind the store.Store interface: a mutex-guarded
// in-memory store for embedding inside a host-provided transactional
// KV, and a grove-backed SQLite store for hosts that need restart
// persistence. Subscriptions are indexed by their billing cursor so
// relayers can discover due records with the DueSubscriptions query.
//
// # Transfers
//
// The value movement itself is external. The engine calls a
// transfer.Adapter exactly once per due cycle and treats failure as
// terminal for the subscription (Lapsed); it never retries. Retry is
// the submitter's responsibility.
package recur
