package recur

// Env carries the host-provided block context for one transaction.
// All billing decisions derive from Env, never from the wall clock, so
// every replica executing the same transaction against the same prior
// state computes the identical result.
type Env struct {
	// Time is the block timestamp in unix seconds.
	Time int64
	// Height is the block height the transaction executes at.
	Height uint64
}
