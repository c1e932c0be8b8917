package recur

import "github.com/xraph/recur/types"

// Re-export common types for convenience so users don't have to import
// the types package.

// Coin is re-exported from the types package.
type Coin = types.Coin

// Entity is re-exported from the types package.
type Entity = types.Entity

// Re-export Coin constructors
var (
	NewCoin = types.NewCoin
	ZeroOf  = types.ZeroOf
)
