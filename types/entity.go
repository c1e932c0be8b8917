package types

// Entity is the base type for persisted Recur entities.
// Timestamps are unix seconds taken from the host-provided block time,
// never from the wall clock, so replayed transactions produce
// byte-identical records on every replica.
type Entity struct {
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewEntityAt creates a new Entity stamped with the given block time.
func NewEntityAt(blockTime int64) Entity {
	return Entity{
		CreatedAt: blockTime,
		UpdatedAt: blockTime,
	}
}

// TouchAt updates the UpdatedAt timestamp to the given block time.
func (e *Entity) TouchAt(blockTime int64) {
	e.UpdatedAt = blockTime
}
