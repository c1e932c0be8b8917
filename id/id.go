// Package id defines TypeID-based identity types for Recur entities.
//
// Every entity uses a single ID struct with a prefix that identifies
// the entity type. IDs are K-sortable, URL-safe in the format
// "prefix_suffix", and derived rather than generated: the TypeID
// payload is (block time, sequence number), never the wall clock or a
// random source, so every replica executing the same transaction
// assigns the same identifier.
//
// Plan IDs are assigned by the engine at creation and are opaque to
// callers. Subscriptions are keyed by the (plan ID, subscriber) pair
// and do not carry their own TypeID; see the subscription package.
package id

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Recur entity types.
const (
	PrefixPlan         Prefix = "plan" // Subscription plan
	PrefixBillingEvent Prefix = "bevt" // Emitted billing event
)

// ID is the primary identifier type for Recur entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// NewAt derives an ID from the block time and a sequence number. The
// 16-byte payload is (blockTime, seq) big-endian, so IDs sort by
// creation order and two IDs collide only if both inputs match. The
// sequence must come from persisted state (store.Store.NextSeq), never
// from a process-local counter, or replicas diverge.
// It panics if prefix is not a valid TypeID prefix (programming error).
func NewAt(prefix Prefix, blockTime int64, seq uint64) ID {
	var payload [16]byte
	binary.BigEndian.PutUint64(payload[:8], uint64(blockTime))
	binary.BigEndian.PutUint64(payload[8:], seq)

	tid, err := typeid.FromBytes(string(prefix), payload[:])
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "plan_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// PlanID is a type-safe identifier for plans (prefix: "plan").
type PlanID = ID

// BillingEventID is a type-safe identifier for billing events (prefix: "bevt").
type BillingEventID = ID

// ──────────────────────────────────────────────────
// Convenience constructors and parsers
// ──────────────────────────────────────────────────

// NewPlanIDAt derives a plan ID from the block time and the persisted
// plan sequence.
func NewPlanIDAt(blockTime int64, seq uint64) ID { return NewAt(PrefixPlan, blockTime, seq) }

// NewBillingEventIDAt derives a billing event ID from the block time
// and the persisted event sequence.
func NewBillingEventIDAt(blockTime int64, seq uint64) ID {
	return NewAt(PrefixBillingEvent, blockTime, seq)
}

// ParsePlanID parses a string and validates the "plan" prefix.
func ParsePlanID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPlan) }

// ParseBillingEventID parses a string and validates the "bevt" prefix.
func ParseBillingEventID(s string) (ID, error) { return ParseWithPrefix(s, PrefixBillingEvent) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
