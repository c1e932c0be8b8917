package recur

import (
	"errors"
	"fmt"

	"github.com/xraph/recur/transfer"
)

// Sentinel errors for common failure scenarios. Every error is reported
// synchronously to the transaction submitter; the enclosing host
// transaction rolls back with no partial state change.
var (
	// General errors
	ErrNotFound         = errors.New("recur: not found")
	ErrInvalidParameter = errors.New("recur: invalid parameter")
	ErrUnauthorized     = errors.New("recur: unauthorized")
	ErrConflict         = errors.New("recur: already exists")
	ErrInvalidState     = errors.New("recur: invalid lifecycle state")

	// Plan errors
	ErrPlanNotFound       = errors.New("recur: plan not found")
	ErrPlanInactive       = errors.New("recur: plan is inactive")
	ErrTitleTooLong       = errors.New("recur: plan title too long")
	ErrDescriptionTooLong = errors.New("recur: plan description too long")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("recur: subscription not found")
	ErrSubscriptionExists   = errors.New("recur: subscription already exists")
	ErrSubscriptionExpired  = errors.New("recur: subscription expired")
	ErrInvalidExpiry        = errors.New("recur: invalid expiry")

	// Billing errors
	ErrAuthorizationExceeded = errors.New("recur: authorized spend exceeded")
	ErrPaymentFailed         = errors.New("recur: payment failed")
	ErrDenomMismatch         = errors.New("recur: coin denom mismatch")

	// ErrInsufficientFunds re-exports the transfer sentinel so callers
	// can classify every billing failure from this package alone.
	ErrInsufficientFunds = transfer.ErrInsufficientFunds

	// Store errors
	ErrStoreClosed     = errors.New("recur: store is closed")
	ErrMigrationFailed = errors.New("recur: migration failed")
)

// ValidationError represents a validation failure with details.
// It unwraps to ErrInvalidParameter so callers can classify it with
// errors.Is without inspecting the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("recur: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap makes errors.Is(err, ErrInvalidParameter) hold.
func (e ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// IsNotFound returns true if the error indicates an absent entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound)
}

// IsUnauthorized returns true if the caller lacks permission for the
// requested operation.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalidParameter returns true for malformed input rejected before
// any state change.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrInvalidExpiry)
}

// IsBillingFailure returns true if the error terminated a subscription
// during a billing attempt.
func IsBillingFailure(err error) bool {
	return errors.Is(err, ErrAuthorizationExceeded) ||
		errors.Is(err, ErrPaymentFailed) ||
		errors.Is(err, ErrInsufficientFunds)
}
