// Package types provides common types used across Recur.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Coin represents an amount of a single ledger-native denomination in
// its smallest unit. All arithmetic is integer-only, never floating
// point, so every replica computes identical results.
//
// Examples:
//   - NewCoin(100, "ucro") = 100 base units of ucro
//   - NewCoin(4900, "uatom") = 4900 base units of uatom
type Coin struct {
	Amount int64  `json:"amount,string"` // Smallest unit; string-encoded in JSON to survive lossy decoders
	Denom  string `json:"denom"`         // Lowercase denomination, e.g. "ucro"
}

// NewCoin creates a Coin value.
func NewCoin(amount int64, denom string) Coin {
	return Coin{Amount: amount, Denom: strings.ToLower(denom)}
}

// ZeroOf returns a zero Coin value in the specified denomination.
func ZeroOf(denom string) Coin { return Coin{Amount: 0, Denom: strings.ToLower(denom)} }

// Arithmetic operations

// Add adds two Coin values. Panics if denominations don't match.
func (c Coin) Add(other Coin) Coin {
	c.assertSameDenom(other)
	return Coin{Amount: c.Amount + other.Amount, Denom: c.Denom}
}

// Subtract subtracts another Coin value. Panics if denominations don't match.
func (c Coin) Subtract(other Coin) Coin {
	c.assertSameDenom(other)
	return Coin{Amount: c.Amount - other.Amount, Denom: c.Denom}
}

// Multiply multiplies the Coin by a quantity.
func (c Coin) Multiply(qty int64) Coin {
	return Coin{Amount: c.Amount * qty, Denom: c.Denom}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (c Coin) IsZero() bool { return c.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool { return c.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (c Coin) IsNegative() bool { return c.Amount < 0 }

// Equal returns true if both Coin values are equal (same amount and denom).
func (c Coin) Equal(other Coin) bool {
	return c.Amount == other.Amount && c.Denom == other.Denom
}

// SameDenom returns true if both Coins share a denomination.
func (c Coin) SameDenom(other Coin) bool {
	return c.Denom == other.Denom
}

// LessThan returns true if this Coin is less than other. Panics if
// denominations don't match.
func (c Coin) LessThan(other Coin) bool {
	c.assertSameDenom(other)
	return c.Amount < other.Amount
}

// GreaterThan returns true if this Coin is greater than other. Panics
// if denominations don't match.
func (c Coin) GreaterThan(other Coin) bool {
	c.assertSameDenom(other)
	return c.Amount > other.Amount
}

// GTE returns true if this Coin is greater than or equal to other.
// Panics if denominations don't match.
func (c Coin) GTE(other Coin) bool {
	c.assertSameDenom(other)
	return c.Amount >= other.Amount
}

// String renders the coin in the canonical "<amount><denom>" form,
// e.g. "100ucro".
func (c Coin) String() string {
	return fmt.Sprintf("%d%s", c.Amount, c.Denom)
}

// ParseCoin parses the canonical "<amount><denom>" form produced by
// String. The denom must start with a letter.
func ParseCoin(s string) (Coin, error) {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || (i == 1 && s[0] == '-') || i == len(s) {
		return Coin{}, fmt.Errorf("types: parse coin %q: expected <amount><denom>", s)
	}

	var amount int64
	if _, err := fmt.Sscanf(s[:i], "%d", &amount); err != nil {
		return Coin{}, fmt.Errorf("types: parse coin %q: %w", s, err)
	}
	return NewCoin(amount, s[i:]), nil
}

// MarshalJSON implements json.Marshaler.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount string `json:"amount"`
		Denom  string `json:"denom"`
	}{
		Amount: fmt.Sprintf("%d", c.Amount),
		Denom:  c.Denom,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coin) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount string `json:"amount"`
		Denom  string `json:"denom"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var amount int64
	if _, err := fmt.Sscanf(raw.Amount, "%d", &amount); err != nil {
		return fmt.Errorf("types: unmarshal coin amount %q: %w", raw.Amount, err)
	}

	*c = NewCoin(amount, raw.Denom)
	return nil
}

// assertSameDenom panics if denominations don't match.
func (c Coin) assertSameDenom(other Coin) {
	if c.Denom != other.Denom {
		panic(fmt.Sprintf("coin: denom mismatch: %s != %s", c.Denom, other.Denom))
	}
}

// Sum calculates the sum of multiple Coin values. All must share a
// denomination.
func Sum(values ...Coin) Coin {
	if len(values) == 0 {
		return Coin{}
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
