package types

import (
	"encoding/json"
	"testing"
)

func TestCoinConstructors(t *testing.T) {
	tests := []struct {
		name   string
		coin   Coin
		amount int64
		denom  string
		str    string
	}{
		{"basic", NewCoin(100, "ucro"), 100, "ucro", "100ucro"},
		{"uppercase denom folded", NewCoin(4900, "UATOM"), 4900, "uatom", "4900uatom"},
		{"zero", ZeroOf("ucro"), 0, "ucro", "0ucro"},
		{"negative", NewCoin(-5, "ucro"), -5, "ucro", "-5ucro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.coin.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.coin.Amount, tt.amount)
			}
			if tt.coin.Denom != tt.denom {
				t.Errorf("Denom: got %s, want %s", tt.coin.Denom, tt.denom)
			}
			if tt.coin.String() != tt.str {
				t.Errorf("String: got %s, want %s", tt.coin.String(), tt.str)
			}
		})
	}
}

func TestCoinArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Coin
		expected Coin
	}{
		{"Add", func() Coin { return NewCoin(100, "ucro").Add(NewCoin(200, "ucro")) }, NewCoin(300, "ucro")},
		{"Subtract", func() Coin { return NewCoin(500, "ucro").Subtract(NewCoin(200, "ucro")) }, NewCoin(300, "ucro")},
		{"Multiply", func() Coin { return NewCoin(100, "ucro").Multiply(3) }, NewCoin(300, "ucro")},
		{"Complex", func() Coin {
			return NewCoin(1000, "ucro").Add(NewCoin(500, "ucro")).Multiply(2).Subtract(NewCoin(1000, "ucro"))
		}, NewCoin(2000, "ucro")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCoinComparison(t *testing.T) {
	a := NewCoin(100, "ucro")
	b := NewCoin(200, "ucro")

	if !a.LessThan(b) {
		t.Error("100 should be less than 200")
	}
	if !b.GreaterThan(a) {
		t.Error("200 should be greater than 100")
	}
	if !b.GTE(a) || !b.GTE(b) {
		t.Error("GTE failed")
	}
	if a.Equal(b) {
		t.Error("different amounts should not be equal")
	}
	if !a.SameDenom(b) {
		t.Error("same denom expected")
	}
	if a.SameDenom(NewCoin(100, "uatom")) {
		t.Error("different denom expected")
	}
}

func TestCoinDenomMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for denom mismatch")
		}
	}()

	_ = NewCoin(100, "ucro").Add(NewCoin(100, "uatom"))
}

func TestParseCoin(t *testing.T) {
	tests := []struct {
		in      string
		want    Coin
		wantErr bool
	}{
		{"100ucro", NewCoin(100, "ucro"), false},
		{"-5ucro", NewCoin(-5, "ucro"), false},
		{"0uatom", ZeroOf("uatom"), false},
		{"ucro", Coin{}, true},
		{"100", Coin{}, true},
		{"", Coin{}, true},
		{"-", Coin{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoin(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoinJSONRoundTrip(t *testing.T) {
	orig := NewCoin(9223372036854775807, "ucro")

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed Coin
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(orig) {
		t.Errorf("round trip mismatch: got %v, want %v", parsed, orig)
	}
}

func TestSum(t *testing.T) {
	got := Sum(NewCoin(1, "ucro"), NewCoin(2, "ucro"), NewCoin(3, "ucro"))
	if !got.Equal(NewCoin(6, "ucro")) {
		t.Errorf("got %v, want 6ucro", got)
	}

	if !Sum().IsZero() {
		t.Error("empty sum should be zero")
	}
}

func TestEntityTimestamps(t *testing.T) {
	e := NewEntityAt(1000)
	if e.CreatedAt != 1000 || e.UpdatedAt != 1000 {
		t.Errorf("got created=%d updated=%d, want both 1000", e.CreatedAt, e.UpdatedAt)
	}

	e.TouchAt(2000)
	if e.CreatedAt != 1000 {
		t.Error("TouchAt must not change CreatedAt")
	}
	if e.UpdatedAt != 2000 {
		t.Errorf("got updated=%d, want 2000", e.UpdatedAt)
	}
}
