package lob

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/lobster/wire"
)

// Money is a non-negative amount in cents.
type Money uint64

// NewMoney combines dollars and cents. Cents above 99 carry into dollars.
// A total beyond the uint64 range saturates at math.MaxUint64 cents.
func NewMoney(dollars, cents uint64) Money {
	hi, lo := bits.Mul64(dollars, 100)
	if hi != 0 {
		return Money(math.MaxUint64)
	}
	sum, carry := bits.Add64(lo, cents, 0)
	if carry != 0 {
		return Money(math.MaxUint64)
	}
	return Money(sum)
}

// Cents returns an amount of c cents.
func Cents(c uint64) Money {
	return Money(c)
}

// MoneyFromFloat multiplies by 100 and truncates toward zero, so 10.005
// becomes 1000 cents. Negative and NaN inputs give zero.
func MoneyFromFloat(dollars float64) Money {
	cents := dollars * 100
	if math.IsNaN(cents) || cents <= 0 {
		return 0
	}
	if cents >= math.MaxUint64 {
		return Money(math.MaxUint64)
	}
	return Money(cents)
}

// MoneyFromDecimal rounds to the nearest cent, half away from zero.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("money cannot be negative: %s", d)
	}
	cents := d.Round(2).Shift(2)
	if !cents.BigInt().IsUint64() {
		return 0, fmt.Errorf("money out of range: %s", d)
	}
	return Money(cents.BigInt().Uint64()), nil
}

// ParseMoney parses "12", "12.3" or "12.34". More than two fractional
// digits is an error rather than a silent rounding.
func ParseMoney(s string) (Money, error) {
	fail := func(err error) (Money, error) {
		return 0, &wire.DecodeError{Value: s, Type: "money", Err: err}
	}

	major, minor, hasPoint := strings.Cut(s, ".")
	dollars, err := strconv.ParseUint(major, 10, 64)
	if err != nil {
		return fail(err)
	}
	if dollars > math.MaxUint64/100-1 {
		return fail(errors.New("amount out of range"))
	}

	var cents uint64
	if hasPoint && minor != "" {
		if len(minor) > 2 {
			return fail(errors.New("more than two fractional digits"))
		}
		cents, err = strconv.ParseUint(minor, 10, 64)
		if err != nil {
			return fail(err)
		}
		if len(minor) == 1 {
			cents *= 10
		}
	}
	return NewMoney(dollars, cents), nil
}

// Cents returns the amount in cents.
func (m Money) Cents() uint64 {
	return uint64(m)
}

// Split returns the dollar and cent parts.
func (m Money) Split() (dollars, cents uint64) {
	return uint64(m) / 100, uint64(m) % 100
}

// String renders the canonical "dollars.cents" form, e.g. "10.05".
func (m Money) String() string {
	dollars, cents := m.Split()
	return fmt.Sprintf("%d.%02d", dollars, cents)
}

// Decimal returns the amount in dollars.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// MarshalJSON encodes the amount as a bare number literal.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON parses a number literal with the ParseMoney rules. Quoted
// strings are rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return &wire.DecodeError{Value: string(data), Type: "money", Err: errors.New("expected a number literal")}
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &wire.DecodeError{Value: string(data), Type: "money", Err: err}
	}
	v, err := ParseMoney(n.String())
	if err != nil {
		return err
	}
	*m = v
	return nil
}
