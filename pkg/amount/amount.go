// Package amount provides the integer token amount type used across the SDK.
// Amounts are held as arbitrary-precision integers in the smallest on-chain
// unit and cross the JSON boundary as decimal strings, never as native
// numbers, so no precision is lost in transit.
package amount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the number of decimal places of the loyalty token.
const Decimals = 18

// ErrInvalidAmount indicates an amount string could not be parsed.
var ErrInvalidAmount = errors.New("acc: invalid amount")

// Amount is an immutable token amount in the smallest on-chain unit.
type Amount struct {
	value *big.Int
}

// New wraps an integer value. The input is copied, nil means zero.
func New(value *big.Int) *Amount {
	if value == nil {
		return &Amount{value: new(big.Int)}
	}
	return &Amount{value: new(big.Int).Set(value)}
}

// Zero returns the zero amount.
func Zero() *Amount {
	return &Amount{value: new(big.Int)}
}

// FromString parses a base-10 integer string in the smallest unit.
func FromString(s string) (*Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return &Amount{value: v}, nil
}

// FromHumanString parses a human-readable decimal amount ("1.5") and shifts
// it by Decimals. Fractional digits beyond Decimals are rejected rather than
// silently truncated.
func FromHumanString(s string) (*Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	shifted := d.Shift(Decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, Decimals)
	}
	return &Amount{value: shifted.BigInt()}, nil
}

// Int returns a copy of the underlying integer value.
func (a *Amount) Int() *big.Int {
	return new(big.Int).Set(a.value)
}

// Human returns the amount shifted back to human-readable units.
func (a *Amount) Human() decimal.Decimal {
	return decimal.NewFromBigInt(a.value, 0).Shift(-Decimals)
}

// Cmp compares a against b, returning -1, 0 or 1.
func (a *Amount) Cmp(b *Amount) int {
	return a.value.Cmp(b.value)
}

// IsZero reports whether the amount is zero.
func (a *Amount) IsZero() bool {
	return a.value.Sign() == 0
}

// String returns the base-10 integer representation.
func (a *Amount) String() string {
	return a.value.String()
}

// MarshalJSON encodes the amount as a decimal string.
func (a *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.value.String() + `"`), nil
}

// UnmarshalJSON decodes a decimal string amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: expected decimal string, got %s", ErrInvalidAmount, data)
	}
	v, ok := new(big.Int).SetString(string(data[1:len(data)-1]), 10)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	a.value = v
	return nil
}
