package models

import (
	"encoding/json"
	"fmt"
)

// Money is a currency amount held as integer cents. All arithmetic stays in
// integer space; formatting to two decimals happens only at the boundary, so
// repeated additions never accumulate floating-point drift.
type Money struct {
	cents int64
}

// MoneyFromCents constructs a Money from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

// Cents returns the amount in integer cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Mul scales the amount by an integer factor (seat count or rental days).
func (m Money) Mul(n int64) Money {
	return Money{cents: m.cents * n}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// String formats the amount with exactly two decimal places, e.g. "137.97".
func (m Money) String() string {
	cents := m.cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON encodes the amount as a two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a two-decimal string ("45.99") or a bare integer of cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var units, cents int64
		if _, err := fmt.Sscanf(s, "%d.%02d", &units, &cents); err != nil {
			return fmt.Errorf("invalid money value %q", s)
		}
		if units < 0 {
			m.cents = units*100 - cents
		} else {
			m.cents = units*100 + cents
		}
		return nil
	}
	var raw int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid money value: %s", data)
	}
	m.cents = raw
	return nil
}
