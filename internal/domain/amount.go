package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-float money value. It travels as a bare JSON number so the
// wire format stays compatible with clients that send plain numbers.
type Amount struct {
	d decimal.Decimal
}

func NewAmount(units int64) Amount {
	return Amount{d: decimal.NewFromInt(units)}
}

func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func AmountFromFloat(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v)}
}

func ParseAmount(raw string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q", raw)
	}
	return Amount{d: d}, nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

func (a Amount) String() string {
	return a.d.String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		a.d = decimal.Zero
		return nil
	}
	return a.d.UnmarshalJSON(trimmed)
}

// MarshalText and UnmarshalText let YAML form files carry amounts as scalars.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.d.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func amountOrZero(a *Amount) Amount {
	if a == nil {
		return Amount{}
	}
	return *a
}
