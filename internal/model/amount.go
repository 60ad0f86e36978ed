package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// Amount is a non-negative currency value with two fractional digits.
type Amount struct {
	d decimal.Decimal
}

// ParseAmount reads an inbound amount such as "100.00" or "3".
// Signs, exponents and more than two fractional digits are rejected.
func ParseAmount(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	if !amountPattern.MatchString(s) {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, raw, err)
	}
	return Amount{d: d.Round(2)}, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(raw string) Amount {
	a, err := ParseAmount(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Sub(b Amount) decimal.Decimal { return a.d.Sub(b.d) }

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsZero() bool { return a.d.IsZero() }

// String formats the amount as used in messages, e.g. "4300.00".
func (a Amount) String() string { return a.d.StringFixed(2) }

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
