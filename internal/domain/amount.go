package domain

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount carries.
const Scale = 4

var (
	ErrInvalidAmount    = errors.New("invalid decimal amount")
	ErrExcessPrecision  = errors.New("amount has more than 4 fractional digits")
	ErrAmountOutOfRange = errors.New("amount out of range")
	ErrAmountOverflow   = errors.New("amount arithmetic overflow")
)

var (
	maxScaled = decimal.NewFromInt(math.MaxInt64)
	minScaled = decimal.NewFromInt(math.MinInt64)
)

// Rounding selects how ParseAmountWithRounding treats digits beyond Scale.
type Rounding string

const (
	RoundingHalfEven Rounding = "half_even"
	RoundingReject   Rounding = "reject"
	RoundingTruncate Rounding = "truncate"
)

// DefaultRounding is used by ParseAmount.
const DefaultRounding = RoundingHalfEven

// ParseRounding parses a rounding policy name.
func ParseRounding(s string) (Rounding, error) {
	switch r := Rounding(strings.ToLower(strings.TrimSpace(s))); r {
	case RoundingHalfEven, RoundingReject, RoundingTruncate:
		return r, nil
	case "":
		return DefaultRounding, nil
	default:
		return "", fmt.Errorf("unknown rounding policy %q", s)
	}
}

// ParseError is returned when text cannot be turned into an Amount.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse amount %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Amount is a signed fixed-point decimal with Scale fractional digits,
// stored as an integer count of 10^-4 units.
type Amount struct {
	value int64
}

// NewAmount returns the amount scaled/10^4.
func NewAmount(scaled int64) Amount {
	return Amount{value: scaled}
}

// ZeroAmount returns the additive identity.
func ZeroAmount() Amount {
	return Amount{}
}

// ParseAmount parses a decimal string using DefaultRounding.
func ParseAmount(s string) (Amount, error) {
	return ParseAmountWithRounding(s, DefaultRounding)
}

// ParseAmountWithRounding parses a decimal string, applying rounding to any
// digits past Scale.
func ParseAmountWithRounding(s string, rounding Rounding) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, &ParseError{Input: s, Err: fmt.Errorf("%w: %v", ErrInvalidAmount, err)}
	}

	switch rounding {
	case RoundingReject:
		if !d.Equal(d.Truncate(Scale)) {
			return Amount{}, &ParseError{Input: s, Err: ErrExcessPrecision}
		}
	case RoundingTruncate:
		d = d.Truncate(Scale)
	case RoundingHalfEven, "":
		d = d.RoundBank(Scale)
	default:
		return Amount{}, &ParseError{Input: s, Err: fmt.Errorf("unknown rounding policy %q", rounding)}
	}

	scaled := d.Shift(Scale)
	if scaled.GreaterThan(maxScaled) || scaled.LessThan(minScaled) {
		return Amount{}, &ParseError{Input: s, Err: ErrAmountOutOfRange}
	}

	return Amount{value: scaled.IntPart()}, nil
}

// Add returns a+b. It wraps on int64 overflow; use CheckedAdd when the
// operands are not known to be small.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value + b.value}
}

// Sub returns a-b with the same overflow caveat as Add.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value - b.value}
}

// CheckedAdd returns a+b or ErrAmountOverflow.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a.value + b.value
	// Overflow iff both operands share a sign that the result does not.
	if (a.value >= 0) == (b.value >= 0) && (sum >= 0) != (a.value >= 0) {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{value: sum}, nil
}

// CheckedSub returns a-b or ErrAmountOverflow.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	diff := a.value - b.value
	if (a.value >= 0) != (b.value >= 0) && (diff >= 0) != (a.value >= 0) {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{value: diff}, nil
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{value: -a.value}
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.value < 0
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.value == 0
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	default:
		return 0
	}
}

// String renders a with exactly Scale fractional digits, e.g. -11002394.5800.
func (a Amount) String() string {
	neg := a.value < 0
	u := uint64(a.value)
	if neg {
		u = -u
	}
	whole, frac := bits.Div64(0, u, 10000)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	fmt.Fprintf(&b, "%d.%04d", whole, frac)
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Text with more than
// Scale fractional digits is rejected.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmountWithRounding(string(text), RoundingReject)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
