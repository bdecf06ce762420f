package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestAmount_String(t *testing.T) {
	tests := []struct {
		scaled int64
		want   string
	}{
		{0, "0.0000"},
		{314, "0.0314"},
		{10000, "1.0000"},
		{-1, "-0.0001"},
		{-110023945800, "-11002394.5800"},
		{math.MaxInt64, "922337203685477.5807"},
		{math.MinInt64, "-922337203685477.5808"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NewAmount(tt.scaled).String(); got != tt.want {
				t.Errorf("NewAmount(%d).String() = %q, want %q", tt.scaled, got, tt.want)
			}
		})
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Amount
		want Amount
	}{
		{"sub", NewAmount(314).Sub(NewAmount(100)), NewAmount(214)},
		{"sub negative", NewAmount(314).Sub(NewAmount(-1100)), NewAmount(1414)},
		{"add", NewAmount(314).Add(NewAmount(100)), NewAmount(414)},
		{"add zero", NewAmount(7).Add(ZeroAmount()), NewAmount(7)},
		{"neg", NewAmount(314).Neg(), NewAmount(-314)},
		{"zero", ZeroAmount(), NewAmount(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestAmount_Sign(t *testing.T) {
	if !NewAmount(-1).IsNegative() {
		t.Error("expected -0.0001 to be negative")
	}
	if NewAmount(1).IsNegative() || ZeroAmount().IsNegative() {
		t.Error("expected 0.0001 and zero to be non-negative")
	}
	if !ZeroAmount().IsZero() {
		t.Error("expected zero amount to be zero")
	}

	if got := NewAmount(1).Cmp(NewAmount(2)); got != -1 {
		t.Errorf("Cmp less = %d, want -1", got)
	}
	if got := NewAmount(2).Cmp(NewAmount(2)); got != 0 {
		t.Errorf("Cmp equal = %d, want 0", got)
	}
	if got := NewAmount(3).Cmp(NewAmount(2)); got != 1 {
		t.Errorf("Cmp greater = %d, want 1", got)
	}
}

func TestAmount_CheckedArithmetic(t *testing.T) {
	tests := []struct {
		name        string
		op          func() (Amount, error)
		want        Amount
		expectError bool
	}{
		{
			name: "add mixed signs",
			op:   func() (Amount, error) { return NewAmount(-5).CheckedAdd(NewAmount(3)) },
			want: NewAmount(-2),
		},
		{
			name: "sub below zero",
			op:   func() (Amount, error) { return NewAmount(5).CheckedSub(NewAmount(8)) },
			want: NewAmount(-3),
		},
		{
			name: "sub reaching min",
			op:   func() (Amount, error) { return NewAmount(-1).CheckedSub(NewAmount(math.MaxInt64)) },
			want: NewAmount(math.MinInt64),
		},
		{
			name:        "add past max",
			op:          func() (Amount, error) { return NewAmount(math.MaxInt64).CheckedAdd(NewAmount(1)) },
			expectError: true,
		},
		{
			name:        "add past min",
			op:          func() (Amount, error) { return NewAmount(math.MinInt64).CheckedAdd(NewAmount(-1)) },
			expectError: true,
		},
		{
			name:        "sub past min",
			op:          func() (Amount, error) { return NewAmount(math.MinInt64).CheckedSub(NewAmount(1)) },
			expectError: true,
		},
		{
			name:        "sub past max",
			op:          func() (Amount, error) { return NewAmount(math.MaxInt64).CheckedSub(NewAmount(-1)) },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()

			if tt.expectError {
				if !errors.Is(err, ErrAmountOverflow) {
					t.Errorf("expected ErrAmountOverflow, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseAmountWithRounding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rounding Rounding
		want     int64
		wantErr  error
	}{
		{name: "integer", input: "3", rounding: RoundingHalfEven, want: 30000},
		{name: "fraction", input: "1.5", rounding: RoundingHalfEven, want: 15000},
		{name: "surrounding spaces", input: "  2.0 ", rounding: RoundingHalfEven, want: 20000},
		{name: "negative", input: "-0.0001", rounding: RoundingHalfEven, want: -1},
		{name: "exact scale", input: "0.1234", rounding: RoundingReject, want: 1234},
		{name: "trailing zeros accepted by reject", input: "1.000000", rounding: RoundingReject, want: 10000},
		{name: "half even rounds tie to even", input: "0.12345", rounding: RoundingHalfEven, want: 1234},
		{name: "half even rounds tie up to even", input: "0.12355", rounding: RoundingHalfEven, want: 1236},
		{name: "half even rounds above half", input: "0.12346", rounding: RoundingHalfEven, want: 1235},
		{name: "truncate drops digits", input: "0.12349", rounding: RoundingTruncate, want: 1234},
		{name: "truncate toward zero", input: "-0.12349", rounding: RoundingTruncate, want: -1234},
		{name: "reject excess digits", input: "0.12345", rounding: RoundingReject, wantErr: ErrExcessPrecision},
		{name: "garbage", input: "garbage", rounding: RoundingHalfEven, wantErr: ErrInvalidAmount},
		{name: "empty", input: "", rounding: RoundingHalfEven, wantErr: ErrInvalidAmount},
		{name: "too large", input: "1000000000000000", rounding: RoundingHalfEven, wantErr: ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountWithRounding(tt.input, tt.rounding)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if parseErr.Input != tt.input {
					t.Errorf("ParseError.Input = %q, want %q", parseErr.Input, tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != NewAmount(tt.want) {
				t.Errorf("got %s, want %s", got, NewAmount(tt.want))
			}
		})
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 314, 10000, -110023945800, 123456789, math.MaxInt64, math.MinInt64}

	for _, v := range values {
		a := NewAmount(v)

		parsed, err := ParseAmount(a.String())
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error: %v", a, err)
			continue
		}
		if parsed != a {
			t.Errorf("round trip of %d = %s, want %s", v, parsed, a)
		}
	}
}

func TestParseRounding(t *testing.T) {
	tests := []struct {
		input       string
		want        Rounding
		expectError bool
	}{
		{input: "REJECT", want: RoundingReject},
		{input: " truncate ", want: RoundingTruncate},
		{input: "", want: DefaultRounding},
		{input: "ceiling", expectError: true},
	}

	for _, tt := range tests {
		got, err := ParseRounding(tt.input)

		if tt.expectError {
			if err == nil {
				t.Errorf("ParseRounding(%q): expected error, got nil", tt.input)
			}
			continue
		}

		if err != nil {
			t.Errorf("ParseRounding(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRounding(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAmount_TextMarshaling(t *testing.T) {
	out, err := json.Marshal(struct {
		Value Amount `json:"value"`
	}{Value: NewAmount(15000)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"value":"1.5000"}` {
		t.Errorf("unexpected json: %s", out)
	}

	var in struct {
		Value Amount `json:"value"`
	}
	if err := json.Unmarshal([]byte(`{"value":"-2.25"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Value != NewAmount(-22500) {
		t.Errorf("unmarshaled %s, want -2.2500", in.Value)
	}

	err = json.Unmarshal([]byte(`{"value":"0.00001"}`), &in)
	if !errors.Is(err, ErrExcessPrecision) {
		t.Errorf("expected ErrExcessPrecision, got %v", err)
	}
}
