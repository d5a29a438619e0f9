package value_test

import (
	"errors"
	"testing"

	"github.com/agenthands/tiparm/pkg/core/value"
)

type named struct{}

func (named) String() string { return "named" }

func TestValueFromAny(t *testing.T) {
	tests := []struct {
		arg  any
		want string
	}{
		{nil, ""},
		{5, "5"},
		{int8(-3), "-3"},
		{uint16(40), "40"},
		{uint64(18446744073709551615), "18446744073709551615"},
		{int64(-9), "-9"},
		{true, "1"},
		{false, "0"},
		{"abc", "abc"},
		{[]byte("xy"), "xy"},
		{2.5, "2.5"},
		{named{}, "named"},
		{value.FromString("kept"), "kept"},
		{struct{ A int }{1}, "{1}"},
	}
	for _, tt := range tests {
		if got := value.FromAny(tt.arg).Text; got != tt.want {
			t.Errorf("FromAny(%#v) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestValueInt(t *testing.T) {
	i, err := value.FromString("-42").Int()
	if err != nil || i != -42 {
		t.Fatalf("expected -42, got %d (%v)", i, err)
	}

	_, err = value.FromString("4x").Int()
	if !errors.Is(err, value.ErrNotInteger) {
		t.Errorf("expected ErrNotInteger, got %v", err)
	}

	if value.FromString(" 1").IsInt() {
		t.Errorf("surrounding spaces must not parse")
	}
}

func TestValueTruthy(t *testing.T) {
	cases := map[string]bool{
		"":    false,
		"0":   false,
		"-0":  false,
		"1":   true,
		"-1":  true,
		"abc": true,
	}
	for text, want := range cases {
		if got := value.FromString(text).Truthy(); got != want {
			t.Errorf("Truthy(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestValueFraction(t *testing.T) {
	if n, ok := value.FromString("3.25").Fraction(); !ok || n != 2 {
		t.Errorf("expected 2 fractional digits, got %d %v", n, ok)
	}
	if _, ok := value.FromString("3").Fraction(); ok {
		t.Errorf("integer text has no fraction")
	}
	if _, ok := value.FromString("1e5").Fraction(); ok {
		t.Errorf("exponent form is not a plain decimal")
	}
	if got := value.FromString("héllo").Len(); got != 5 {
		t.Errorf("expected rune count 5, got %d", got)
	}
}
