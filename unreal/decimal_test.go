package unreal

import (
	"errors"
	"math/big"
	"testing"
)

func mustDecimal(t *testing.T, text string) Decimal {
	t.Helper()
	d, err := ParseDecimal(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return d
}

func requireDecimal(t *testing.T, got Decimal, want string) {
	t.Helper()
	if got.String() != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

// requireClose checks |got - want| < 10^-digits.
func requireClose(t *testing.T, ar *Arith, got Decimal, want string, digits int) {
	t.Helper()
	diff := ar.Sub(got, mustDecimal(t, want))
	if diff.Sign() < 0 {
		diff = diff.Neg()
	}
	tolerance := NewDecimal(big.NewInt(1), digits)
	if diff.Cmp(tolerance) >= 0 {
		t.Fatalf("got %s, want %s within 1e-%d", got, want, digits)
	}
}

func TestParseDecimalCanonicalForm(t *testing.T) {
	cases := map[string]string{
		"007.100": "7.1",
		"-0.50":   "-0.5",
		"0.000":   "0",
		"42":      "42",
		"-3":      "-3",
		".25":     "0.25",
	}
	for text, want := range cases {
		requireDecimal(t, mustDecimal(t, text), want)
	}
	for _, bad := range []string{"", "1.2.3", "abc", "-"} {
		if _, err := ParseDecimal(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestDecimalRendersSmallFractions(t *testing.T) {
	requireDecimal(t, NewDecimal(big.NewInt(5), 3), "0.005")
	requireDecimal(t, NewDecimal(big.NewInt(-5), 3), "-0.005")
	requireDecimal(t, NewDecimal(big.NewInt(1234), 2), "12.34")
}

func TestDecimalEqualityIsScaleSensitive(t *testing.T) {
	one := DecimalFromInt(1)
	onePointZero := NewDecimal(big.NewInt(10), 1)
	if one.Equal(onePointZero) {
		t.Fatalf("1 and 1.0 must not be equal")
	}
	if one.Cmp(onePointZero) != 0 {
		t.Fatalf("1 and 1.0 must compare as the same magnitude")
	}

	ar := NewArith(10, 30, 30)
	for _, op := range []TokenType{tokenEQ, tokenLT, tokenGTE} {
		got, err := BinaryOp(ar, op, NewNumber(one), NewNumber(onePointZero))
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		want := op == tokenGTE
		if got.Bool() != want {
			t.Fatalf("1 %s 1.0: got %v want %v", op, got.Bool(), want)
		}
	}
}

func TestArithBalancesScales(t *testing.T) {
	ar := NewArith(10, 30, 30)
	requireDecimal(t, ar.Add(mustDecimal(t, "1.5"), mustDecimal(t, "2.25")), "3.75")
	requireDecimal(t, ar.Sub(mustDecimal(t, "1"), mustDecimal(t, "0.5")), "0.5")
	requireDecimal(t, ar.Add(mustDecimal(t, "0.1"), mustDecimal(t, "0.9")), "1")
	requireDecimal(t, ar.Mul(mustDecimal(t, "1.5"), mustDecimal(t, "2")), "3")
	requireDecimal(t, ar.Mul(mustDecimal(t, "-0.2"), mustDecimal(t, "0.3")), "-0.06")
}

func TestArithDivision(t *testing.T) {
	ar := NewArith(4, 30, 30)
	cases := []struct {
		left, right, want string
	}{
		{"1", "4", "0.25"},
		{"1", "3", "0.3333"},
		{"-1", "3", "-0.3333"},
		{"2", "3", "0.6666"},
		{"7.5", "2.5", "3"},
	}
	for _, tc := range cases {
		got, err := ar.Div(mustDecimal(t, tc.left), mustDecimal(t, tc.right))
		if err != nil {
			t.Fatalf("%s / %s: %v", tc.left, tc.right, err)
		}
		requireDecimal(t, got, tc.want)
	}

	if _, err := ar.Div(DecimalFromInt(1), DecimalFromInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := ar.Rem(DecimalFromInt(1), DecimalFromInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero from Rem, got %v", err)
	}
}

func TestArithRemainderAndQuotient(t *testing.T) {
	ar := NewArith(10, 30, 30)
	rem, err := ar.Rem(mustDecimal(t, "7.5"), DecimalFromInt(2))
	if err != nil {
		t.Fatalf("rem: %v", err)
	}
	// Balanced magnitudes 75 % 20, with the scale cleared.
	requireDecimal(t, rem, "15")

	rem, _ = ar.Rem(mustDecimal(t, "0.5"), mustDecimal(t, "0.3"))
	requireDecimal(t, rem, "2")

	rem, _ = ar.Rem(DecimalFromInt(-7), DecimalFromInt(2))
	requireDecimal(t, rem, "-1")

	quo, err := ar.Quo(DecimalFromInt(-7), DecimalFromInt(2))
	if err != nil {
		t.Fatalf("quo: %v", err)
	}
	requireDecimal(t, quo, "-3")

	quo, _ = ar.Quo(mustDecimal(t, "7.9"), DecimalFromInt(2))
	requireDecimal(t, quo, "3")
}

func TestArithPower(t *testing.T) {
	ar := NewArith(40, 30, 30)
	cases := []struct {
		base, exponent, want string
	}{
		{"2", "10", "1024"},
		{"1.5", "2", "2.25"},
		{"2", "-2", "0.25"},
		{"10", "0", "1"},
		{"-3", "3", "-27"},
	}
	for _, tc := range cases {
		got, err := ar.Pow(mustDecimal(t, tc.base), mustDecimal(t, tc.exponent))
		if err != nil {
			t.Fatalf("%s ^ %s: %v", tc.base, tc.exponent, err)
		}
		requireDecimal(t, got, tc.want)
	}

	if _, err := ar.Pow(DecimalFromInt(0), DecimalFromInt(-1)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("0 ^ -1: expected ErrDivisionByZero, got %v", err)
	}
}

func TestArithFractionalPowerAndRoot(t *testing.T) {
	ar := NewArith(60, 30, 30)
	sqrt, err := ar.Pow(DecimalFromInt(4), mustDecimal(t, "0.5"))
	if err != nil {
		t.Fatalf("pow: %v", err)
	}
	requireClose(t, ar, sqrt, "2", 9)

	cube, err := ar.Root(DecimalFromInt(8), DecimalFromInt(3))
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireClose(t, ar, cube, "2", 6)

	if _, err := ar.Root(DecimalFromInt(8), DecimalFromInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("zeroth root: expected ErrDivisionByZero, got %v", err)
	}
}

func TestArithSeries(t *testing.T) {
	ar := NewArith(60, 30, 30)
	requireClose(t, ar, ar.Exp(DecimalFromInt(1)), "2.718281828459045", 12)
	requireClose(t, ar, ar.Ln(DecimalFromInt(2)), "0.693147180559945", 12)
	requireClose(t, ar, ar.Ln(DecimalFromInt(1)), "0", 12)
}

func TestArithPlaceLimitTruncates(t *testing.T) {
	ar := NewArith(3, 30, 30)
	got := ar.Mul(mustDecimal(t, "0.1234"), DecimalFromInt(1))
	requireDecimal(t, got, "0.123")
	if ar.Places() != 3 {
		t.Fatalf("places: got %d", ar.Places())
	}
}

func TestArithFactorial(t *testing.T) {
	ar := NewArith(10, 30, 30)
	requireDecimal(t, ar.Factorial(DecimalFromInt(5)), "120")
	requireDecimal(t, ar.Factorial(DecimalFromInt(0)), "1")
	requireDecimal(t, ar.Factorial(mustDecimal(t, "2.5")), "1")
}
