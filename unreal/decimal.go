package unreal

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrDivisionByZero is returned by the arithmetic engine for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTen  = big.NewInt(10)
)

// Decimal is a fixed-point number: unscaled / 10^scale. Values produced by
// the arithmetic engine are canonical (no trailing fractional zeros), but a
// Decimal built with NewDecimal keeps whatever scale it was given, and
// equality is sensitive to it.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

// NewDecimal builds a decimal from an unscaled magnitude and scale as given.
func NewDecimal(unscaled *big.Int, scale int) Decimal {
	if scale < 0 {
		scale = 0
	}
	return Decimal{unscaled: new(big.Int).Set(unscaled), scale: scale}
}

// DecimalFromInt builds an integral decimal.
func DecimalFromInt(n int64) Decimal {
	return Decimal{unscaled: big.NewInt(n), scale: 0}
}

// ParseDecimal reads an optionally signed decimal literal and returns it in
// canonical form.
func ParseDecimal(text string) (Decimal, error) {
	s := strings.TrimSpace(text)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return Decimal{}, fmt.Errorf("invalid decimal %q", text)
	}
	for _, r := range intPart + fracPart {
		if !isDigit(r) {
			return Decimal{}, fmt.Errorf("invalid decimal %q", text)
		}
	}
	fracPart = strings.TrimRight(fracPart, "0")
	digits := strings.TrimLeft(intPart+fracPart, "0")
	if digits == "" {
		return Decimal{unscaled: new(big.Int), scale: 0}, nil
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal %q", text)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return Decimal{unscaled: unscaled, scale: len(fracPart)}, nil
}

func (d Decimal) int() *big.Int {
	if d.unscaled == nil {
		return bigZero
	}
	return d.unscaled
}

// Scale reports the number of fractional digits.
func (d Decimal) Scale() int { return d.scale }

// Unscaled returns a copy of the unscaled magnitude.
func (d Decimal) Unscaled() *big.Int { return new(big.Int).Set(d.int()) }

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int { return d.int().Sign() }

// IsInt reports whether the decimal has no fractional digits.
func (d Decimal) IsInt() bool { return d.scale == 0 }

// Int64 returns the integral value when the decimal has no fraction and fits.
func (d Decimal) Int64() (int64, bool) {
	if d.scale != 0 || !d.int().IsInt64() {
		return 0, false
	}
	return d.int().Int64(), true
}

// Equal compares magnitude and scale without balancing: 1 and 1.0 differ.
func (d Decimal) Equal(other Decimal) bool {
	return d.scale == other.scale && d.int().Cmp(other.int()) == 0
}

// Cmp compares numerically after balancing scales.
func (d Decimal) Cmp(other Decimal) int {
	l, r, _ := balance(d, other)
	return l.Cmp(r)
}

func (d Decimal) Neg() Decimal {
	return Decimal{unscaled: new(big.Int).Neg(d.int()), scale: d.scale}
}

// String renders the canonical text form: sign, integer digits, and the
// fraction when the scale is non-zero.
func (d Decimal) String() string {
	digits := new(big.Int).Abs(d.int()).String()
	if d.scale > 0 {
		if len(digits) <= d.scale {
			digits = strings.Repeat("0", d.scale-len(digits)+1) + digits
		}
		cut := len(digits) - d.scale
		digits = digits[:cut] + "." + digits[cut:]
	}
	if d.int().Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// balance aligns both magnitudes to the larger scale.
func balance(left, right Decimal) (*big.Int, *big.Int, int) {
	l := new(big.Int).Set(left.int())
	r := new(big.Int).Set(right.int())
	switch {
	case left.scale > right.scale:
		r.Mul(r, pow10(left.scale-right.scale))
		return l, r, left.scale
	case right.scale > left.scale:
		l.Mul(l, pow10(right.scale-left.scale))
		return l, r, right.scale
	default:
		return l, r, left.scale
	}
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// Arith performs decimal arithmetic with a fixed fractional precision and
// fixed series lengths for logarithms and exponentials.
type Arith struct {
	places        int
	lnIterations  int
	expIterations int
	ln10          Decimal

	// maxLength bounds the results of string and list repetition.
	maxLength int
}

// NewArith prepares an engine and precomputes ln(10) with the same series
// used for Ln.
func NewArith(places, lnIterations, expIterations int) *Arith {
	a := &Arith{places: places, lnIterations: lnIterations, expIterations: expIterations, maxLength: defaultMaxSequenceLength}
	a.ln10 = a.atanhSeries(DecimalFromInt(10))
	return a
}

// Places reports the fractional digit limit.
func (a *Arith) Places() int { return a.places }

// normalize truncates beyond the place limit and strips trailing fractional
// zeros.
func (a *Arith) normalize(v *big.Int, scale int) Decimal {
	v = new(big.Int).Set(v)
	if scale > a.places {
		v.Quo(v, pow10(scale-a.places))
		scale = a.places
	}
	if v.Sign() == 0 {
		return Decimal{unscaled: v, scale: 0}
	}
	rem := new(big.Int)
	q := new(big.Int)
	for scale > 0 {
		q.QuoRem(v, bigTen, rem)
		if rem.Sign() != 0 {
			break
		}
		v.Set(q)
		scale--
	}
	return Decimal{unscaled: v, scale: scale}
}

func (a *Arith) Add(left, right Decimal) Decimal {
	l, r, scale := balance(left, right)
	return a.normalize(l.Add(l, r), scale)
}

func (a *Arith) Sub(left, right Decimal) Decimal {
	l, r, scale := balance(left, right)
	return a.normalize(l.Sub(l, r), scale)
}

func (a *Arith) Mul(left, right Decimal) Decimal {
	v := new(big.Int).Mul(left.int(), right.int())
	return a.normalize(v, left.scale+right.scale)
}

// Div divides to the place limit, truncating toward zero.
func (a *Arith) Div(left, right Decimal) (Decimal, error) {
	if right.Sign() == 0 {
		return Decimal{}, ErrDivisionByZero
	}
	l, r, _ := balance(left, right)
	l.Mul(l, pow10(a.places))
	return a.normalize(l.Quo(l, r), a.places), nil
}

// Rem is the truncated remainder of the balanced magnitudes with the scale
// cleared, so 7.5 % 2 is 15.
func (a *Arith) Rem(left, right Decimal) (Decimal, error) {
	if right.Sign() == 0 {
		return Decimal{}, ErrDivisionByZero
	}
	l, r, _ := balance(left, right)
	return a.normalize(l.Rem(l, r), 0), nil
}

// Quo is the integer quotient truncated toward zero.
func (a *Arith) Quo(left, right Decimal) (Decimal, error) {
	if right.Sign() == 0 {
		return Decimal{}, ErrDivisionByZero
	}
	l, r, _ := balance(left, right)
	return a.normalize(l.Quo(l, r), 0), nil
}

// Pow raises base to exponent. Integral exponents use binary exponentiation,
// negative exponents take the reciprocal, and fractional exponents go
// through exp(e * ln(base)).
func (a *Arith) Pow(base, exponent Decimal) (Decimal, error) {
	neg := exponent.Sign() < 0
	if neg {
		exponent = exponent.Neg()
	}
	var result Decimal
	if exponent.IsInt() {
		result = a.powInt(base, exponent.int())
	} else {
		result = a.Exp(a.Mul(exponent, a.Ln(base)))
	}
	if neg {
		return a.Div(DecimalFromInt(1), result)
	}
	return result, nil
}

func (a *Arith) powInt(base Decimal, exponent *big.Int) Decimal {
	e := new(big.Int).Set(exponent)
	acc := new(big.Int).Set(base.int())
	result := big.NewInt(1)
	for e.Sign() != 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, acc)
		}
		acc.Mul(acc, acc)
		e.Rsh(e, 1)
	}
	scale := base.scale * int(exponent.Int64())
	return a.normalize(result, scale)
}

// Root computes the n-th root as base^(1/n).
func (a *Arith) Root(base, n Decimal) (Decimal, error) {
	inv, err := a.Div(DecimalFromInt(1), n)
	if err != nil {
		return Decimal{}, err
	}
	return a.Pow(base, inv)
}

// Factorial of a positive integer; anything else yields 1.
func (a *Arith) Factorial(n Decimal) Decimal {
	if !n.IsInt() || n.int().Cmp(bigOne) < 0 {
		return DecimalFromInt(1)
	}
	return Decimal{unscaled: new(big.Int).MulRange(1, n.int().Int64()), scale: 0}
}
