package unreal

import "math/big"

// Exp sums the Taylor series 1 + x + x^2/2! + ... up to the configured
// number of terms.
func (a *Arith) Exp(x Decimal) Decimal {
	sum := DecimalFromInt(1)
	for i := 1; i <= a.expIterations; i++ {
		n := big.NewInt(int64(i))
		term, err := a.Div(a.powInt(x, n), a.Factorial(DecimalFromInt(int64(i))))
		if err != nil {
			continue
		}
		sum = a.Add(sum, term)
	}
	return sum
}

// Ln reduces x to a mantissa near one, m * 10^k, and returns
// 2*atanh((m-1)/(m+1)) + k*ln(10).
func (a *Arith) Ln(x Decimal) Decimal {
	mantissa, exponent := a.scientific(x)
	log := a.atanhSeries(mantissa)
	return a.Add(a.Mul(DecimalFromInt(int64(exponent)), a.ln10), log)
}

// atanhSeries evaluates 2 * sum((y^(2i+1)) / (2i+1)) with y = (m-1)/(m+1).
func (a *Arith) atanhSeries(m Decimal) Decimal {
	one := DecimalFromInt(1)
	y, err := a.Div(a.Sub(m, one), a.Add(m, one))
	if err != nil {
		return Decimal{unscaled: new(big.Int)}
	}
	sum := Decimal{unscaled: new(big.Int)}
	for i := 0; i <= a.lnIterations; i++ {
		odd := int64(2*i + 1)
		term, err := a.Div(a.powInt(y, big.NewInt(odd)), DecimalFromInt(odd))
		if err != nil {
			continue
		}
		sum = a.Add(sum, term)
	}
	return a.Mul(DecimalFromInt(2), sum)
}

// scientific shifts x by powers of ten so that its integer part has at most
// one digit, returning the shifted value and the shift count.
func (a *Arith) scientific(x Decimal) (Decimal, int) {
	digits := len(new(big.Int).Abs(x.int()).String())
	exponent := 0
	switch {
	case x.scale < digits-1:
		exponent = digits - 1 - x.scale
	case x.scale > digits:
		exponent = digits - x.scale
	}
	if exponent == 0 {
		return x, 0
	}
	if exponent > 0 {
		return a.normalize(x.int(), x.scale+exponent), exponent
	}
	return a.Mul(x, Decimal{unscaled: pow10(-exponent), scale: 0}), exponent
}
