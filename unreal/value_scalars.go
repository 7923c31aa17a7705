package unreal

import (
	"math"
	"math/big"
	"strings"
)

func NewNone() Value            { return Value{kind: KindNone} }
func NewObject() Value          { return Value{kind: KindObject} }
func NewType(name string) Value { return Value{kind: KindType, data: name} }
func NewNumber(d Decimal) Value { return Value{kind: KindNumber, data: d} }
func NewInt(n int64) Value      { return NewNumber(DecimalFromInt(n)) }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }

func isNumber(v Value) bool { return v.kind == KindNumber }

func isSequence(v Value) bool {
	return v.kind == KindList || v.kind == KindTuple || v.kind == KindSet
}

func errorAt(v Value) *errorAnchor {
	return &errorAnchor{start: v.start(), end: v.end()}
}

func spanning(from, to Value) *errorAnchor {
	return &errorAnchor{start: from.start(), end: to.end()}
}

type errorAnchor struct {
	start Position
	end   Position
}

// fail builds a runtime error spanning the anchor in the given context.
func (a *errorAnchor) fail(ctx *Context, kind, format string, args ...any) error {
	return newRuntimeError(kind, a.start, a.end, ctx, format, args...)
}

var numberOps = map[TokenType]binaryFunc{
	tokenPlus: func(ar *Arith, l, r Value) (Value, error) {
		return numberArith(l, r, func(a, b Decimal) (Decimal, error) { return ar.Add(a, b), nil })
	},
	tokenMinus: func(ar *Arith, l, r Value) (Value, error) {
		return numberArith(l, r, func(a, b Decimal) (Decimal, error) { return ar.Sub(a, b), nil })
	},
	tokenStar: func(ar *Arith, l, r Value) (Value, error) {
		return numberArith(l, r, func(a, b Decimal) (Decimal, error) { return ar.Mul(a, b), nil })
	},
	tokenSlash:   func(ar *Arith, l, r Value) (Value, error) { return numberDivision(l, r, ar.Div) },
	tokenPercent: func(ar *Arith, l, r Value) (Value, error) { return numberDivision(l, r, ar.Rem) },
	tokenQuot:    func(ar *Arith, l, r Value) (Value, error) { return numberDivision(l, r, ar.Quo) },
	tokenPow: func(ar *Arith, l, r Value) (Value, error) {
		return numberArith(l, r, func(a, b Decimal) (Decimal, error) {
			d, err := ar.Pow(a, b)
			if err != nil {
				return Decimal{}, errorAt(r).fail(l.context(), DivByZeroError, "Division by zero")
			}
			return d, nil
		})
	},
	tokenRad: func(ar *Arith, l, r Value) (Value, error) { return numberDivision(l, r, ar.Root) },

	tokenLT:  numberComparison(func(c int) bool { return c < 0 }),
	tokenGT:  numberComparison(func(c int) bool { return c > 0 }),
	tokenLTE: numberComparison(func(c int) bool { return c <= 0 }),
	tokenGTE: numberComparison(func(c int) bool { return c >= 0 }),

	tokenBitAnd: numberBitwise("Other must be int", func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) }),
	tokenBitOr:  numberBitwise("Other must be int", func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) }),
	tokenBitXor: numberBitwise("Other must be int", func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) }),
	tokenShl:    numberShift(false),
	tokenShr:    numberShift(true),
}

func numberArith(l, r Value, fn func(a, b Decimal) (Decimal, error)) (Value, error) {
	if !isNumber(r) {
		return Value{}, errUnsupported
	}
	d, err := fn(l.Number(), r.Number())
	if err != nil {
		return Value{}, err
	}
	return NewNumber(d), nil
}

func numberDivision(l, r Value, fn func(a, b Decimal) (Decimal, error)) (Value, error) {
	if !isNumber(r) {
		return Value{}, errUnsupported
	}
	if r.Number().Sign() == 0 {
		return Value{}, errorAt(r).fail(l.context(), DivByZeroError, "Division by zero")
	}
	return numberArith(l, r, fn)
}

func numberComparison(test func(int) bool) binaryFunc {
	return func(_ *Arith, l, r Value) (Value, error) {
		if !isNumber(r) {
			return Value{}, errUnsupported
		}
		return NewBool(test(l.Number().Cmp(r.Number()))), nil
	}
}

func requireIntOperands(l, r Value, otherMsg string) error {
	if !l.Number().IsInt() {
		return errorAt(l).fail(l.context(), FloatError, "Number must be int")
	}
	if !r.Number().IsInt() {
		return errorAt(r).fail(l.context(), FloatError, "%s", otherMsg)
	}
	return nil
}

func numberBitwise(otherMsg string, fn func(a, b *big.Int) *big.Int) binaryFunc {
	return func(_ *Arith, l, r Value) (Value, error) {
		if !isNumber(r) {
			return Value{}, errUnsupported
		}
		if err := requireIntOperands(l, r, otherMsg); err != nil {
			return Value{}, err
		}
		return NewNumber(Decimal{unscaled: fn(l.Number().int(), r.Number().int())}), nil
	}
}

// maxShift bounds shift distances.
const maxShift = 1 << 24

func numberShift(rightward bool) binaryFunc {
	return func(_ *Arith, l, r Value) (Value, error) {
		right := rightward
		if !isNumber(r) {
			return Value{}, errUnsupported
		}
		if err := requireIntOperands(l, r, "Shift must be int"); err != nil {
			return Value{}, err
		}
		n, ok := r.Number().Int64()
		if !ok || n > maxShift || n < -maxShift {
			return Value{}, errorAt(r).fail(l.context(), LimitError, "Shift can't be greater than %d or less than %d", maxShift, -maxShift)
		}
		if n < 0 {
			right = !right
			n = -n
		}
		out := new(big.Int)
		if right {
			out.Rsh(l.Number().int(), uint(n))
		} else {
			out.Lsh(l.Number().int(), uint(n))
		}
		return NewNumber(Decimal{unscaled: out}), nil
	}
}

var stringOps = map[TokenType]binaryFunc{
	tokenPlus: func(_ *Arith, l, r Value) (Value, error) {
		if r.kind != KindString {
			return Value{}, errUnsupported
		}
		return NewString(l.Str() + r.Str()), nil
	},
	tokenMinus: func(_ *Arith, l, r Value) (Value, error) {
		runes := []rune(l.Str())
		handled, err := removeIndexes(l, r, len(runes), func(i int) {
			runes = append(runes[:i:i], runes[i+1:]...)
		})
		if err != nil || handled {
			return NewString(string(runes)), err
		}
		return Value{}, errUnsupported
	},
	tokenStar: func(ar *Arith, l, r Value) (Value, error) {
		n, err := multiplier(ar, l, r, len(l.Str()))
		if err != nil {
			return Value{}, err
		}
		return NewString(strings.Repeat(l.Str(), n)), nil
	},
}

// multiplier validates a repetition count for string and list repetition.
// unit is the length of one copy.
func multiplier(ar *Arith, l, r Value, unit int) (int, error) {
	if !isNumber(r) {
		return 0, errUnsupported
	}
	d := r.Number()
	if !d.IsInt() {
		return 0, errorAt(r).fail(l.context(), FloatError, "Multiplier must be int")
	}
	if d.Sign() < 0 {
		return 0, errorAt(r).fail(l.context(), LimitError, "Multiplier can't be less than 0")
	}
	n, ok := d.Int64()
	if !ok || n > math.MaxInt32 {
		return 0, errorAt(r).fail(l.context(), LimitError, "Multiplier can't be greater than %d", math.MaxInt32)
	}
	if unit > 0 && n > int64(ar.maxLength/unit) {
		return 0, errorAt(r).fail(l.context(), LimitError, "Result can't be longer than %d", ar.maxLength)
	}
	return int(n), nil
}

// resolveIndex maps a script index (negative counts from the end) onto
// [0, length).
func resolveIndex(owner, index Value, length int) (int, error) {
	d := index.Number()
	if !d.IsInt() {
		return 0, errorAt(index).fail(owner.context(), FloatError, "Index must be int")
	}
	n, ok := d.Int64()
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, errorAt(index).fail(owner.context(), RangeError, "Index out of range")
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, errorAt(index).fail(owner.context(), RangeError, "Index out of range")
	}
	return i, nil
}

// removeIndexes deletes the element at one index, or at each index of a
// sequence. Earlier removals shift the later indexes so that every index
// refers to the original positions. handled is false when r is neither a
// number nor a sequence.
func removeIndexes(l, r Value, length int, remove func(int)) (handled bool, err error) {
	var indexes []Value
	switch {
	case isNumber(r):
		indexes = []Value{r}
	case isSequence(r):
		indexes = r.Elements()
	default:
		return false, nil
	}
	removedFront, removedBack := 0, 0
	for _, index := range indexes {
		if !isNumber(index) {
			return true, errorAt(index).fail(l.context(), TypeError, "Index must be <num>")
		}
		d := index.Number()
		if d.IsInt() {
			if d.Sign() >= 0 {
				d = Decimal{unscaled: new(big.Int).Sub(d.int(), big.NewInt(int64(removedFront)))}
				removedFront++
			} else {
				d = Decimal{unscaled: new(big.Int).Add(d.int(), big.NewInt(int64(removedBack)))}
				removedBack++
			}
		}
		i, err := resolveIndex(l, NewNumber(d).located(nil, index.start(), index.end()), length)
		if err != nil {
			return true, err
		}
		remove(i)
		length--
	}
	return true, nil
}

func indexString(s, index Value) (Value, error) {
	runes := []rune(s.Str())
	switch {
	case isNumber(index):
		i, err := resolveIndex(s, index, len(runes))
		if err != nil {
			return Value{}, err
		}
		return NewString(string(runes[i])), nil
	case isSequence(index):
		chars := make([]Value, 0, len(index.Elements()))
		for _, item := range index.Elements() {
			if !isNumber(item) {
				return Value{}, errorAt(item).fail(s.context(), TypeError, "Index must be <num>")
			}
			i, err := resolveIndex(s, item, len(runes))
			if err != nil {
				return Value{}, err
			}
			chars = append(chars, NewString(string(runes[i])))
		}
		return NewList(chars), nil
	default:
		return Value{}, errorAt(index).fail(s.context(), TypeError, "Index must be <num> or low level classified variable")
	}
}
