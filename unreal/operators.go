package unreal

import (
	"errors"
	"fmt"
	"strings"
)

type binaryFunc func(ar *Arith, left, right Value) (Value, error)

// errUnsupported marks an operand pairing the receiver does not implement;
// it becomes an IllegalOpError at the dispatch boundary.
var errUnsupported = errors.New("unsupported operation")

var operatorTables = map[ValueKind]map[TokenType]binaryFunc{
	KindNumber: numberOps,
	KindString: stringOps,
	KindList:   listOps,
	KindSet:    setOps,
	KindDict:   dictOps,
}

func illegalOperation(left, right Value) error {
	return spanning(left, right).fail(left.context(), IllegalOpError,
		"Illegal operation between <%s> and <%s>", left.Type(), right.Type())
}

// BinaryOp applies op to the operands. Equality and the logical
// connectives work on every kind; everything else is looked up in the
// receiver's operator table.
func BinaryOp(ar *Arith, op TokenType, left, right Value) (Value, error) {
	var (
		result Value
		err    error
	)
	switch op {
	case tokenEQ:
		result = NewBool(left.Equal(right))
	case tokenNotEQ:
		result = NewBool(!left.Equal(right))
	case tokenAnd:
		result = NewBool(left.Truthy() && right.Truthy())
	case tokenOr:
		result = NewBool(left.Truthy() || right.Truthy())
	case tokenXor:
		result = NewBool(left.Truthy() != right.Truthy())
	case tokenIn:
		result, err = inOp(left, right)
	case tokenIs:
		result, err = isOp(left, right)
	case tokenAre:
		result, err = areOp(left, right)
	default:
		fn, ok := operatorTables[left.kind][op]
		if !ok {
			return Value{}, illegalOperation(left, right)
		}
		result, err = fn(ar, left, right)
		if errors.Is(err, errUnsupported) {
			return Value{}, illegalOperation(left, right)
		}
	}
	if err != nil {
		return Value{}, err
	}
	return result.withContext(left.context()), nil
}

// UnaryOp applies a prefix operator. Sign operators multiply by ±1, so they
// follow the receiver's multiplication rules.
func UnaryOp(ar *Arith, op TokenType, operand Value) (Value, error) {
	switch op {
	case tokenMinus:
		return BinaryOp(ar, tokenStar, operand, NewInt(-1).located(operand.context(), operand.start(), operand.end()))
	case tokenPlus:
		return BinaryOp(ar, tokenStar, operand, NewInt(1).located(operand.context(), operand.start(), operand.end()))
	case tokenNot:
		return NewBool(!operand.Truthy()).withContext(operand.context()), nil
	case tokenBitNot:
		return bitwiseNot(operand)
	default:
		return Value{}, fmt.Errorf("unknown unary operator %s", op)
	}
}

func bitwiseNot(v Value) (Value, error) {
	var result Value
	switch v.kind {
	case KindNumber:
		if !v.Number().IsInt() {
			return Value{}, errorAt(v).fail(v.context(), FloatError, "Number must be int")
		}
		d := v.Number()
		result = NewNumber(Decimal{unscaled: d.Unscaled().Not(d.int())})
	case KindBool:
		result = NewBool(!v.Bool())
	case KindNone:
		result = NewObject()
	case KindObject, KindType:
		result = NewNone()
	default:
		return Value{}, errorAt(v).fail(v.context(), IllegalOpError, "<%s> isn't numerical type", v.Type())
	}
	return result.withContext(v.context()), nil
}

func inOp(left, right Value) (Value, error) {
	if left.kind == KindString && right.kind == KindString {
		return NewBool(strings.Contains(right.Str(), left.Str())), nil
	}
	if !isSequence(right) {
		if left.kind == KindString {
			return Value{}, spanning(left, right).fail(left.context(), TypeError, "Other must be <str> or low level classified variable")
		}
		return Value{}, spanning(left, right).fail(left.context(), TypeError, "Other must be low level classified variable")
	}
	return NewBool(indexOfValue(right.Elements(), left) >= 0), nil
}

func isOp(left, right Value) (Value, error) {
	if right.kind != KindType {
		return Value{}, errorAt(right).fail(left.context(), TypeError, "Type must be <type>")
	}
	return NewBool(left.Type() == right.Str()), nil
}

func areOp(left, right Value) (Value, error) {
	if !isSequence(left) {
		return Value{}, errorAt(left).fail(left.context(), TypeError, "Value must be low level classified variable")
	}
	if right.kind != KindType {
		return Value{}, errorAt(right).fail(left.context(), TypeError, "Type must be <type>")
	}
	return NewBool(areOfType(left.Elements(), right.Str())), nil
}

// Index reads v[index].
func Index(v, index Value) (Value, error) {
	var (
		result Value
		err    error
	)
	switch v.kind {
	case KindString:
		result, err = indexString(v, index)
	case KindList, KindTuple, KindSet:
		result, err = indexSequence(v, index)
	case KindDict:
		result, err = indexDict(v, index)
	default:
		return Value{}, errorAt(v).fail(v.context(), IllegalOpError, "<%s> isn't low level classified type", v.Type())
	}
	if err != nil {
		return Value{}, err
	}
	return result.withContext(v.context()), nil
}

// SetIndex returns a copy of container with index bound to value. Lists
// replace an existing position; dicts replace or insert the key.
func SetIndex(container, index, value Value) (Value, error) {
	switch container.kind {
	case KindList:
		if !isNumber(index) {
			return Value{}, errorAt(index).fail(container.context(), TypeError, "Index must be <num>")
		}
		items := copyItems(container.Elements())
		i, err := resolveIndex(container, index, len(items))
		if err != nil {
			return Value{}, err
		}
		items[i] = value
		return NewList(items).withContext(container.context()), nil
	case KindDict:
		return Value{kind: KindDict, data: container.Dict().with(index, value)}.withContext(container.context()), nil
	default:
		return Value{}, errorAt(container).fail(container.context(), IllegalOpError, "<%s> doesn't support item assignment", container.Type())
	}
}
