package unreal

import (
	"errors"
	"testing"
)

func ints(ns ...int64) []Value {
	items := make([]Value, len(ns))
	for i, n := range ns {
		items[i] = NewInt(n)
	}
	return items
}

func requireOpKind(t *testing.T, err error, kind string) *RuntimeError {
	t.Helper()
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if runtimeErr.Kind != kind {
		t.Fatalf("kind: got %s want %s (%s)", runtimeErr.Kind, kind, runtimeErr.Details)
	}
	return runtimeErr
}

func TestValueRendering(t *testing.T) {
	dict := NewDict([]Value{NewString("a")}, []Value{NewInt(1)})
	cases := []struct {
		value Value
		str   string
		print string
	}{
		{NewNone(), "none", "none"},
		{NewObject(), "object", "object"},
		{NewType(typeNum), "<class num_>", "num_"},
		{NewBool(true), "true", "true"},
		{NewString("hi"), `"hi"`, "hi"},
		{NewList([]Value{NewInt(1), NewString("x")}), `[1, "x"]`, `1, "x"`},
		{NewTuple(ints(1, 2)), "(1, 2)", "1, 2"},
		{NewSet(ints(1, 1, 2)), "{1, 2}", "1, 2"},
		{dict, `{"a": 1}`, `"a": 1`},
		{NewFunction(&Function{Name: "f"}), "<function f>", "<function f>"},
	}
	for _, tc := range cases {
		if got := tc.value.String(); got != tc.str {
			t.Fatalf("String: got %s want %s", got, tc.str)
		}
		if got := tc.value.PrintString(); got != tc.print {
			t.Fatalf("PrintString: got %s want %s", got, tc.print)
		}
	}
}

func TestValueTruthiness(t *testing.T) {
	falsy := []Value{NewNone(), NewInt(0), NewBool(false), NewString(""), NewList(nil), NewDict(nil, nil)}
	for _, v := range falsy {
		if v.Truthy() {
			t.Fatalf("%s should be falsy", v)
		}
	}
	truthy := []Value{NewObject(), NewInt(-1), NewString("0"), NewTuple(ints(0)), NewType(typeStr)}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Fatalf("%s should be truthy", v)
		}
	}
}

func TestValueEqualityIsStructural(t *testing.T) {
	if !NewList(ints(1, 2)).Equal(NewList(ints(1, 2))) {
		t.Fatalf("equal lists should match")
	}
	if NewList(ints(1, 2)).Equal(NewList(ints(2, 1))) {
		t.Fatalf("list order matters")
	}
	if NewList(ints(1)).Equal(NewTuple(ints(1))) {
		t.Fatalf("list and tuple differ")
	}
	if NewSet(ints(1, 2)).Equal(NewSet(ints(2, 1))) {
		t.Fatalf("sets compare positionally")
	}
	if !NewNumber(DecimalFromInt(3)).Equal(NewInt(3)) {
		t.Fatalf("numbers of the same scale should match")
	}
}

func TestDictKeepsFirstPositionLastValue(t *testing.T) {
	d := NewDict(
		[]Value{NewString("a"), NewString("b"), NewString("a")},
		[]Value{NewInt(1), NewInt(2), NewInt(3)},
	)
	if got := d.String(); got != `{"a": 3, "b": 2}` {
		t.Fatalf("dict: got %s", got)
	}
	if v, ok := d.Dict().Lookup(NewString("b")); !ok || !v.Equal(NewInt(2)) {
		t.Fatalf("lookup b: got %v %v", v, ok)
	}
}

func TestBinaryOperators(t *testing.T) {
	ar := NewArith(10, 30, 30)
	cases := []struct {
		name  string
		op    TokenType
		left  Value
		right Value
		want  string
	}{
		{"number add", tokenPlus, NewInt(2), NewInt(3), "5"},
		{"string concat", tokenPlus, NewString("ab"), NewString("cd"), `"abcd"`},
		{"string repeat", tokenStar, NewString("ab"), NewInt(3), `"ababab"`},
		{"string remove index", tokenMinus, NewString("abc"), NewInt(1), `"ac"`},
		{"string remove indexes", tokenMinus, NewString("abcd"), NewList(ints(0, 2)), `"bd"`},
		{"list append", tokenPlus, NewList(ints(1)), NewInt(2), "[1, 2]"},
		{"list extend", tokenPlus, NewList(ints(1)), NewList(ints(2, 3)), "[1, 2, 3]"},
		{"list remove", tokenMinus, NewList(ints(1, 2, 3)), NewInt(-1), "[1, 2]"},
		{"list repeat", tokenStar, NewList(ints(1, 2)), NewInt(2), "[1, 2, 1, 2]"},
		{"set add", tokenPlus, NewSet(ints(1, 2)), NewInt(2), "{1, 2}"},
		{"set union", tokenPlus, NewSet(ints(1)), NewSet(ints(2, 1)), "{1, 2}"},
		{"dict add pair", tokenPlus, NewDict(nil, nil), NewTuple([]Value{NewString("k"), NewInt(1)}), `{"k": 1}`},
		{"dict remove", tokenMinus, NewDict([]Value{NewString("k")}, ints(1)), NewString("k"), "{}"},
		{"bit and", tokenBitAnd, NewInt(6), NewInt(3), "2"},
		{"bit xor", tokenBitXor, NewInt(6), NewInt(3), "5"},
		{"shift left", tokenShl, NewInt(1), NewInt(4), "16"},
		{"shift right", tokenShr, NewInt(16), NewInt(2), "4"},
		{"negative shift", tokenShl, NewInt(16), NewInt(-2), "4"},
		{"less than", tokenLT, NewInt(1), NewNumber(mustDecimal(t, "1.5")), "true"},
		{"equality across kinds", tokenEQ, NewInt(1), NewString("1"), "false"},
		{"and", tokenAnd, NewInt(1), NewString(""), "false"},
		{"or", tokenOr, NewInt(0), NewString("x"), "true"},
		{"xor", tokenXor, NewBool(true), NewBool(true), "false"},
		{"in list", tokenIn, NewInt(2), NewList(ints(1, 2)), "true"},
		{"in string", tokenIn, NewString("el"), NewString("hello"), "true"},
		{"is", tokenIs, NewString("x"), NewType(typeStr), "true"},
		{"are", tokenAre, NewList(ints(1, 2)), NewType(typeNum), "true"},
		{"are empty", tokenAre, NewList(nil), NewType(typeNum), "false"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BinaryOp(ar, tc.op, tc.left, tc.right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestBinaryOperatorErrors(t *testing.T) {
	ar := NewArith(10, 30, 30)
	_, err := BinaryOp(ar, tokenMinus, NewString("a"), NewBool(true))
	if e := requireOpKind(t, err, IllegalOpError); e.Details != "Illegal operation between <str_> and <bool_>" {
		t.Fatalf("details: %q", e.Details)
	}
	_, err = BinaryOp(ar, tokenPlus, NewTuple(ints(1)), NewTuple(ints(2)))
	requireOpKind(t, err, IllegalOpError)

	_, err = BinaryOp(ar, tokenSlash, NewInt(1), NewInt(0))
	requireOpKind(t, err, DivByZeroError)

	_, err = BinaryOp(ar, tokenBitAnd, NewNumber(mustDecimal(t, "1.5")), NewInt(1))
	if e := requireOpKind(t, err, FloatError); e.Details != "Number must be int" {
		t.Fatalf("details: %q", e.Details)
	}
	_, err = BinaryOp(ar, tokenShl, NewInt(1), NewNumber(mustDecimal(t, "0.5")))
	if e := requireOpKind(t, err, FloatError); e.Details != "Shift must be int" {
		t.Fatalf("details: %q", e.Details)
	}

	_, err = BinaryOp(ar, tokenStar, NewString("a"), NewInt(-1))
	requireOpKind(t, err, LimitError)

	_, err = BinaryOp(ar, tokenMinus, NewDict(nil, nil), NewString("missing"))
	if e := requireOpKind(t, err, KeyError); e.Details != `The dictionary has no key with the value of "missing"` {
		t.Fatalf("details: %q", e.Details)
	}

	_, err = BinaryOp(ar, tokenPlus, NewDict(nil, nil), NewList(ints(1)))
	requireOpKind(t, err, LenError)

	_, err = BinaryOp(ar, tokenIs, NewInt(1), NewInt(1))
	requireOpKind(t, err, TypeError)
}

func TestUnaryOperators(t *testing.T) {
	ar := NewArith(10, 30, 30)
	cases := []struct {
		op      TokenType
		operand Value
		want    string
	}{
		{tokenMinus, NewInt(3), "-3"},
		{tokenPlus, NewInt(3), "3"},
		{tokenNot, NewInt(0), "true"},
		{tokenBitNot, NewInt(5), "-6"},
		{tokenBitNot, NewBool(true), "false"},
		{tokenBitNot, NewNone(), "object"},
		{tokenBitNot, NewObject(), "none"},
		{tokenMinus, NewNumber(mustDecimal(t, "1.5")), "-1.5"},
	}
	for _, tc := range cases {
		got, err := UnaryOp(ar, tc.op, tc.operand)
		if err != nil {
			t.Fatalf("%s%s: %v", tc.op, tc.operand, err)
		}
		if got.String() != tc.want {
			t.Fatalf("%s%s: got %s want %s", tc.op, tc.operand, got, tc.want)
		}
	}
	_, err := UnaryOp(ar, tokenBitNot, NewString("x"))
	requireOpKind(t, err, IllegalOpError)
}

func TestIndex(t *testing.T) {
	list := NewList(ints(10, 20, 30))
	cases := []struct {
		target Value
		index  Value
		want   string
	}{
		{list, NewInt(0), "10"},
		{list, NewInt(-1), "30"},
		{list, NewList(ints(2, 0)), "[30, 10]"},
		{NewTuple(ints(1, 2)), NewTuple(ints(1)), "(2)"},
		{NewString("hey"), NewInt(1), `"e"`},
		{NewString("hey"), NewList(ints(0, 2)), `["h", "y"]`},
		{NewDict([]Value{NewString("k")}, ints(7)), NewString("k"), "7"},
	}
	for _, tc := range cases {
		got, err := Index(tc.target, tc.index)
		if err != nil {
			t.Fatalf("%s[%s]: %v", tc.target, tc.index, err)
		}
		if got.String() != tc.want {
			t.Fatalf("%s[%s]: got %s want %s", tc.target, tc.index, got, tc.want)
		}
	}

	_, err := Index(list, NewInt(3))
	if e := requireOpKind(t, err, RangeError); e.Details != "Index out of range" {
		t.Fatalf("details: %q", e.Details)
	}
	_, err = Index(list, NewNumber(mustDecimal(t, "0.5")))
	requireOpKind(t, err, FloatError)
	_, err = Index(NewInt(1), NewInt(0))
	if e := requireOpKind(t, err, IllegalOpError); e.Details != "<num_> isn't low level classified type" {
		t.Fatalf("details: %q", e.Details)
	}
}

func TestSetIndexCopies(t *testing.T) {
	original := NewList(ints(1, 2))
	updated, err := SetIndex(original, NewInt(0), NewInt(9))
	if err != nil {
		t.Fatalf("set index: %v", err)
	}
	if original.String() != "[1, 2]" || updated.String() != "[9, 2]" {
		t.Fatalf("got original %s updated %s", original, updated)
	}

	dict, err := SetIndex(NewDict(nil, nil), NewString("k"), NewInt(1))
	if err != nil || dict.String() != `{"k": 1}` {
		t.Fatalf("dict insert: %v %s", err, dict)
	}

	_, err = SetIndex(NewTuple(ints(1)), NewInt(0), NewInt(2))
	if e := requireOpKind(t, err, IllegalOpError); e.Details != "<tuple_> doesn't support item assignment" {
		t.Fatalf("details: %q", e.Details)
	}
}

func TestMemberNames(t *testing.T) {
	names := MemberNames(NewDict(nil, nil))
	want := []string{"contains", "keys", "length", "values"}
	if len(names) != len(want) {
		t.Fatalf("names: got %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names: got %v want %v", names, want)
		}
	}
	if len(MemberNames(NewInt(1))) != 0 {
		t.Fatalf("numbers have no members")
	}
}
