package unreal

import (
	"strings"
)

type ValueKind int

const (
	KindNone ValueKind = iota
	KindObject
	KindType
	KindNumber
	KindBool
	KindString
	KindList
	KindTuple
	KindDict
	KindSet
	KindFunction
	KindBuiltin
	KindMethod
)

// Type names as written in scripts.
const (
	typeType     = "type_"
	typeObject   = "object_"
	typeNone     = "none_"
	typeNum      = "num_"
	typeBool     = "bool_"
	typeStr      = "str_"
	typeList     = "list_"
	typeTuple    = "tuple_"
	typeDict     = "dict_"
	typeSet      = "set_"
	typeFunction = "function_"
)

var kindTypeNames = map[ValueKind]string{
	KindNone:     typeNone,
	KindObject:   typeObject,
	KindType:     typeType,
	KindNumber:   typeNum,
	KindBool:     typeBool,
	KindString:   typeStr,
	KindList:     typeList,
	KindTuple:    typeTuple,
	KindDict:     typeDict,
	KindSet:      typeSet,
	KindFunction: typeFunction,
	KindBuiltin:  typeFunction,
	KindMethod:   typeFunction,
}

var typeNames = map[string]struct{}{
	typeType: {}, typeObject: {}, typeNone: {}, typeNum: {}, typeBool: {},
	typeStr: {}, typeList: {}, typeTuple: {}, typeDict: {}, typeSet: {}, typeFunction: {},
}

func isTypeName(name string) bool {
	_, ok := typeNames[name]
	return ok
}

// Value is an immutable runtime value. The metadata (evaluation context,
// source span, and the variable it was read from) is replaced, never
// mutated, as the value moves through the evaluator.
type Value struct {
	kind ValueKind
	data any
	meta *valueMeta
}

type valueMeta struct {
	ctx     *Context
	start   Position
	end     Position
	varName string
}

// Dict keeps keys in insertion order; keys are unique.
type Dict struct {
	Keys   []Value
	Values []Value
}

func (v Value) Kind() ValueKind { return v.kind }

// Type returns the script-level type name, e.g. "num_".
func (v Value) Type() string { return kindTypeNames[v.kind] }

func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Number() Decimal {
	if d, ok := v.data.(Decimal); ok {
		return d
	}
	return Decimal{}
}

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

// Elements returns the items of a List, Tuple or Set. The slice is shared
// and must not be modified.
func (v Value) Elements() []Value {
	switch v.kind {
	case KindList, KindTuple, KindSet:
		items, _ := v.data.([]Value)
		return items
	default:
		return nil
	}
}

func (v Value) Dict() Dict {
	d, _ := v.data.(Dict)
	return d
}

func (v Value) Function() *Function {
	fn, _ := v.data.(*Function)
	return fn
}

func (v Value) Builtin() *Builtin {
	b, _ := v.data.(*Builtin)
	return b
}

func (v Value) Method() *Method {
	m, _ := v.data.(*Method)
	return m
}

func (v Value) context() *Context {
	if v.meta == nil {
		return nil
	}
	return v.meta.ctx
}

func (v Value) start() Position {
	if v.meta == nil {
		return Position{}
	}
	return v.meta.start
}

func (v Value) end() Position {
	if v.meta == nil {
		return Position{}
	}
	return v.meta.end
}

func (v Value) varName() string {
	if v.meta == nil {
		return ""
	}
	return v.meta.varName
}

// located returns a copy of v carrying ctx and the given span. The bound
// variable name is kept.
func (v Value) located(ctx *Context, start, end Position) Value {
	m := &valueMeta{ctx: ctx, start: start, end: end}
	if v.meta != nil {
		m.varName = v.meta.varName
	}
	v.meta = m
	return v
}

func (v Value) withContext(ctx *Context) Value {
	m := &valueMeta{ctx: ctx}
	if v.meta != nil {
		*m = *v.meta
		m.ctx = ctx
	}
	v.meta = m
	return v
}

// detached drops the bound variable name, so the value no longer aliases
// the variable it was read from.
func (v Value) detached() Value {
	if v.meta == nil || v.meta.varName == "" {
		return v
	}
	m := *v.meta
	m.varName = ""
	v.meta = &m
	return v
}

func (v Value) named(name string) Value {
	m := &valueMeta{varName: name}
	if v.meta != nil {
		*m = *v.meta
		m.varName = name
	}
	v.meta = m
	return v
}

// Truthy reports the value's truthiness: false, none, zero and empty
// collections are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindNumber:
		return v.Number().Sign() != 0
	case KindBool:
		return v.Bool()
	case KindString:
		return v.Str() != ""
	case KindList, KindTuple, KindSet:
		return len(v.Elements()) != 0
	case KindDict:
		return len(v.Dict().Keys) != 0
	default:
		return true
	}
}

// Equal is structural equality. Numbers must match in magnitude and scale;
// callables compare by kind and name.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone, KindObject:
		return true
	case KindType:
		return v.Str() == other.Str()
	case KindNumber:
		return v.Number().Equal(other.Number())
	case KindBool:
		return v.Bool() == other.Bool()
	case KindString:
		return v.Str() == other.Str()
	case KindList, KindTuple, KindSet:
		return valuesEqual(v.Elements(), other.Elements())
	case KindDict:
		l, r := v.Dict(), other.Dict()
		return valuesEqual(l.Keys, r.Keys) && valuesEqual(l.Values, r.Values)
	case KindFunction:
		return v.Function().Name == other.Function().Name
	case KindBuiltin:
		return v.Builtin().Name == other.Builtin().Name
	case KindMethod:
		return v.Method().Name == other.Method().Name
	default:
		return false
	}
}

func valuesEqual(left, right []Value) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !left[i].Equal(right[i]) {
			return false
		}
	}
	return true
}

func indexOfValue(items []Value, target Value) int {
	for i, item := range items {
		if item.Equal(target) {
			return i
		}
	}
	return -1
}

// String renders the display form: strings quoted, collections bracketed.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindObject:
		return "object"
	case KindType:
		return "<class " + v.Str() + ">"
	case KindNumber:
		return v.Number().String()
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindString:
		return `"` + v.Str() + `"`
	case KindList:
		return "[" + joinValues(v.Elements()) + "]"
	case KindTuple:
		return "(" + joinValues(v.Elements()) + ")"
	case KindSet:
		return "{" + joinValues(v.Elements()) + "}"
	case KindDict:
		return "{" + joinDict(v.Dict()) + "}"
	case KindFunction:
		return "<function " + v.Function().Name + ">"
	case KindBuiltin:
		return "<built-in function " + v.Builtin().Name + ">"
	case KindMethod:
		return "<method " + v.Method().Name + ">"
	default:
		return "<unknown>"
	}
}

// PrintString renders the form written by print: strings raw, collections
// without their brackets, types by bare name.
func (v Value) PrintString() string {
	switch v.kind {
	case KindType:
		return v.Str()
	case KindString:
		return v.Str()
	case KindList, KindTuple, KindSet:
		return joinValues(v.Elements())
	case KindDict:
		return joinDict(v.Dict())
	default:
		return v.String()
	}
}

// Render returns the display form of v.
func Render(v Value) string {
	return v.String()
}

func joinValues(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

func joinDict(d Dict) string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = d.Keys[i].String() + ": " + d.Values[i].String()
	}
	return strings.Join(parts, ", ")
}
