package unreal

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type methodSpec struct {
	params []Param
	fn     BuiltinFunc
}

var (
	lengthMethod = methodSpec{fn: func(_ *Execution, call Call) (Value, error) {
		v := call.Receiver
		switch v.kind {
		case KindString:
			return NewInt(int64(utf8.RuneCountInString(v.Str()))), nil
		case KindDict:
			return NewInt(int64(len(v.Dict().Keys))), nil
		default:
			return NewInt(int64(len(v.Elements()))), nil
		}
	}}

	containsMethod = methodSpec{
		params: []Param{required("value", "")},
		fn: func(_ *Execution, call Call) (Value, error) {
			v, needle := call.Receiver, call.Arg("value")
			switch v.kind {
			case KindString:
				if needle.kind != KindString {
					return Value{}, errorAt(needle).fail(call.Context, TypeError, "Argument 1 must be <%s>", typeStr)
				}
				return NewBool(strings.Contains(v.Str(), needle.Str())), nil
			case KindDict:
				_, ok := v.Dict().Lookup(needle)
				return NewBool(ok), nil
			default:
				return NewBool(indexOfValue(v.Elements(), needle) >= 0), nil
			}
		},
	}
)

var valueMethods = map[ValueKind]map[string]methodSpec{
	KindString: {"length": lengthMethod, "contains": containsMethod},
	KindList:   {"length": lengthMethod, "contains": containsMethod},
	KindTuple:  {"length": lengthMethod, "contains": containsMethod},
	KindSet:    {"length": lengthMethod, "contains": containsMethod},
	KindDict: {
		"length":   lengthMethod,
		"contains": containsMethod,
		"keys": {fn: func(_ *Execution, call Call) (Value, error) {
			return NewList(copyItems(call.Receiver.Dict().Keys)), nil
		}},
		"values": {fn: func(_ *Execution, call Call) (Value, error) {
			return NewList(copyItems(call.Receiver.Dict().Values)), nil
		}},
	},
}

// member binds the named method to v.
func member(v Value, name string) (Value, bool) {
	spec, ok := valueMethods[v.kind][name]
	if !ok {
		return Value{}, false
	}
	return NewMethod(&Method{Name: name, Params: spec.params, Receiver: v, Fn: spec.fn}), true
}

// MemberNames lists the methods available on v, sorted.
func MemberNames(v Value) []string {
	names := make([]string, 0, len(valueMethods[v.kind]))
	for name := range valueMethods[v.kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
