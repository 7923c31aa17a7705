package unreal

func NewList(items []Value) Value  { return Value{kind: KindList, data: items} }
func NewTuple(items []Value) Value { return Value{kind: KindTuple, data: items} }

// NewSet drops duplicates, keeping first occurrences in order.
func NewSet(items []Value) Value {
	unique := make([]Value, 0, len(items))
	for _, item := range items {
		if indexOfValue(unique, item) < 0 {
			unique = append(unique, item)
		}
	}
	return Value{kind: KindSet, data: unique}
}

// NewDict pairs keys with values. A repeated key keeps its first position
// and takes the last value written.
func NewDict(keys, values []Value) Value {
	d := Dict{Keys: make([]Value, 0, len(keys)), Values: make([]Value, 0, len(values))}
	for i := range keys {
		d = d.with(keys[i], values[i])
	}
	return Value{kind: KindDict, data: d}
}

// with returns a copy of d with key bound to value.
func (d Dict) with(key, value Value) Dict {
	keys := append([]Value(nil), d.Keys...)
	values := append([]Value(nil), d.Values...)
	if i := indexOfValue(keys, key); i >= 0 {
		values[i] = value
	} else {
		keys = append(keys, key)
		values = append(values, value)
	}
	return Dict{Keys: keys, Values: values}
}

// Lookup returns the value bound to key.
func (d Dict) Lookup(key Value) (Value, bool) {
	if i := indexOfValue(d.Keys, key); i >= 0 {
		return d.Values[i], true
	}
	return Value{}, false
}

func sameKind(kind ValueKind, items []Value) Value {
	switch kind {
	case KindTuple:
		return NewTuple(items)
	case KindSet:
		return NewSet(items)
	default:
		return NewList(items)
	}
}

func copyItems(items []Value) []Value {
	return append(make([]Value, 0, len(items)), items...)
}

func sequenceRemove(l, r Value) (Value, error) {
	items := copyItems(l.Elements())
	handled, err := removeIndexes(l, r, len(items), func(i int) {
		items = append(items[:i], items[i+1:]...)
	})
	if err != nil {
		return Value{}, err
	}
	if !handled {
		return Value{}, errUnsupported
	}
	return sameKind(l.kind, items), nil
}

var listOps = map[TokenType]binaryFunc{
	tokenPlus: func(_ *Arith, l, r Value) (Value, error) {
		items := copyItems(l.Elements())
		if r.kind == KindList {
			return NewList(append(items, r.Elements()...)), nil
		}
		return NewList(append(items, r)), nil
	},
	tokenMinus: func(_ *Arith, l, r Value) (Value, error) { return sequenceRemove(l, r) },
	tokenStar: func(ar *Arith, l, r Value) (Value, error) {
		n, err := multiplier(ar, l, r, len(l.Elements()))
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, n*len(l.Elements()))
		for i := 0; i < n; i++ {
			items = append(items, l.Elements()...)
		}
		return NewList(items), nil
	},
}

var setOps = map[TokenType]binaryFunc{
	tokenPlus: func(_ *Arith, l, r Value) (Value, error) {
		items := copyItems(l.Elements())
		if r.kind == KindSet {
			return NewSet(append(items, r.Elements()...)), nil
		}
		return NewSet(append(items, r)), nil
	},
	tokenMinus: func(_ *Arith, l, r Value) (Value, error) { return sequenceRemove(l, r) },
}

var dictOps = map[TokenType]binaryFunc{
	tokenPlus: func(_ *Arith, l, r Value) (Value, error) {
		d := l.Dict()
		switch {
		case isSequence(r):
			pair := r.Elements()
			if len(pair) != 2 {
				return Value{}, errorAt(r).fail(l.context(), LenError, "Other must have two elements (key and value)")
			}
			return Value{kind: KindDict, data: d.with(pair[0], pair[1])}, nil
		case r.kind == KindDict:
			other := r.Dict()
			for i := range other.Keys {
				d = d.with(other.Keys[i], other.Values[i])
			}
			return Value{kind: KindDict, data: d}, nil
		default:
			return Value{}, errUnsupported
		}
	},
	tokenMinus: func(_ *Arith, l, r Value) (Value, error) {
		d := l.Dict()
		i := indexOfValue(d.Keys, r)
		if i < 0 {
			return Value{}, missingKey(l, r)
		}
		keys := append(copyItems(d.Keys[:i]), d.Keys[i+1:]...)
		values := append(copyItems(d.Values[:i]), d.Values[i+1:]...)
		return Value{kind: KindDict, data: Dict{Keys: keys, Values: values}}, nil
	},
}

func missingKey(dict, key Value) error {
	return errorAt(key).fail(dict.context(), KeyError, "The dictionary has no key with the value of %s", key.String())
}

// indexSequence selects one element, or a same-kind collection of elements
// when index is itself a sequence of integers.
func indexSequence(v, index Value) (Value, error) {
	items := v.Elements()
	switch {
	case isNumber(index):
		i, err := resolveIndex(v, index, len(items))
		if err != nil {
			return Value{}, err
		}
		return items[i], nil
	case isSequence(index):
		picked := make([]Value, 0, len(index.Elements()))
		for _, item := range index.Elements() {
			if !isNumber(item) {
				return Value{}, errorAt(item).fail(v.context(), TypeError, "Index must be <num>")
			}
			i, err := resolveIndex(v, item, len(items))
			if err != nil {
				return Value{}, err
			}
			picked = append(picked, items[i])
		}
		return sameKind(v.kind, picked), nil
	default:
		return Value{}, errorAt(index).fail(v.context(), TypeError, "Index must be <num> or low level classified variable")
	}
}

func indexDict(v, key Value) (Value, error) {
	value, ok := v.Dict().Lookup(key)
	if !ok {
		return Value{}, missingKey(v, key)
	}
	return value, nil
}

// areOfType reports whether a non-empty collection holds only values of
// the named type.
func areOfType(items []Value, typeName string) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Type() != typeName {
			return false
		}
	}
	return true
}
