package unreal

// Param is a declared parameter. Default is nil for required parameters.
type Param struct {
	Name    string
	Type    string
	Default *Value
}

// Function is a user-defined closure.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       Node
	// ReturnsNull is set for block bodies: the call yields the returned
	// value or none, never the body's last value.
	ReturnsNull bool
	Closure     *Context
}

// BuiltinFunc implements a native function or value method.
type BuiltinFunc func(exec *Execution, call Call) (Value, error)

// Call carries the bound arguments of a native invocation.
type Call struct {
	Receiver Value
	Args     map[string]Value
	Context  *Context
	Start    Position
	End      Position
}

// Arg returns the bound argument or none.
func (c Call) Arg(name string) Value {
	return c.Args[name]
}

// Builtin is a native function registered in the global scope.
type Builtin struct {
	Name   string
	Params []Param
	Fn     BuiltinFunc
}

// Method is a native function bound to a receiver by member access.
type Method struct {
	Name     string
	Params   []Param
	Receiver Value
	Fn       BuiltinFunc
}

func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }
func NewBuiltin(b *Builtin) Value    { return Value{kind: KindBuiltin, data: b} }
func NewMethod(m *Method) Value      { return Value{kind: KindMethod, data: m} }

// signature returns the name and parameters of any callable.
func (v Value) signature() (string, []Param, bool) {
	switch v.kind {
	case KindFunction:
		fn := v.Function()
		return fn.Name, fn.Params, true
	case KindBuiltin:
		b := v.Builtin()
		return b.Name, b.Params, true
	case KindMethod:
		m := v.Method()
		return m.Name, m.Params, true
	default:
		return "", nil, false
	}
}

func required(name, typ string) Param {
	return Param{Name: name, Type: typ}
}

func optional(name, typ string, def Value) Param {
	return Param{Name: name, Type: typ, Default: &def}
}
