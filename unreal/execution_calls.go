package unreal

const anonymousFunctionName = "<anonymous>"

func (exec *Execution) evalCall(n *CallExpr, ctx *Context) (Value, signal, error) {
	callee, sig, err := exec.eval(n.Callee, ctx)
	if halted(sig, err) {
		return callee, sig, err
	}
	if _, _, ok := callee.signature(); !ok {
		return Value{}, signalNone, exec.errorAt(n.Callee, ctx, IllegalOpError, "<%s> isn't callable", callee.Type())
	}

	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		v, sig, err := exec.eval(arg.Value, ctx)
		if halted(sig, err) {
			return v, sig, err
		}
		args[i] = v.detached()
	}
	bound, err := exec.bindArgs(callee, n, args, ctx)
	if err != nil {
		return Value{}, signalNone, err
	}
	result, err := exec.invoke(callee, bound, n, ctx)
	if err != nil {
		return Value{}, signalNone, err
	}
	return at(result.detached(), n, ctx), signalNone, nil
}

// bindArgs matches call arguments to the callee's parameters, positionally
// or by label, then fills the remaining parameters from their defaults.
func (exec *Execution) bindArgs(callee Value, n *CallExpr, args []Value, ctx *Context) (map[string]Value, error) {
	name, params, _ := callee.signature()
	if len(args) > len(params) {
		return nil, exec.errorAt(n, ctx, ArgCountError, "%d too many argument(s) passed into '%s'", len(args)-len(params), name)
	}
	bound := make(map[string]Value, len(params))
	for i, arg := range n.Args {
		param, ok := params[i], true
		if arg.Label != "" {
			param, ok = findParam(params, arg.Label)
		}
		if !ok {
			return nil, exec.errorIn(arg.LabelSpan, ctx, ArgNotDefError, "Function '%s' doesn't have the '%s' argument", name, arg.Label)
		}
		if _, dup := bound[param.Name]; dup {
			return nil, exec.errorAt(arg.Value, ctx, ArgCountError, "'%s' got more than one value in '%s'", param.Name, name)
		}
		v := args[i]
		if typ := normalizeType(param.Type); typ != "" && typ != v.Type() {
			return nil, errorAt(v).fail(ctx, AssignTypeError,
				"Can't assign <%s> to '%s' because '%s' is <%s>", v.Type(), param.Name, param.Name, typ)
		}
		bound[param.Name] = v
	}

	missing := 0
	for _, p := range params {
		if _, ok := bound[p.Name]; ok {
			continue
		}
		if p.Default == nil {
			missing++
			continue
		}
		bound[p.Name] = p.Default.located(ctx, n.Pos(), n.End())
	}
	if missing > 0 {
		return nil, exec.errorAt(n, ctx, ArgCountError, "%d too few argument(s) passed into '%s'", missing, name)
	}
	return bound, nil
}

func findParam(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (exec *Execution) invoke(callee Value, args map[string]Value, site Node, ctx *Context) (Value, error) {
	call := Call{Args: args, Context: ctx, Start: site.Pos(), End: site.End()}
	switch callee.kind {
	case KindFunction:
		return exec.callFunction(callee.Function(), args, site, ctx)
	case KindBuiltin:
		return callee.Builtin().Fn(exec, call)
	case KindMethod:
		m := callee.Method()
		call.Receiver = m.Receiver
		return m.Fn(exec, call)
	default:
		return Value{}, exec.errorAt(site, ctx, IllegalOpError, "<%s> isn't callable", callee.Type())
	}
}

// callFunction runs a user function in a fresh scope whose parent is the
// scope the function was defined in. The caller becomes the parent context
// for tracebacks.
func (exec *Execution) callFunction(fn *Function, args map[string]Value, site Node, caller *Context) (Value, error) {
	if err := exec.interrupted(); err != nil {
		return Value{}, err
	}
	if err := exec.enterCall(site.Pos(), site.End(), caller); err != nil {
		return Value{}, err
	}
	defer exec.leaveCall()
	symbols := NewSymbolTable(fn.Closure.Symbols)
	for _, p := range fn.Params {
		symbols.SetPublic(p.Name, Variable{Value: args[p.Name].named(p.Name), Type: normalizeType(p.Type)})
	}
	fctx := NewContext(fn.Name, symbols, caller, site.Pos())

	result := NewNone().located(fctx, site.Pos(), site.End())
	if fn.Body != nil {
		exec.pushFrame(frameFunction)
		v, sig, err := exec.eval(fn.Body, fctx)
		exec.popFrame()
		if err != nil {
			return Value{}, err
		}
		if sig == signalReturn || !fn.ReturnsNull {
			result = v
		}
	}
	if fn.ReturnType != "" && result.Type() != fn.ReturnType {
		return Value{}, errorAt(result).fail(fctx, ReturnTypeError,
			"Can't return <%s> because '%s' returns <%s>", result.Type(), fn.Name, fn.ReturnType)
	}
	return result, nil
}

func (exec *Execution) evalFuncDef(n *FuncDef, ctx *Context) (Value, signal, error) {
	if n.Name != "" && ctx.Symbols.IsLocalConst(n.Name) {
		return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, ConstVarError, "'%s' is const variable", n.Name)
	}
	params := make([]Param, 0, len(n.Params))
	for _, decl := range n.Params {
		param := Param{Name: decl.Name, Type: decl.Type}
		if decl.Default != nil {
			v, sig, err := exec.eval(decl.Default, ctx)
			if halted(sig, err) {
				return v, sig, err
			}
			if typ := normalizeType(decl.Type); typ != "" && typ != v.Type() {
				return Value{}, signalNone, exec.errorAt(decl.Default, ctx, AssignTypeError,
					"Can't assign <%s> into '%s' because '%s' is <%s>", v.Type(), decl.Name, decl.Name, typ)
			}
			v = v.detached()
			param.Default = &v
		}
		params = append(params, param)
	}

	fn := &Function{
		Name:        n.Name,
		Params:      params,
		ReturnType:  n.ReturnType,
		Body:        n.Body.Node,
		ReturnsNull: n.Body.Block,
		Closure:     ctx,
	}
	if fn.Name == "" {
		fn.Name = anonymousFunctionName
	}
	v := NewFunction(fn)
	if n.Name != "" {
		v = exec.setVariable(ctx, n.Name, v, "", n.Props)
	}
	return at(v, n, ctx), signalNone, nil
}

type dollarMethod struct {
	types []string
	fn    func(exec *Execution, args []Value, ctx *Context) error
}

func lookupDollar(name string) (dollarMethod, bool) {
	switch name {
	case "mode":
		return dollarMethod{types: []string{typeNum}, fn: dollarMode}, true
	case "reset":
		return dollarMethod{fn: dollarReset}, true
	default:
		return dollarMethod{}, false
	}
}

func dollarMode(exec *Execution, args []Value, ctx *Context) error {
	mode := args[0].Number()
	n, ok := mode.Int64()
	if !mode.IsInt() || !ok || !Mode(n).valid() {
		return errorAt(args[0]).fail(ctx, InvValueError, "mode must be 1 (build), 2 (develop) or 3 (none)")
	}
	exec.engine.SetMode(Mode(n))
	return nil
}

// dollarReset replaces the engine's global scope. The running program keeps
// the scope it started with; the next one sees fresh globals.
func dollarReset(exec *Execution, _ []Value, _ *Context) error {
	exec.engine.Reset()
	return nil
}

// evalDollar runs a `$name: args` meta-command. Arguments are positional
// and strictly typed; the command itself yields none.
func (exec *Execution) evalDollar(n *DollarCall, ctx *Context) (Value, signal, error) {
	method, ok := lookupDollar(n.Name)
	if !ok {
		return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, NotDefError, "'%s' isn't defined", n.Name)
	}
	args, sig, err := exec.evalAll(n.Args, ctx)
	if halted(sig, err) {
		return args.last(), sig, err
	}
	switch {
	case len(args) > len(method.types):
		return Value{}, signalNone, exec.errorAt(n, ctx, ArgCountError, "%d too many argument(s) passed into '%s'", len(args)-len(method.types), n.Name)
	case len(args) < len(method.types):
		return Value{}, signalNone, exec.errorAt(n, ctx, ArgCountError, "%d too few argument(s) passed into '%s'", len(method.types)-len(args), n.Name)
	}
	for i, arg := range args {
		if arg.Type() != method.types[i] {
			return Value{}, signalNone, errorAt(arg).fail(ctx, TypeError, "Argument %d must be <%s>", i+1, method.types[i])
		}
	}
	if err := method.fn(exec, args, ctx); err != nil {
		return Value{}, signalNone, err
	}
	return at(NewNone(), n, ctx), signalNone, nil
}
