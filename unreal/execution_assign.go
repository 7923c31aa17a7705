package unreal

func matchesType(v Value, typ string) bool {
	return typ == "" || v.kind == KindNone || v.Type() == typ
}

func normalizeType(typ string) string {
	if typ == typeNone {
		return ""
	}
	return typ
}

func (exec *Execution) evalVarAssign(n *VarAssign, ctx *Context) (Value, signal, error) {
	if ctx.Symbols.IsConst(n.Name) {
		return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, ConstVarError, "'%s' is const variable", n.Name)
	}
	existing, canonical, found := ctx.Symbols.Lookup(n.Name)

	var value Value
	switch {
	case n.Op == "":
		value = NewNone()
		if found {
			value = existing.Value
		}
	case isStepAssignment(n.Op):
		if !found {
			return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, NotDefError, "'%s' isn't defined", n.Name)
		}
		one := NewInt(1).located(ctx, n.Pos(), n.End())
		old := existing.Value.located(ctx, n.NameSpan.start, n.NameSpan.end)
		v, err := BinaryOp(exec.arith, compoundOperator[n.Op], old, one)
		if err != nil {
			return Value{}, signalNone, err
		}
		value = v
	default:
		rhs, sig, err := exec.eval(n.Value, ctx)
		if halted(sig, err) {
			return rhs, sig, err
		}
		if n.Op != tokenAlias {
			rhs = rhs.detached()
		}
		value = rhs
		if op, ok := compoundOperator[n.Op]; ok {
			if !found {
				return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, NotDefError, "'%s' isn't defined", n.Name)
			}
			old := existing.Value.located(ctx, n.NameSpan.start, n.NameSpan.end)
			if value, err = BinaryOp(exec.arith, op, old, rhs); err != nil {
				return Value{}, signalNone, err
			}
		}
	}

	varType := normalizeType(n.Type)
	if varType == "" && found {
		varType = existing.Type
	}
	if !matchesType(value, varType) {
		return Value{}, signalNone, exec.errorAt(n, ctx, AssignTypeError,
			"Can't assign <%s> into '%s' because its <%s>", value.Type(), n.Name, varType)
	}

	name := n.Name
	if found && n.Op != "" {
		name = canonical
	}
	stored := exec.setVariable(ctx, name, value, varType, n.Props)
	return at(stored, n, ctx), signalNone, nil
}

// setVariable binds name according to the declaration modifiers. A value
// still carrying the name of the variable it was read from is stored as an
// alias of that variable.
func (exec *Execution) setVariable(ctx *Context, name string, value Value, varType string, props VarProps) Value {
	symbols := ctx.Symbols
	if props.Global {
		symbols = symbols.Root()
	}
	if props.Const {
		symbols.MarkConst(name)
	}
	if props.Static {
		symbols.MarkStatic(name)
	}

	binding := Variable{Type: varType}
	if source := value.varName(); source != "" && source != name {
		binding.Alias = source
	} else {
		value = value.named(name)
		binding.Value = value
	}
	if props.Public {
		symbols.SetPublic(name, binding)
	} else {
		symbols.SetPrivate(name, binding)
	}
	return value
}

func (exec *Execution) evalIndexAssign(n *IndexAssign, ctx *Context) (Value, signal, error) {
	target, sig, err := exec.eval(n.Target, ctx)
	if halted(sig, err) {
		return target, sig, err
	}
	index, sig, err := exec.eval(n.Index, ctx)
	if halted(sig, err) {
		return index, sig, err
	}

	var element Value
	switch {
	case isStepAssignment(n.Op):
		old, err := Index(target, index)
		if err != nil {
			return Value{}, signalNone, err
		}
		one := NewInt(1).located(ctx, n.Pos(), n.End())
		if element, err = BinaryOp(exec.arith, compoundOperator[n.Op], old.located(ctx, n.Pos(), n.End()), one); err != nil {
			return Value{}, signalNone, err
		}
	default:
		rhs, sig, err := exec.eval(n.Value, ctx)
		if halted(sig, err) {
			return rhs, sig, err
		}
		element = rhs.detached()
		if op, ok := compoundOperator[n.Op]; ok {
			old, err := Index(target, index)
			if err != nil {
				return Value{}, signalNone, err
			}
			if element, err = BinaryOp(exec.arith, op, old.located(ctx, n.Pos(), n.End()), element); err != nil {
				return Value{}, signalNone, err
			}
		}
	}

	updated, err := SetIndex(target, index, element.detached())
	if err != nil {
		return Value{}, signalNone, err
	}
	if err := exec.assignInto(n.Target, updated, ctx); err != nil {
		return Value{}, signalNone, err
	}
	return at(element.detached(), n, ctx), signalNone, nil
}

// assignInto writes an updated container back to the place it was read
// from. Targets that are neither variables nor nested index expressions
// are temporaries and the update is dropped.
func (exec *Execution) assignInto(target Node, updated Value, ctx *Context) error {
	switch t := target.(type) {
	case *VarAccess:
		if ctx.Symbols.IsConst(t.Name) {
			return exec.errorAt(t, ctx, ConstVarError, "'%s' is const variable", t.Name)
		}
		if !ctx.Symbols.Rebind(t.Name, updated) {
			return exec.errorAt(t, ctx, NotDefError, "'%s' isn't defined", t.Name)
		}
		return nil
	case *IndexExpr:
		container, sig, err := exec.eval(t.Target, ctx)
		if halted(sig, err) {
			return err
		}
		index, sig, err := exec.eval(t.Index, ctx)
		if halted(sig, err) {
			return err
		}
		outer, err := SetIndex(container, index, updated.detached())
		if err != nil {
			return err
		}
		return exec.assignInto(t.Target, outer, ctx)
	case *Paren:
		return exec.assignInto(t.Expr, updated, ctx)
	default:
		return nil
	}
}
