package unreal

import (
	"errors"
)

// evalBody runs a body. Block bodies evaluate to none; single-statement
// bodies evaluate to their statement.
func (exec *Execution) evalBody(b Body, ctx *Context, start, end Position) (Value, signal, error) {
	none := NewNone().located(ctx, start, end)
	if b.Node == nil {
		return none, signalNone, nil
	}
	v, sig, err := exec.eval(b.Node, ctx)
	if halted(sig, err) {
		return v, sig, err
	}
	if b.Block {
		return none, signalNone, nil
	}
	return v, signalNone, nil
}

func (exec *Execution) evalIf(n *IfExpr, ctx *Context) (Value, signal, error) {
	for _, c := range n.Cases {
		cond, sig, err := exec.eval(c.Cond, ctx)
		if halted(sig, err) {
			return cond, sig, err
		}
		if cond.Truthy() {
			return exec.evalBody(c.Body, ctx, n.Pos(), n.End())
		}
	}
	if n.Else != nil {
		return exec.evalBody(*n.Else, ctx, n.Pos(), n.End())
	}
	return at(NewNone(), n, ctx), signalNone, nil
}

// evalSwitch compares the subject against each case in order. A matching
// case without a body falls through to the next case that has one.
func (exec *Execution) evalSwitch(n *SwitchExpr, ctx *Context) (Value, signal, error) {
	subject, sig, err := exec.eval(n.Subject, ctx)
	if halted(sig, err) {
		return subject, sig, err
	}
	matched := false
	for _, c := range n.Cases {
		if !matched {
			v, sig, err := exec.eval(c.Value, ctx)
			if halted(sig, err) {
				return v, sig, err
			}
			matched = subject.Equal(v)
		}
		if matched && c.Body.Node != nil {
			return exec.evalBody(c.Body, ctx, n.Pos(), n.End())
		}
	}
	if n.Default != nil {
		return exec.evalBody(*n.Default, ctx, n.Pos(), n.End())
	}
	return at(NewNone(), n, ctx), signalNone, nil
}

// iterate runs one loop body inside a loop frame. It reports whether the
// loop should stop, and passes a return signal through.
func (exec *Execution) iterate(b Body, ctx *Context, n Node, results *[]Value) (stop bool, ret Value, sig signal, err error) {
	if err := exec.interrupted(); err != nil {
		return true, Value{}, signalNone, err
	}
	exec.pushFrame(frameLoop)
	v, sig, err := exec.evalBody(b, ctx, n.Pos(), n.End())
	exec.popFrame()
	if err != nil {
		return true, Value{}, signalNone, err
	}
	switch sig {
	case signalReturn:
		return true, v, sig, nil
	case signalBreak:
		return true, Value{}, signalNone, nil
	case signalContinue:
		return false, Value{}, signalNone, nil
	}
	*results = append(*results, v.detached())
	return false, Value{}, signalNone, nil
}

// loopResult collects the iteration values of a single-statement body.
// Block bodies evaluate to none.
func (exec *Execution) loopResult(n Node, body Body, ctx *Context, results []Value) Value {
	if body.Block {
		return at(NewNone(), n, ctx)
	}
	return at(NewList(results), n, ctx)
}

func (exec *Execution) numberOperand(node Node, ctx *Context, what string) (Value, signal, error) {
	v, sig, err := exec.eval(node, ctx)
	if halted(sig, err) {
		return v, sig, err
	}
	if !isNumber(v) {
		return Value{}, signalNone, exec.errorAt(node, ctx, TypeError, "%s value must be <%s>", what, typeNum)
	}
	return v, signalNone, nil
}

func (exec *Execution) evalFor(n *ForExpr, ctx *Context) (Value, signal, error) {
	if ctx.Symbols.IsConst(n.Var) {
		return Value{}, signalNone, exec.errorIn(n.VarSpan, ctx, ConstVarError, "'%s' is const variable", n.Var)
	}
	start := NewInt(0).located(ctx, n.Pos(), n.End())
	if n.Start != nil {
		v, sig, err := exec.numberOperand(n.Start, ctx, "Start")
		if halted(sig, err) {
			return v, sig, err
		}
		start = v
	}
	stop, sig, err := exec.numberOperand(n.Stop, ctx, "End")
	if halted(sig, err) {
		return stop, sig, err
	}
	step := NewInt(1)
	if n.Step != nil {
		v, sig, err := exec.numberOperand(n.Step, ctx, "Step")
		if halted(sig, err) {
			return v, sig, err
		}
		step = v
	}

	ascending := step.Number().Sign() >= 0
	limit := stop.Number()
	i := start.Number()
	var results []Value
	defer ctx.Symbols.Remove(n.Var)
	for {
		cmp := i.Cmp(limit)
		if (ascending && cmp >= 0) || (!ascending && cmp <= 0) {
			break
		}
		ctx.Symbols.SetPublic(n.Var, Variable{Value: NewNumber(i).named(n.Var)})
		done, ret, sig, err := exec.iterate(n.Body, ctx, n, &results)
		if err != nil || sig == signalReturn {
			return ret, sig, err
		}
		if done {
			break
		}
		i = exec.arith.Add(i, step.Number())
	}
	return exec.loopResult(n, n.Body, ctx, results), signalNone, nil
}

func (exec *Execution) evalForeach(n *ForeachExpr, ctx *Context) (Value, signal, error) {
	if ctx.Symbols.IsConst(n.Var) {
		return Value{}, signalNone, exec.errorIn(n.VarSpan, ctx, ConstVarError, "'%s' is const variable", n.Var)
	}
	iterable, sig, err := exec.eval(n.Iterable, ctx)
	if halted(sig, err) {
		return iterable, sig, err
	}
	var items []Value
	switch iterable.kind {
	case KindString:
		for _, r := range iterable.Str() {
			items = append(items, NewString(string(r)))
		}
	case KindList, KindTuple:
		items = iterable.Elements()
	default:
		return Value{}, signalNone, exec.errorAt(n.Iterable, ctx, IterationError, "Can't iterate inside <%s>", iterable.Type())
	}

	var results []Value
	defer ctx.Symbols.Remove(n.Var)
	for _, item := range items {
		ctx.Symbols.SetPublic(n.Var, Variable{Value: item.detached().named(n.Var)})
		done, ret, sig, err := exec.iterate(n.Body, ctx, n, &results)
		if err != nil || sig == signalReturn {
			return ret, sig, err
		}
		if done {
			break
		}
	}
	return exec.loopResult(n, n.Body, ctx, results), signalNone, nil
}

// evalLoop runs `loop i = start, cond, step`. The step expression runs
// after every iteration, including ones ended by continue.
func (exec *Execution) evalLoop(n *LoopExpr, ctx *Context) (Value, signal, error) {
	if ctx.Symbols.IsConst(n.Var) {
		return Value{}, signalNone, exec.errorIn(n.VarSpan, ctx, ConstVarError, "'%s' is const variable", n.Var)
	}
	start, sig, err := exec.eval(n.Start, ctx)
	if halted(sig, err) {
		return start, sig, err
	}
	ctx.Symbols.SetPublic(n.Var, Variable{Value: start.detached().named(n.Var)})
	defer ctx.Symbols.Remove(n.Var)

	var results []Value
	for {
		cond, sig, err := exec.eval(n.Cond, ctx)
		if halted(sig, err) {
			return cond, sig, err
		}
		if !cond.Truthy() {
			break
		}
		done, ret, sig, err := exec.iterate(n.Body, ctx, n, &results)
		if err != nil || sig == signalReturn {
			return ret, sig, err
		}
		if done {
			break
		}
		if v, sig, err := exec.eval(n.Step, ctx); halted(sig, err) {
			return v, sig, err
		}
	}
	return exec.loopResult(n, n.Body, ctx, results), signalNone, nil
}

func (exec *Execution) evalWhile(n *WhileExpr, ctx *Context) (Value, signal, error) {
	var results []Value
	for {
		cond, sig, err := exec.eval(n.Cond, ctx)
		if halted(sig, err) {
			return cond, sig, err
		}
		if !cond.Truthy() {
			break
		}
		done, ret, sig, err := exec.iterate(n.Body, ctx, n, &results)
		if err != nil || sig == signalReturn {
			return ret, sig, err
		}
		if done {
			break
		}
	}
	return exec.loopResult(n, n.Body, ctx, results), signalNone, nil
}

// evalTry runs the body and hands runtime errors to the first except
// clause that names the error's kind or details. An error no clause
// catches is raised again; a try without clauses swallows everything.
func (exec *Execution) evalTry(n *TryExpr, ctx *Context) (Value, signal, error) {
	frames := len(exec.frames)
	v, sig, err := exec.evalBody(n.Body, ctx, n.Pos(), n.End())
	if err == nil {
		return v, sig, nil
	}
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		return Value{}, signalNone, err
	}
	exec.frames = exec.frames[:frames]
	if len(n.Excepts) == 0 {
		return at(NewNone(), n, ctx), signalNone, nil
	}
	for _, clause := range n.Excepts {
		ok, err := exec.catches(clause, runtimeErr, ctx)
		if err != nil {
			return Value{}, signalNone, err
		}
		if ok {
			return exec.evalBody(clause.Body, ctx, n.Pos(), n.End())
		}
	}
	return Value{}, signalNone, err
}

func (exec *Execution) catches(clause ExceptClause, runtimeErr *RuntimeError, ctx *Context) (bool, error) {
	if len(clause.Names) == 0 {
		return true, nil
	}
	for _, node := range clause.Names {
		name, sig, err := exec.eval(node, ctx)
		if halted(sig, err) {
			return false, err
		}
		if name.kind != KindString {
			return false, exec.errorAt(node, ctx, TypeError, "Exception must be <%s>", typeStr)
		}
		if runtimeErr.Matches(name.Str()) {
			return true, nil
		}
	}
	return false, nil
}

func (exec *Execution) evalReturn(n *ReturnStmt, ctx *Context) (Value, signal, error) {
	if !exec.inFunction() {
		return Value{}, signalNone, exec.errorAt(n, ctx, ReturnError, "'return' can't be outside of the function")
	}
	if n.Value == nil {
		return at(NewNone(), n, ctx), signalReturn, nil
	}
	v, sig, err := exec.eval(n.Value, ctx)
	if halted(sig, err) {
		return v, sig, err
	}
	return v, signalReturn, nil
}

func (exec *Execution) evalLoopSignal(n Node, guard Node, sig signal, kind, keyword string, ctx *Context) (Value, signal, error) {
	if !exec.inLoop() {
		return Value{}, signalNone, exec.errorAt(n, ctx, kind,
			"'%s' can't be outside of the iteration statements (for, loop, foreach and while)", keyword)
	}
	none := at(NewNone(), n, ctx)
	if guard != nil {
		cond, guardSig, err := exec.eval(guard, ctx)
		if halted(guardSig, err) {
			return cond, guardSig, err
		}
		if !cond.Truthy() {
			return none, signalNone, nil
		}
	}
	return none, sig, nil
}
