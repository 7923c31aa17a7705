package unreal

import (
	"context"
	"fmt"
)

// signal reports how evaluation of a node ended. Anything other than
// signalNone unwinds to the nearest construct that consumes it.
type signal int

const (
	signalNone signal = iota
	signalReturn
	signalContinue
	signalBreak
)

type frameKind int

const (
	frameFunction frameKind = iota
	frameLoop
)

// Execution evaluates one program against an engine. The frame stack
// records the function and loop bodies currently being evaluated.
type Execution struct {
	engine *Engine
	arith  *Arith
	runCtx context.Context
	frames []frameKind
}

func newExecution(engine *Engine, runCtx context.Context) *Execution {
	return &Execution{engine: engine, arith: engine.arith, runCtx: runCtx}
}

// interrupted reports cancellation of the host context.
func (exec *Execution) interrupted() error {
	if err := exec.runCtx.Err(); err != nil {
		return fmt.Errorf("unreal: execution interrupted: %w", err)
	}
	return nil
}

// Engine returns the engine running this execution.
func (exec *Execution) Engine() *Engine { return exec.engine }

// enterCall counts one level of call nesting against the recursion limit.
// Nested execute() runs share the count through the engine.
func (exec *Execution) enterCall(start, end Position, ctx *Context) error {
	limit := exec.engine.config.RecursionLimit
	if exec.engine.depth >= limit {
		return newRuntimeError(LimitError, start, end, ctx, "Maximum recursion depth exceeded (limit %d)", limit)
	}
	exec.engine.depth++
	return nil
}

func (exec *Execution) leaveCall() { exec.engine.depth-- }

func (exec *Execution) pushFrame(kind frameKind) {
	exec.frames = append(exec.frames, kind)
}

func (exec *Execution) popFrame() {
	exec.frames = exec.frames[:len(exec.frames)-1]
}

func (exec *Execution) inFunction() bool {
	for _, kind := range exec.frames {
		if kind == frameFunction {
			return true
		}
	}
	return false
}

// inLoop reports whether the innermost frame is a loop body, so that a
// function called from a loop cannot break out of it.
func (exec *Execution) inLoop() bool {
	return len(exec.frames) > 0 && exec.frames[len(exec.frames)-1] == frameLoop
}

func (exec *Execution) errorAt(n Node, ctx *Context, kind, format string, args ...any) error {
	return newRuntimeError(kind, n.Pos(), n.End(), ctx, format, args...)
}

func (exec *Execution) errorIn(s span, ctx *Context, kind, format string, args ...any) error {
	return newRuntimeError(kind, s.start, s.end, ctx, format, args...)
}

func at(v Value, n Node, ctx *Context) Value {
	return v.located(ctx, n.Pos(), n.End())
}

func halted(sig signal, err error) bool {
	return err != nil || sig != signalNone
}

// eval dispatches on the node type. A non-zero signal means a return,
// continue or break is unwinding and the caller must stop evaluating.
func (exec *Execution) eval(node Node, ctx *Context) (Value, signal, error) {
	switch n := node.(type) {
	case *Statements:
		return exec.evalStatements(n, ctx)
	case *NumberLit:
		return at(NewNumber(n.Value), n, ctx), signalNone, nil
	case *StringLit:
		return exec.evalString(n, ctx)
	case *BoolLit:
		return at(NewBool(n.Value), n, ctx), signalNone, nil
	case *NoneLit:
		return at(NewNone(), n, ctx), signalNone, nil
	case *ObjectLit:
		return at(NewObject(), n, ctx), signalNone, nil
	case *TypeLit:
		return at(NewType(n.Name), n, ctx), signalNone, nil
	case *ListLit:
		items, sig, err := exec.evalAll(n.Elements, ctx)
		if halted(sig, err) {
			return items.last(), sig, err
		}
		return at(NewList(items), n, ctx), signalNone, nil
	case *TupleLit:
		items, sig, err := exec.evalAll(n.Elements, ctx)
		if halted(sig, err) {
			return items.last(), sig, err
		}
		return at(NewTuple(items), n, ctx), signalNone, nil
	case *SetLit:
		items, sig, err := exec.evalAll(n.Elements, ctx)
		if halted(sig, err) {
			return items.last(), sig, err
		}
		return at(NewSet(items), n, ctx), signalNone, nil
	case *DictLit:
		return exec.evalDict(n, ctx)
	case *DollarCall:
		return exec.evalDollar(n, ctx)
	case *VarAccess:
		return exec.evalVarAccess(n, ctx)
	case *VarAssign:
		return exec.evalVarAssign(n, ctx)
	case *IndexExpr:
		return exec.evalIndex(n, ctx)
	case *IndexAssign:
		return exec.evalIndexAssign(n, ctx)
	case *MemberExpr:
		return exec.evalMember(n, ctx)
	case *CallExpr:
		return exec.evalCall(n, ctx)
	case *Paren:
		v, sig, err := exec.eval(n.Expr, ctx)
		if halted(sig, err) {
			return v, sig, err
		}
		return at(v, n, ctx), signalNone, nil
	case *BinaryExpr:
		return exec.evalBinary(n, ctx)
	case *UnaryExpr:
		return exec.evalUnary(n, ctx)
	case *IfExpr:
		return exec.evalIf(n, ctx)
	case *SwitchExpr:
		return exec.evalSwitch(n, ctx)
	case *ForExpr:
		return exec.evalFor(n, ctx)
	case *ForeachExpr:
		return exec.evalForeach(n, ctx)
	case *LoopExpr:
		return exec.evalLoop(n, ctx)
	case *WhileExpr:
		return exec.evalWhile(n, ctx)
	case *TryExpr:
		return exec.evalTry(n, ctx)
	case *FuncDef:
		return exec.evalFuncDef(n, ctx)
	case *ReturnStmt:
		return exec.evalReturn(n, ctx)
	case *ContinueStmt:
		return exec.evalLoopSignal(n, n.Guard, signalContinue, ContinueError, "continue", ctx)
	case *BreakStmt:
		return exec.evalLoopSignal(n, n.Guard, signalBreak, BreakError, "break", ctx)
	default:
		return Value{}, signalNone, fmt.Errorf("unsupported node %T", node)
	}
}

func (exec *Execution) evalStatements(n *Statements, ctx *Context) (Value, signal, error) {
	result := at(NewNone(), n, ctx)
	for _, stmt := range n.List {
		v, sig, err := exec.eval(stmt, ctx)
		if halted(sig, err) {
			return v, sig, err
		}
		result = v
	}
	return result, signalNone, nil
}

type valueList []Value

func (vs valueList) last() Value {
	if len(vs) == 0 {
		return Value{}
	}
	return vs[len(vs)-1]
}

// evalAll evaluates nodes left to right. When a node halts, the returned
// slice ends with the value that carried the signal.
func (exec *Execution) evalAll(nodes []Node, ctx *Context) (valueList, signal, error) {
	items := make(valueList, 0, len(nodes))
	for _, node := range nodes {
		v, sig, err := exec.eval(node, ctx)
		if halted(sig, err) {
			return append(items, v), sig, err
		}
		items = append(items, v)
	}
	return items, signalNone, nil
}

func (exec *Execution) evalString(n *StringLit, ctx *Context) (Value, signal, error) {
	if len(n.Parts) == 1 && n.Parts[0].Expr == nil {
		return at(NewString(n.Parts[0].Text), n, ctx), signalNone, nil
	}
	var text []byte
	for _, part := range n.Parts {
		if part.Expr == nil {
			text = append(text, part.Text...)
			continue
		}
		v, sig, err := exec.eval(part.Expr, ctx)
		if halted(sig, err) {
			return v, sig, err
		}
		text = append(text, v.PrintString()...)
	}
	return at(NewString(string(text)), n, ctx), signalNone, nil
}

func (exec *Execution) evalDict(n *DictLit, ctx *Context) (Value, signal, error) {
	keys := make([]Value, 0, len(n.Keys))
	vals := make([]Value, 0, len(n.Values))
	for i := range n.Keys {
		k, sig, err := exec.eval(n.Keys[i], ctx)
		if halted(sig, err) {
			return k, sig, err
		}
		v, sig, err := exec.eval(n.Values[i], ctx)
		if halted(sig, err) {
			return v, sig, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	return at(NewDict(keys, vals), n, ctx), signalNone, nil
}

func (exec *Execution) evalVarAccess(n *VarAccess, ctx *Context) (Value, signal, error) {
	v, _, ok := ctx.Symbols.Lookup(n.Name)
	if !ok {
		return Value{}, signalNone, exec.errorAt(n, ctx, NotDefError, "'%s' isn't defined", n.Name)
	}
	return at(v.Value, n, ctx), signalNone, nil
}

func (exec *Execution) evalIndex(n *IndexExpr, ctx *Context) (Value, signal, error) {
	target, sig, err := exec.eval(n.Target, ctx)
	if halted(sig, err) {
		return target, sig, err
	}
	index, sig, err := exec.eval(n.Index, ctx)
	if halted(sig, err) {
		return index, sig, err
	}
	v, err := Index(target, index)
	if err != nil {
		return Value{}, signalNone, err
	}
	return at(v.detached(), n, ctx), signalNone, nil
}

func (exec *Execution) evalMember(n *MemberExpr, ctx *Context) (Value, signal, error) {
	target, sig, err := exec.eval(n.Target, ctx)
	if halted(sig, err) {
		return target, sig, err
	}
	method, ok := member(target, n.Name)
	if !ok {
		return Value{}, signalNone, exec.errorIn(n.NameSpan, ctx, NotDefError, "'%s' isn't defined", n.Name)
	}
	return at(method, n, ctx), signalNone, nil
}

func (exec *Execution) evalBinary(n *BinaryExpr, ctx *Context) (Value, signal, error) {
	left, sig, err := exec.eval(n.Left, ctx)
	if halted(sig, err) {
		return left, sig, err
	}
	right, sig, err := exec.eval(n.Right, ctx)
	if halted(sig, err) {
		return right, sig, err
	}
	v, err := BinaryOp(exec.arith, n.Op, left, right)
	if err != nil {
		return Value{}, signalNone, err
	}
	return at(v, n, ctx), signalNone, nil
}

func (exec *Execution) evalUnary(n *UnaryExpr, ctx *Context) (Value, signal, error) {
	operand, sig, err := exec.eval(n.Operand, ctx)
	if halted(sig, err) {
		return operand, sig, err
	}
	v, err := UnaryOp(exec.arith, n.Op, operand)
	if err != nil {
		return Value{}, signalNone, err
	}
	return at(v, n, ctx), signalNone, nil
}
