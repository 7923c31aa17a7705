package unreal

import (
	"errors"
	"io"
	"io/fs"
	"math"
	"strings"
	"time"
)

type globalEntry struct {
	name  string
	value Value
}

// builtins lists the global names every fresh scope starts with. All of
// them are registered const.
func (e *Engine) builtins() []globalEntry {
	entries := []globalEntry{
		{"null", NewInt(0)},
		{"empty", NewString("")},
	}
	add := func(name string, fn BuiltinFunc, params ...Param) {
		entries = append(entries, globalEntry{name, NewBuiltin(&Builtin{Name: name, Params: params, Fn: fn})})
	}
	add("print", builtinPrint, optional("value", "", NewString("")), optional("end", typeStr, NewString("\n")))
	add("input", builtinInput, optional("label", typeStr, NewString("")))
	for _, pred := range typePredicates {
		add(pred.name, pred.fn(), required("value", ""))
	}
	add("clear", builtinClear)
	add("exit", builtinExit, optional("exit_code", typeNum, NewInt(0)))
	add("execute", builtinExecute, required("fn", typeStr))
	add("wait", builtinWait, optional("time", typeNum, NewInt(0)))
	return entries
}

// fail reports an error spanning the call expression.
func (c Call) fail(kind, format string, args ...any) error {
	return newRuntimeError(kind, c.Start, c.End, c.Context, format, args...)
}

func builtinPrint(exec *Execution, call Call) (Value, error) {
	text := call.Arg("value").PrintString()
	if exec.engine.mode != ModeNone {
		if _, err := io.WriteString(exec.engine.config.Stdout, text+call.Arg("end").Str()); err != nil {
			return Value{}, err
		}
	}
	return NewString(text), nil
}

func builtinInput(exec *Execution, call Call) (Value, error) {
	if exec.engine.mode != ModeNone {
		if _, err := io.WriteString(exec.engine.config.Stdout, call.Arg("label").Str()); err != nil {
			return Value{}, err
		}
	}
	line, err := exec.engine.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Value{}, err
	}
	return NewString(strings.TrimRight(line, "\r\n")), nil
}

type typePredicate struct {
	name  string
	kinds []ValueKind
}

var typePredicates = []typePredicate{
	{"isType", []ValueKind{KindType}},
	{"isObject", []ValueKind{KindObject}},
	{"isNone", []ValueKind{KindNone}},
	{"isNum", []ValueKind{KindNumber}},
	{"isBool", []ValueKind{KindBool}},
	{"isStr", []ValueKind{KindString}},
	{"isList", []ValueKind{KindList}},
	{"isTuple", []ValueKind{KindTuple}},
	{"isDict", []ValueKind{KindDict}},
	{"isSet", []ValueKind{KindSet}},
	{"isFunction", []ValueKind{KindFunction, KindBuiltin, KindMethod}},
}

func (p typePredicate) fn() BuiltinFunc {
	return func(_ *Execution, call Call) (Value, error) {
		kind := call.Arg("value").Kind()
		for _, k := range p.kinds {
			if kind == k {
				return NewBool(true), nil
			}
		}
		return NewBool(false), nil
	}
}

func builtinClear(exec *Execution, _ Call) (Value, error) {
	if err := exec.engine.config.ClearScreen(exec.engine.config.Stdout); err != nil {
		return Value{}, err
	}
	return NewNone(), nil
}

// builtinExit stops the program with an *ExitError; the host decides how
// to leave.
func builtinExit(_ *Execution, call Call) (Value, error) {
	code := call.Arg("exit_code")
	d := code.Number()
	if !d.IsInt() {
		return Value{}, errorAt(code).fail(call.Context, FloatError, "'exit_code' must be int")
	}
	n, ok := d.Int64()
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return Value{}, errorAt(code).fail(call.Context, LimitError,
			"'exit_code' can't be greater than %d or less than %d", math.MaxInt32, math.MinInt32)
	}
	return Value{}, &ExitError{Code: int(n)}
}

// builtinExecute runs another file to completion in its own global scope.
func builtinExecute(exec *Execution, call Call) (Value, error) {
	name := call.Arg("fn").Str()
	data, err := exec.engine.config.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Value{}, call.fail(FileNotExistError, "%s doesn't exist", name)
		}
		return Value{}, call.fail(ExecutionError, "Failed to finish executing %s:\n\n%s", name, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if err := exec.enterCall(call.Start, call.End, call.Context); err != nil {
		return Value{}, err
	}
	defer exec.leaveCall()
	scope := exec.engine.newGlobalContext(executedContextName)
	result, err := exec.engine.ExecuteIn(exec.runCtx, scope, name, text)
	if err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			return Value{}, err
		}
		return Value{}, call.fail(ExecutionError, "Failed to finish executing %s:\n\n%s", name, err)
	}
	return result, nil
}

func builtinWait(exec *Execution, call Call) (Value, error) {
	ms := call.Arg("time")
	d := ms.Number()
	n, ok := d.Int64()
	if !d.IsInt() || !ok {
		return Value{}, errorAt(ms).fail(call.Context, TypeError, "'time' must be int")
	}
	if n > 0 {
		exec.engine.config.Sleep(time.Duration(n) * time.Millisecond)
	}
	return NewNone(), nil
}
