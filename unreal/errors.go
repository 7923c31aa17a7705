package unreal

import (
	"errors"
	"fmt"
	"strings"
)

const (
	illegalCharName    = "Illegal Character Error"
	invalidSyntaxName  = "Invalid Syntax Error"
	runtimeErrorHeader = "Runtime Error"
)

// Runtime error kinds. Kinds are the tags matched by `except` clauses.
const (
	ArgCountError     = "ArgCountError"
	ArgNotDefError    = "ArgNotDefError"
	AssignTypeError   = "AssignTypeError"
	BreakError        = "BreakError"
	ConstVarError     = "ConstVarError"
	ContinueError     = "ContinueError"
	DivByZeroError    = "DivByZeroError"
	ExecutionError    = "ExecutionError"
	FileNotExistError = "FileNotExistError"
	FloatError        = "FloatError"
	IllegalOpError    = "IllegalOpError"
	InvValueError     = "InvValueError"
	IterationError    = "IterationError"
	KeyError          = "KeyError"
	LenError          = "LenError"
	LimitError        = "LimitError"
	NotDefError       = "NotDefError"
	RangeError        = "RangeError"
	ReturnError       = "ReturnError"
	ReturnTypeError   = "ReturnTypeError"
	TypeError         = "Type"
)

// SyntaxError reports an illegal character or a grammar violation. It is
// never catchable from scripts.
type SyntaxError struct {
	Name    string
	Details string
	Start   Position
	End     Position
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("\n")
	if e.Details != "" {
		fmt.Fprintf(&b, "%s: %s\n", e.Name, e.Details)
	} else {
		fmt.Fprintf(&b, "%s\n", e.Name)
	}
	fmt.Fprintf(&b, "File %s, line %d\n", e.Start.File, e.Start.Line)
	if frame := formatCodeFrame(e.Start); frame != "" {
		b.WriteString(frame)
		b.WriteString("\n")
	}
	return b.String()
}

// ExitError is returned when a script calls exit. It is not a failure; the
// host decides what to do with Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// StackFrame is one traceback entry.
type StackFrame struct {
	Context string
	Pos     Position
}

// RuntimeError is raised during evaluation and carries the context active at
// the failure site.
type RuntimeError struct {
	Kind    string
	Details string
	Start   Position
	End     Position
	Context *Context
}

func newRuntimeError(kind string, start, end Position, ctx *Context, format string, args ...any) *RuntimeError {
	details := format
	if len(args) > 0 {
		details = fmt.Sprintf(format, args...)
	}
	return &RuntimeError{Kind: kind, Details: details, Start: start, End: end, Context: ctx}
}

// Frames walks the context chain, pairing each context with the position at
// which execution was inside it. The outermost frame comes first.
func (e *RuntimeError) Frames() []StackFrame {
	var frames []StackFrame
	pos := e.Start
	for ctx := e.Context; ctx != nil; ctx = ctx.Parent {
		frames = append(frames, StackFrame{Context: ctx.Name, Pos: pos})
		pos = ctx.Entry
	}
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
	return frames
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(e.Traceback())
	fmt.Fprintf(&b, "\n%s: %s\n", runtimeErrorHeader, e.Details)
	fmt.Fprintf(&b, "Error type: %s\n", e.Kind)
	if frame := formatCodeFrame(e.Start); frame != "" {
		b.WriteString(frame)
		b.WriteString("\n")
	}
	return b.String()
}

// Matches reports whether an except clause naming name catches this error.
func (e *RuntimeError) Matches(name string) bool {
	return name == e.Kind || name == e.Details
}

// errorSpan extracts the name, details and offsets of an error produced by
// the engine. Unknown errors report their text with empty offsets.
func errorSpan(err error) (name, details string, start, end int) {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Name, syntaxErr.Details, syntaxErr.Start.Offset, syntaxErr.End.Offset
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return runtimeErrorHeader, runtimeErr.Details, runtimeErr.Start.Offset, runtimeErr.End.Offset
	}
	return "Error", err.Error(), 0, 0
}
