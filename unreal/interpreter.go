package unreal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Engine runs Unreal programs against a persistent global scope. An Engine
// is not safe for concurrent use.
type Engine struct {
	config  Config
	arith   *Arith
	mode    Mode
	globals *Context
	stdin   *bufio.Reader
	depth   int
}

// NewEngine constructs an Engine, filling unset Config fields with defaults
// and registering the built-ins in a fresh global scope.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Mode != 0 && !cfg.Mode.valid() {
		return nil, fmt.Errorf("unreal: mode must be 1, 2 or 3, got %d", int(cfg.Mode))
	}
	if cfg.MaxDecimalPlaces < 0 {
		return nil, fmt.Errorf("unreal: max decimal places must not be negative")
	}
	cfg = cfg.withDefaults()
	engine := &Engine{
		config: cfg,
		arith:  NewArith(cfg.MaxDecimalPlaces, cfg.LnIterations, cfg.ExpIterations),
		mode:   cfg.Mode,
		stdin:  bufio.NewReader(cfg.Stdin),
	}
	engine.arith.maxLength = cfg.MaxSequenceLength
	engine.globals = engine.newGlobalContext(programContextName)
	return engine, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Mode() Mode { return e.mode }

// SetMode changes the output mode. Invalid modes are ignored.
func (e *Engine) SetMode(m Mode) {
	if m.valid() {
		e.mode = m
	}
}

// Globals returns the global context programs run in.
func (e *Engine) Globals() *Context { return e.globals }

// Reset discards every global binding and registers the built-ins again.
func (e *Engine) Reset() {
	e.globals = e.newGlobalContext(programContextName)
}

func (e *Engine) newGlobalContext(name string) *Context {
	symbols := NewSymbolTable(nil)
	for _, b := range e.builtins() {
		symbols.SetPublic(b.name, Variable{Value: b.value.named(b.name)})
		symbols.MarkConst(b.name)
	}
	return NewContext(name, symbols, nil, Position{})
}

// Program is a parsed source text. A Program with no statements evaluates
// to none.
type Program struct {
	Source string
	root   *Statements
}

// Empty reports whether the source held no statements.
func (p *Program) Empty() bool { return p.root == nil }

// Compile tokenizes and parses text. Input holding only whitespace,
// comments or statement separators yields an empty Program.
func (e *Engine) Compile(source, text string) (*Program, error) {
	tokens, err := Tokenize(source, text, e.arith.Places())
	if err != nil {
		return nil, err
	}
	if blank(tokens) {
		return &Program{Source: source}, nil
	}
	root, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{Source: source, root: root}, nil
}

func blank(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Type != tokenNewline && tok.Type != tokenEOF {
			return false
		}
	}
	return true
}

// Execute runs text in the global context and returns the value of its
// last statement.
func (e *Engine) Execute(source, text string) (Value, error) {
	return e.ExecuteIn(context.Background(), e.globals, source, text)
}

// ExecuteContext is Execute with cancellation. The context is checked on
// every loop iteration and function call.
func (e *Engine) ExecuteContext(ctx context.Context, source, text string) (Value, error) {
	return e.ExecuteIn(ctx, e.globals, source, text)
}

// ExecuteIn runs text in the given scope.
func (e *Engine) ExecuteIn(ctx context.Context, scope *Context, source, text string) (Value, error) {
	program, err := e.Compile(source, text)
	if err != nil {
		return Value{}, err
	}
	return e.Run(ctx, program, scope)
}

// Run evaluates a compiled program in scope.
func (e *Engine) Run(ctx context.Context, program *Program, scope *Context) (Value, error) {
	if program.Empty() {
		return NewNone(), nil
	}
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	exec := newExecution(e, ctx)
	v, _, err := exec.eval(program.root, scope)
	if err != nil {
		return Value{}, err
	}
	return v.detached(), nil
}

// DebugReport is the diagnostic payload of one run: empty on success,
// otherwise the error's name, details and source offsets.
type DebugReport struct {
	Failed  bool
	Name    string
	Details string
	Start   int
	End     int
}

func (r DebugReport) String() string {
	if !r.Failed {
		return ""
	}
	return r.Name + ": " + r.Details + "\n" + strconv.Itoa(r.Start) + "\n" + strconv.Itoa(r.End)
}

// Debug runs text like Execute and reports the outcome as a DebugReport.
// A program that calls exit counts as finished.
func (e *Engine) Debug(source, text string) DebugReport {
	_, err := e.Execute(source, text)
	var exit *ExitError
	if err == nil || errors.As(err, &exit) {
		return DebugReport{}
	}
	name, details, start, end := errorSpan(err)
	return DebugReport{Failed: true, Name: name, Details: details, Start: start, End: end}
}
