package unreal

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
	End() Position
	node()
}

type span struct {
	start Position
	end   Position
}

func (s span) Pos() Position { return s.start }
func (s span) End() Position { return s.end }
func (span) node()           {}

// Body is a control-flow or function body. Block bodies ({ ... }) evaluate
// to none; colon bodies evaluate to their statement's value. Node is nil
// for an empty case body.
type Body struct {
	Node  Node
	Block bool
}

// Statements is a newline-separated sequence. It evaluates to the value of
// its last statement.
type Statements struct {
	span
	List []Node
}

type NumberLit struct {
	span
	Value Decimal
}

// StringLit holds literal text and, for format strings, the parsed
// expressions embedded between braces.
type StringLit struct {
	span
	Parts []StringPart
}

// StringPart is literal text when Expr is nil.
type StringPart struct {
	Text string
	Expr Node
}

type BoolLit struct {
	span
	Value bool
}

type NoneLit struct{ span }

type ObjectLit struct{ span }

type TypeLit struct {
	span
	Name string
}

type ListLit struct {
	span
	Elements []Node
}

type TupleLit struct {
	span
	Elements []Node
}

type SetLit struct {
	span
	Elements []Node
}

type DictLit struct {
	span
	Keys   []Node
	Values []Node
}

// DollarCall is a `$name: args` meta-command.
type DollarCall struct {
	span
	Name     string
	NameSpan span
	Args     []Node
}

type VarAccess struct {
	span
	Name string
}

// VarProps are the declaration modifiers accepted by `var` and `func`.
type VarProps struct {
	Global bool
	Public bool
	Const  bool
	Static bool
}

// VarAssign binds Name. Op is empty for a bare `var x` declaration and
// Value is nil for `++` and `--`.
type VarAssign struct {
	span
	Name     string
	NameSpan span
	Op       TokenType
	Value    Node
	Type     string
	Props    VarProps
}

type IndexExpr struct {
	span
	Target Node
	Index  Node
}

// IndexAssign rebinds an element of the container read by Target.
type IndexAssign struct {
	span
	Target Node
	Index  Node
	Op     TokenType
	Value  Node
}

type MemberExpr struct {
	span
	Target   Node
	Name     string
	NameSpan span
}

type CallArg struct {
	Label     string
	LabelSpan span
	Value     Node
}

type CallExpr struct {
	span
	Callee Node
	Args   []CallArg
}

type Paren struct {
	span
	Expr Node
}

type BinaryExpr struct {
	span
	Op    TokenType
	Left  Node
	Right Node
}

type UnaryExpr struct {
	span
	Op      TokenType
	Operand Node
}

type IfCase struct {
	Cond Node
	Body Body
}

type IfExpr struct {
	span
	Cases []IfCase
	Else  *Body
}

// SwitchCase has a nil Body.Node when it falls through to the next case.
type SwitchCase struct {
	Value Node
	Body  Body
}

type SwitchExpr struct {
	span
	Subject Node
	Cases   []SwitchCase
	Default *Body
}

// ForExpr counts Var from Start (zero when nil) towards End, exclusive.
type ForExpr struct {
	span
	Var     string
	VarSpan span
	Start   Node
	Stop    Node
	Step    Node
	Body    Body
}

type ForeachExpr struct {
	span
	Var      string
	VarSpan  span
	Iterable Node
	Body     Body
}

// LoopExpr is `loop i = start, cond, step`.
type LoopExpr struct {
	span
	Var     string
	VarSpan span
	Start   Node
	Cond    Node
	Step    Node
	Body    Body
}

type WhileExpr struct {
	span
	Cond Node
	Body Body
}

// ExceptClause catches every error when Names is empty.
type ExceptClause struct {
	Names []Node
	Body  Body
}

type TryExpr struct {
	span
	Body    Body
	Excepts []ExceptClause
}

type ParamDecl struct {
	Name     string
	Type     string
	Default  Node
	NameSpan span
}

// FuncDef defines a function; Name is empty for anonymous functions.
type FuncDef struct {
	span
	Name       string
	NameSpan   span
	ReturnType string
	Params     []ParamDecl
	Body       Body
	Props      VarProps
}

type ReturnStmt struct {
	span
	Value Node
}

type ContinueStmt struct {
	span
	Guard Node
}

type BreakStmt struct {
	span
	Guard Node
}

func between(start, end Position) span {
	return span{start: start, end: end}
}
