package unreal

import (
	"sort"
)

const (
	programContextName  = "<program>"
	executedContextName = "<executed-program>"
)

// Variable is one binding. A non-empty Alias makes the binding a reference
// to another name, resolved at lookup time; Value is unused in that case.
type Variable struct {
	Value Value
	Type  string
	Alias string
}

// SymbolTable stores the bindings of one scope. Lookups fall through to the
// parent table.
type SymbolTable struct {
	public  map[string]*Variable
	private map[string]*Variable
	consts  map[string]struct{}
	statics map[string]struct{}
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		public:  make(map[string]*Variable),
		private: make(map[string]*Variable),
		consts:  make(map[string]struct{}),
		statics: make(map[string]struct{}),
		parent:  parent,
	}
}

func (s *SymbolTable) Parent() *SymbolTable { return s.parent }

// Root returns the outermost table of the chain.
func (s *SymbolTable) Root() *SymbolTable {
	t := s
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// Lookup resolves name through the public chain first, then the private
// chain. Aliases are followed until a direct binding is reached; the
// returned name is the one that binding is stored under. An alias cycle
// resolves to nothing.
func (s *SymbolTable) Lookup(name string) (Variable, string, bool) {
	if v, canonical, ok := s.resolve(name, false); ok {
		return v, canonical, true
	}
	return s.resolve(name, true)
}

func (s *SymbolTable) resolve(name string, private bool) (Variable, string, bool) {
	_, v, canonical := s.resolveBinding(name, private)
	if v == nil {
		return Variable{}, "", false
	}
	return *v, canonical, true
}

// resolveBinding returns the table owning the direct binding, the binding
// itself and the name it is stored under. Alias targets are searched from
// the alias's own table, public bindings first.
func (s *SymbolTable) resolveBinding(name string, private bool) (*SymbolTable, *Variable, string) {
	seen := make(map[string]struct{})
	owner, v := s.find(name, private)
	for v != nil && v.Alias != "" {
		if _, looped := seen[name]; looped {
			return nil, nil, ""
		}
		seen[name] = struct{}{}
		table := owner
		name = v.Alias
		if owner, v = table.find(name, false); v == nil {
			owner, v = table.find(name, true)
		}
	}
	if v == nil {
		return nil, nil, ""
	}
	return owner, v, name
}

func (s *SymbolTable) find(name string, private bool) (*SymbolTable, *Variable) {
	for t := s; t != nil; t = t.parent {
		scope := t.public
		if private {
			scope = t.private
		}
		if v, ok := scope[name]; ok {
			return t, v
		}
	}
	return nil, nil
}

// Local returns the binding stored in this table without following the
// parent chain or aliases.
func (s *SymbolTable) Local(name string) (Variable, bool) {
	if v, ok := s.public[name]; ok {
		return *v, true
	}
	if v, ok := s.private[name]; ok {
		return *v, true
	}
	return Variable{}, false
}

// SetPublic binds name in this table, replacing a private binding of the
// same name.
func (s *SymbolTable) SetPublic(name string, v Variable) {
	delete(s.private, name)
	s.public[name] = &v
}

func (s *SymbolTable) SetPrivate(name string, v Variable) {
	delete(s.public, name)
	s.private[name] = &v
}

// Rebind replaces the value of an existing binding wherever it lives in the
// chain, following aliases. It reports false when name is not bound.
func (s *SymbolTable) Rebind(name string, value Value) bool {
	_, v, canonical := s.resolveBinding(name, false)
	if v == nil {
		_, v, canonical = s.resolveBinding(name, true)
	}
	if v == nil {
		return false
	}
	v.Value = value.named(canonical)
	return true
}

// Remove drops a public binding from this table only.
func (s *SymbolTable) Remove(name string) {
	delete(s.public, name)
}

func (s *SymbolTable) MarkConst(name string) {
	s.consts[name] = struct{}{}
}

func (s *SymbolTable) MarkStatic(name string) {
	s.statics[name] = struct{}{}
}

// IsConst reports whether name was declared const in this table or any
// enclosing one.
func (s *SymbolTable) IsConst(name string) bool {
	for t := s; t != nil; t = t.parent {
		if _, ok := t.consts[name]; ok {
			return true
		}
	}
	return false
}

// IsLocalConst ignores enclosing tables.
func (s *SymbolTable) IsLocalConst(name string) bool {
	_, ok := s.consts[name]
	return ok
}

func (s *SymbolTable) IsStatic(name string) bool {
	for t := s; t != nil; t = t.parent {
		if _, ok := t.statics[name]; ok {
			return true
		}
	}
	return false
}

// Names lists every name visible from this table, sorted.
func (s *SymbolTable) Names() []string {
	set := make(map[string]struct{})
	for t := s; t != nil; t = t.parent {
		for name := range t.public {
			set[name] = struct{}{}
		}
		for name := range t.private {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Context is a runtime frame. Parent and Entry describe the caller and the
// call site, and feed tracebacks; Symbols holds the lexical scope.
type Context struct {
	Name    string
	Parent  *Context
	Entry   Position
	Symbols *SymbolTable
}

func NewContext(name string, symbols *SymbolTable, parent *Context, entry Position) *Context {
	if symbols == nil {
		symbols = NewSymbolTable(nil)
	}
	return &Context{Name: name, Parent: parent, Entry: entry, Symbols: symbols}
}

// Lookup is shorthand for Symbols.Lookup returning only the value.
func (c *Context) Lookup(name string) (Value, bool) {
	v, _, ok := c.Symbols.Lookup(name)
	if !ok {
		return Value{}, false
	}
	return v.Value, true
}
