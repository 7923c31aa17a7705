package unreal

type parser struct {
	tokens []Token
	idx    int
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens}
}

// Parse builds the syntax tree for a token stream produced by Tokenize. The
// first grammar violation aborts the parse.
func Parse(tokens []Token) (*Statements, error) {
	p := newParser(tokens)
	program, err := p.statements()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != tokenEOF {
		return nil, p.errorExpected(p.cur(), "EOF")
	}
	return program, nil
}

func (p *parser) cur() Token {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	if len(p.tokens) == 0 {
		return Token{Type: tokenEOF}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) peek() Token {
	if p.idx+1 < len(p.tokens) {
		return p.tokens[p.idx+1]
	}
	return p.cur()
}

func (p *parser) advance() {
	if p.idx < len(p.tokens) {
		p.idx++
	}
}

// prevEnd is the end of the last consumed token.
func (p *parser) prevEnd() Position {
	if p.idx == 0 || len(p.tokens) == 0 {
		return p.cur().Pos
	}
	return p.tokens[p.idx-1].End
}

func (p *parser) skipNewlines() int {
	n := 0
	for p.cur().Type == tokenNewline {
		p.advance()
		n++
	}
	return n
}

func (p *parser) expect(tt TokenType) error {
	if p.cur().Type != tt {
		return p.errorExpected(p.cur(), "'"+string(tt)+"'")
	}
	p.advance()
	return nil
}

// attempt runs an optional production and rewinds the cursor when it fails.
func (p *parser) attempt(parse func() (Node, error)) (Node, bool) {
	mark := p.idx
	n, err := parse()
	if err != nil {
		p.idx = mark
		return nil, false
	}
	return n, true
}

// statements parses one statement, then keeps taking statements for as long
// as they are separated by newlines and parse cleanly.
func (p *parser) statements() (*Statements, error) {
	p.skipNewlines()
	start := p.cur().Pos
	first, err := p.statement()
	if err != nil {
		return nil, err
	}
	list := []Node{first}
	for p.cur().Type == tokenNewline {
		p.skipNewlines()
		stmt, ok := p.attempt(p.statement)
		if !ok {
			break
		}
		list = append(list, stmt)
	}
	return &Statements{span: between(start, p.prevEnd()), List: list}, nil
}

func (p *parser) statement() (Node, error) {
	tok := p.cur()
	switch {
	case tok.isKeyword("return"):
		p.advance()
		value, _ := p.attempt(func() (Node, error) { return p.generalList(false) })
		return &ReturnStmt{span: between(tok.Pos, p.prevEnd()), Value: value}, nil
	case tok.isKeyword("continue"):
		p.advance()
		guard, err := p.guard()
		if err != nil {
			return nil, err
		}
		return &ContinueStmt{span: between(tok.Pos, p.prevEnd()), Guard: guard}, nil
	case tok.isKeyword("break"):
		p.advance()
		guard, err := p.guard()
		if err != nil {
			return nil, err
		}
		return &BreakStmt{span: between(tok.Pos, p.prevEnd()), Guard: guard}, nil
	default:
		return p.generalList(true)
	}
}

// guard parses the optional `if <cond>` trailing continue and break.
func (p *parser) guard() (Node, error) {
	if !p.cur().isKeyword("if") {
		return nil, nil
	}
	p.advance()
	return p.generalList(false)
}

// generalList parses comma-separated expressions into a tuple. A single
// expression stands alone unless the list opens with a comma. At statement
// level the elements may also be return, continue or break.
func (p *parser) generalList(statementLevel bool) (Node, error) {
	start := p.cur().Pos
	forced := false
	if p.cur().Type == tokenComma {
		p.advance()
		forced = true
	}
	element := p.typeExpr
	if statementLevel {
		element = p.listElement
	}
	first, err := element()
	if err != nil {
		return nil, err
	}
	elements := []Node{first}
	for p.cur().Type == tokenComma {
		p.advance()
		next, err := element()
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}
	if len(elements) == 1 && !forced {
		return first, nil
	}
	return &TupleLit{span: between(start, p.prevEnd()), Elements: elements}, nil
}

func (p *parser) listElement() (Node, error) {
	tok := p.cur()
	if tok.isKeyword("return") || tok.isKeyword("continue") || tok.isKeyword("break") {
		return p.statement()
	}
	return p.typeExpr()
}
