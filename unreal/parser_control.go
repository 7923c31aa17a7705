package unreal

// body parses `{ statements }` or `: statement`. With allowEmpty, a colon
// directly followed by case, default or `}` yields an empty body; switch
// cases use this to fall through.
func (p *parser) body(allowEmpty bool) (Body, error) {
	p.skipNewlines()
	if p.cur().Type == tokenLBrace {
		p.advance()
		p.skipNewlines()
		if p.cur().Type == tokenRBrace {
			p.advance()
			return Body{Block: true}, nil
		}
		stmts, err := p.statements()
		if err != nil {
			return Body{}, err
		}
		if err := p.expect(tokenRBrace); err != nil {
			return Body{}, err
		}
		return Body{Node: stmts, Block: true}, nil
	}
	if err := p.expect(tokenColon); err != nil {
		return Body{}, err
	}
	mark := p.idx
	p.skipNewlines()
	if allowEmpty && p.endsCase() {
		p.idx = mark
		return Body{}, nil
	}
	stmt, err := p.statement()
	if err != nil {
		return Body{}, err
	}
	return Body{Node: stmt}, nil
}

func (p *parser) endsCase() bool {
	tok := p.cur()
	return tok.isKeyword("case") || tok.isKeyword("default") || tok.Type == tokenRBrace
}

// varProps reads declaration modifiers in any order; each group may appear
// once.
func (p *parser) varProps() VarProps {
	var (
		props                VarProps
		scopeSet, visibleSet bool
	)
	for {
		tok := p.cur()
		switch {
		case !scopeSet && (tok.isKeyword("global") || tok.isKeyword("local")):
			props.Global, scopeSet = tok.Literal == "global", true
		case !visibleSet && (tok.isKeyword("public") || tok.isKeyword("private")):
			props.Public, visibleSet = tok.Literal == "public", true
		case !props.Const && tok.isKeyword("const"):
			props.Const = true
		case !props.Static && tok.isKeyword("static"):
			props.Static = true
		default:
			return props
		}
		p.advance()
	}
}

func (p *parser) ifExpr() (Node, error) {
	start := p.cur().Pos
	expr := &IfExpr{}
	for {
		p.advance()
		cond, err := p.generalList(false)
		if err != nil {
			return nil, err
		}
		body, err := p.body(false)
		if err != nil {
			return nil, err
		}
		expr.Cases = append(expr.Cases, IfCase{Cond: cond, Body: body})

		mark := p.idx
		p.skipNewlines()
		if p.cur().isKeyword("elif") {
			continue
		}
		if p.cur().isKeyword("else") {
			p.advance()
			elseBody, err := p.body(false)
			if err != nil {
				return nil, err
			}
			expr.Else = &elseBody
		} else {
			p.idx = mark
		}
		break
	}
	expr.span = between(start, p.prevEnd())
	return expr, nil
}

func (p *parser) switchExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	subject, err := p.generalList(false)
	if err != nil {
		return nil, err
	}
	expr := &SwitchExpr{Subject: subject}
	p.skipNewlines()
	if err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	p.skipNewlines()
	for p.cur().isKeyword("case") {
		p.advance()
		value, err := p.generalList(false)
		if err != nil {
			return nil, err
		}
		c := SwitchCase{Value: value}
		p.skipNewlines()
		if !p.endsCase() {
			if c.Body, err = p.body(true); err != nil {
				return nil, err
			}
		}
		expr.Cases = append(expr.Cases, c)
		p.skipNewlines()
	}
	if p.cur().isKeyword("default") {
		p.advance()
		def, err := p.body(false)
		if err != nil {
			return nil, err
		}
		expr.Default = &def
		p.skipNewlines()
	}
	if err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	expr.span = between(start, p.prevEnd())
	return expr, nil
}

// forExpr parses both `for x in items` and `for i = a to b step s`.
func (p *parser) forExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	name := p.cur()
	if name.Type != tokenIdent {
		return nil, p.errorExpected(name, "identifier")
	}
	p.advance()
	nameSpan := between(name.Pos, name.End)

	if p.cur().isKeyword("in") {
		p.advance()
		iterable, err := p.generalList(false)
		if err != nil {
			return nil, err
		}
		body, err := p.body(false)
		if err != nil {
			return nil, err
		}
		return &ForeachExpr{span: between(start, p.prevEnd()), Var: name.Literal, VarSpan: nameSpan, Iterable: iterable, Body: body}, nil
	}

	if err := p.expect(tokenAssign); err != nil {
		return nil, err
	}
	expr := &ForExpr{Var: name.Literal, VarSpan: nameSpan}
	if !p.cur().isKeyword("to") {
		from, err := p.generalList(false)
		if err != nil {
			return nil, err
		}
		expr.Start = from
		if !p.cur().isKeyword("to") {
			return nil, p.errorExpected(p.cur(), "'to'")
		}
	}
	p.advance()
	stop, err := p.generalList(false)
	if err != nil {
		return nil, err
	}
	expr.Stop = stop
	if p.cur().isKeyword("step") {
		p.advance()
		if expr.Step, err = p.generalList(false); err != nil {
			return nil, err
		}
	}
	if expr.Body, err = p.body(false); err != nil {
		return nil, err
	}
	expr.span = between(start, p.prevEnd())
	return expr, nil
}

func (p *parser) loopExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	name := p.cur()
	if name.Type != tokenIdent {
		return nil, p.errorExpected(name, "identifier")
	}
	p.advance()
	if err := p.expect(tokenAssign); err != nil {
		return nil, err
	}
	expr := &LoopExpr{Var: name.Literal, VarSpan: between(name.Pos, name.End)}
	parts := []*Node{&expr.Start, &expr.Cond, &expr.Step}
	for i, part := range parts {
		n, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		*part = n
		if i < len(parts)-1 {
			if err := p.expect(tokenComma); err != nil {
				return nil, err
			}
		}
	}
	body, err := p.body(false)
	if err != nil {
		return nil, err
	}
	expr.Body = body
	expr.span = between(start, p.prevEnd())
	return expr, nil
}

func (p *parser) whileExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	cond, err := p.generalList(false)
	if err != nil {
		return nil, err
	}
	body, err := p.body(false)
	if err != nil {
		return nil, err
	}
	return &WhileExpr{span: between(start, p.prevEnd()), Cond: cond, Body: body}, nil
}

func (p *parser) tryExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	body, err := p.body(false)
	if err != nil {
		return nil, err
	}
	expr := &TryExpr{Body: body}
	mark := p.idx
	p.skipNewlines()
	for p.cur().isKeyword("except") {
		p.advance()
		var clause ExceptClause
		for p.cur().Type != tokenColon && p.cur().Type != tokenLBrace {
			name, ok := p.attempt(p.typeExpr)
			if !ok {
				break
			}
			clause.Names = append(clause.Names, name)
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
		}
		if clause.Body, err = p.body(false); err != nil {
			return nil, err
		}
		expr.Excepts = append(expr.Excepts, clause)
		mark = p.idx
		p.skipNewlines()
	}
	p.idx = mark
	expr.span = between(start, p.prevEnd())
	return expr, nil
}

func (p *parser) funcDef() (Node, error) {
	start := p.cur().Pos
	p.advance()
	def := &FuncDef{Props: p.varProps()}
	if p.cur().Type == tokenType {
		def.ReturnType = p.cur().Literal
		p.advance()
	}
	if tok := p.cur(); tok.Type == tokenIdent {
		def.Name = tok.Literal
		def.NameSpan = between(tok.Pos, tok.End)
		p.advance()
	}
	if err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	if p.cur().Type != tokenRParen {
		for {
			var param ParamDecl
			if p.cur().Type == tokenType {
				param.Type = p.cur().Literal
				p.advance()
			}
			name := p.cur()
			if name.Type != tokenIdent {
				return nil, p.errorExpected(name, "identifier")
			}
			p.advance()
			param.Name = name.Literal
			param.NameSpan = between(name.Pos, name.End)
			if p.cur().Type == tokenAssign {
				p.advance()
				value, err := p.typeExpr()
				if err != nil {
					return nil, err
				}
				param.Default = value
			}
			def.Params = append(def.Params, param)
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	body, err := p.body(false)
	if err != nil {
		return nil, err
	}
	def.Body = body
	def.span = between(start, p.prevEnd())
	return def, nil
}
