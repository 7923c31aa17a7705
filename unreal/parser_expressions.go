package unreal

// keywordOperators folds word operators onto their symbolic token types.
var keywordOperators = map[string]TokenType{
	"and": tokenAnd,
	"or":  tokenOr,
	"xor": tokenXor,
	"not": tokenNot,
	"in":  tokenIn,
	"is":  tokenIs,
	"are": tokenAre,
}

func operatorOf(tok Token) TokenType {
	if tok.Type == tokenKeyword {
		if op, ok := keywordOperators[tok.Literal]; ok {
			return op
		}
	}
	return tok.Type
}

func (p *parser) matchOperator(ops []TokenType) (TokenType, bool) {
	op := operatorOf(p.cur())
	for _, candidate := range ops {
		if op == candidate {
			return op, true
		}
	}
	return "", false
}

func (p *parser) binary(operand func() (Node, error), ops ...TokenType) (Node, error) {
	return p.binaryWith(operand, operand, ops...)
}

// binaryWith parses a left-associative chain. The right operand has its own
// production so that power can recurse through unary sign.
func (p *parser) binaryWith(left, right func() (Node, error), ops ...TokenType) (Node, error) {
	lhs, err := left()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator(ops)
		if !ok {
			return lhs, nil
		}
		p.advance()
		rhs, err := right()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{span: between(lhs.Pos(), rhs.End()), Op: op, Left: lhs, Right: rhs}
	}
}

func (p *parser) unary(operand func() (Node, error)) (Node, error) {
	tok := p.cur()
	p.advance()
	value, err := operand()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{span: between(tok.Pos, value.End()), Op: operatorOf(tok), Operand: value}, nil
}

func (p *parser) typeExpr() (Node, error) {
	if p.cur().isKeyword("var") {
		return p.varExpr()
	}
	return p.binary(p.containExpr, tokenIs, tokenAre)
}

func (p *parser) containExpr() (Node, error) {
	return p.binary(p.bitwiseExpr, tokenIn)
}

func (p *parser) bitwiseExpr() (Node, error) {
	if p.cur().Type == tokenBitNot {
		return p.unary(p.bitwiseExpr)
	}
	return p.binary(p.connectiveExpr, tokenBitAnd, tokenBitOr, tokenBitXor, tokenShl, tokenShr)
}

func (p *parser) connectiveExpr() (Node, error) {
	return p.binary(p.logicalExpr, tokenAnd, tokenOr, tokenXor)
}

func (p *parser) logicalExpr() (Node, error) {
	if operatorOf(p.cur()) == tokenNot {
		return p.unary(p.logicalExpr)
	}
	return p.binary(p.comparison, tokenEQ, tokenNotEQ)
}

func (p *parser) comparison() (Node, error) {
	return p.binary(p.additive, tokenLT, tokenGT, tokenLTE, tokenGTE)
}

func (p *parser) additive() (Node, error) {
	return p.binary(p.term, tokenPlus, tokenMinus)
}

func (p *parser) term() (Node, error) {
	return p.binary(p.factor, tokenStar, tokenSlash, tokenPercent, tokenQuot)
}

func (p *parser) factor() (Node, error) {
	if tt := p.cur().Type; tt == tokenPlus || tt == tokenMinus {
		return p.unary(p.factor)
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	return p.binaryWith(p.postfix, p.factor, tokenPow, tokenRad)
}

// postfix applies calls, member access and indexing to an atom. An index
// followed by an assignment operator becomes an element assignment.
func (p *parser) postfix() (Node, error) {
	expr, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case tokenLParen:
			expr, err = p.callArgs(expr)
		case tokenDot:
			expr, err = p.member(expr)
		case tokenLBracket:
			p.advance()
			var index Node
			index, err = p.generalList(false)
			if err != nil {
				return nil, err
			}
			if err = p.expect(tokenRBracket); err != nil {
				return nil, err
			}
			if op := p.cur().Type; isAssignment(op) {
				return p.indexAssign(expr, index)
			}
			expr = &IndexExpr{span: between(expr.Pos(), p.prevEnd()), Target: expr, Index: index}
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) indexAssign(target, index Node) (Node, error) {
	op := p.cur().Type
	p.advance()
	var value Node
	if !isStepAssignment(op) {
		var err error
		if value, err = p.assignedValue(); err != nil {
			return nil, err
		}
	}
	return &IndexAssign{span: between(target.Pos(), p.prevEnd()), Target: target, Index: index, Op: op, Value: value}, nil
}

func (p *parser) callArgs(callee Node) (Node, error) {
	p.advance()
	var args []CallArg
	p.skipNewlines()
	if p.cur().Type != tokenRParen {
		for {
			var arg CallArg
			if tok := p.cur(); tok.Type == tokenIdent && (p.peek().Type == tokenColon || p.peek().Type == tokenAssign) {
				arg.Label = tok.Literal
				arg.LabelSpan = between(tok.Pos, tok.End)
				p.advance()
				p.advance()
			}
			value, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			arg.Value = value
			args = append(args, arg)
			p.skipNewlines()
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
			p.skipNewlines()
		}
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return &CallExpr{span: between(callee.Pos(), p.prevEnd()), Callee: callee, Args: args}, nil
}

func (p *parser) member(target Node) (Node, error) {
	p.advance()
	tok := p.cur()
	if tok.Type != tokenIdent {
		return nil, p.errorExpected(tok, "identifier")
	}
	p.advance()
	return &MemberExpr{span: between(target.Pos(), tok.End), Target: target, Name: tok.Literal, NameSpan: between(tok.Pos, tok.End)}, nil
}

func (p *parser) atom() (Node, error) {
	tok := p.cur()
	here := between(tok.Pos, tok.End)
	switch tok.Type {
	case tokenNumber:
		p.advance()
		d, err := ParseDecimal(tok.Literal)
		if err != nil {
			return nil, p.errorUnexpected(tok)
		}
		return &NumberLit{span: here, Value: d}, nil
	case tokenString:
		p.advance()
		return p.stringLit(tok)
	case tokenType:
		p.advance()
		return &TypeLit{span: here, Name: tok.Literal}, nil
	case tokenLBracket:
		return p.listLit()
	case tokenLBrace:
		return p.braceLit()
	case tokenDollar:
		return p.dollarCall()
	case tokenIdent:
		return p.identifier()
	case tokenLParen:
		p.advance()
		inner, err := p.statements()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return &Paren{span: between(tok.Pos, p.prevEnd()), Expr: inner}, nil
	case tokenKeyword:
		switch tok.Literal {
		case "object":
			p.advance()
			return &ObjectLit{span: here}, nil
		case "none":
			p.advance()
			return &NoneLit{span: here}, nil
		case "true", "false":
			p.advance()
			return &BoolLit{span: here, Value: tok.Literal == "true"}, nil
		case "if":
			return p.ifExpr()
		case "switch":
			return p.switchExpr()
		case "for":
			return p.forExpr()
		case "loop":
			return p.loopExpr()
		case "while":
			return p.whileExpr()
		case "try":
			return p.tryExpr()
		case "func":
			return p.funcDef()
		}
	}
	return nil, p.errorUnexpected(tok)
}

// stringLit parses the embedded expressions of a format string with a fresh
// parser over each segment's token list.
func (p *parser) stringLit(tok Token) (Node, error) {
	lit := &StringLit{span: between(tok.Pos, tok.End)}
	if tok.Segments == nil {
		lit.Parts = []StringPart{{Text: tok.Literal}}
		return lit, nil
	}
	for _, seg := range tok.Segments {
		if seg.Tokens == nil {
			lit.Parts = append(lit.Parts, StringPart{Text: seg.Text})
			continue
		}
		expr, err := Parse(seg.Tokens)
		if err != nil {
			return nil, err
		}
		lit.Parts = append(lit.Parts, StringPart{Expr: expr})
	}
	return lit, nil
}

func (p *parser) identifier() (Node, error) {
	tok := p.cur()
	p.advance()
	op := p.cur().Type
	if !isAssignment(op) {
		return &VarAccess{span: between(tok.Pos, tok.End), Name: tok.Literal}, nil
	}
	p.advance()
	assign := &VarAssign{Name: tok.Literal, NameSpan: between(tok.Pos, tok.End), Op: op, Props: VarProps{Public: true}}
	if !isStepAssignment(op) {
		value, err := p.assignedValue()
		if err != nil {
			return nil, err
		}
		assign.Value = value
	}
	assign.span = between(tok.Pos, p.prevEnd())
	return assign, nil
}

// assignedValue reads the right-hand side of an assignment: one expression,
// or a tuple when it opens with a comma.
func (p *parser) assignedValue() (Node, error) {
	if p.cur().Type == tokenComma {
		return p.generalList(false)
	}
	return p.typeExpr()
}

func (p *parser) varExpr() (Node, error) {
	start := p.cur().Pos
	p.advance()
	assign := &VarAssign{Props: p.varProps()}
	if p.cur().Type == tokenType {
		assign.Type = p.cur().Literal
		p.advance()
	}
	name := p.cur()
	if name.Type != tokenIdent {
		return nil, p.errorExpected(name, "identifier")
	}
	p.advance()
	assign.Name = name.Literal
	assign.NameSpan = between(name.Pos, name.End)
	if op := p.cur().Type; isAssignment(op) {
		p.advance()
		assign.Op = op
		if !isStepAssignment(op) {
			value, err := p.assignedValue()
			if err != nil {
				return nil, err
			}
			assign.Value = value
		}
	}
	assign.span = between(start, p.prevEnd())
	return assign, nil
}

func (p *parser) listLit() (Node, error) {
	start := p.cur().Pos
	p.advance()
	p.skipNewlines()
	var elements []Node
	if p.cur().Type != tokenRBracket {
		for {
			el, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			p.skipNewlines()
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
			p.skipNewlines()
		}
	}
	if err := p.expect(tokenRBracket); err != nil {
		return nil, err
	}
	return &ListLit{span: between(start, p.prevEnd()), Elements: elements}, nil
}

// braceLit parses `{}` and `{a, b}` as sets and `{k: v}` as a dict; the
// token after the first element decides.
func (p *parser) braceLit() (Node, error) {
	start := p.cur().Pos
	p.advance()
	p.skipNewlines()
	if p.cur().Type == tokenRBrace {
		p.advance()
		return &SetLit{span: between(start, p.prevEnd())}, nil
	}
	first, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if tt := p.cur().Type; tt == tokenComma || tt == tokenRBrace {
		return p.setRest(start, first)
	}
	keys, values := []Node{first}, []Node(nil)
	for {
		if err := p.expect(tokenColon); err != nil {
			return nil, err
		}
		p.skipNewlines()
		value, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		p.skipNewlines()
		if p.cur().Type != tokenComma {
			break
		}
		p.advance()
		p.skipNewlines()
		key, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		p.skipNewlines()
	}
	if err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return &DictLit{span: between(start, p.prevEnd()), Keys: keys, Values: values}, nil
}

func (p *parser) setRest(start Position, first Node) (Node, error) {
	elements := []Node{first}
	for p.cur().Type == tokenComma {
		p.advance()
		p.skipNewlines()
		el, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		p.skipNewlines()
	}
	if err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return &SetLit{span: between(start, p.prevEnd()), Elements: elements}, nil
}

func (p *parser) dollarCall() (Node, error) {
	start := p.cur().Pos
	p.advance()
	name := p.cur()
	if name.Type != tokenIdent {
		return nil, p.errorExpected(name, "identifier")
	}
	p.advance()
	call := &DollarCall{Name: name.Literal, NameSpan: between(name.Pos, name.End)}
	if p.cur().Type == tokenColon {
		p.advance()
		for {
			arg, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
		}
	}
	call.span = between(start, p.prevEnd())
	return call, nil
}
