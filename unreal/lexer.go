package unreal

import (
	"unicode/utf8"
)

type lexer struct {
	file   string
	input  string
	places int

	offset int
	next   int

	line   int
	column int

	ch rune
}

func newLexer(file, input string, places int) *lexer {
	l := &lexer{file: file, input: input, places: places, line: 1}
	l.readRune()
	return l
}

// Tokenize scans source into a token stream ending with EOF. The first
// illegal character aborts the scan.
func Tokenize(file, input string, maxDecimalPlaces int) ([]Token, error) {
	return newLexer(file, input, maxDecimalPlaces).tokenize(false)
}

func (l *lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.offset = l.next
	l.column++
	if l.offset >= len(l.input) {
		l.ch = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.next += w
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *lexer) position() Position {
	return Position{File: l.file, Text: l.input, Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *lexer) tokenize(inFormat bool) ([]Token, error) {
	var tokens []Token
	for {
		if inFormat && l.ch == '}' {
			break
		}
		switch {
		case l.ch == 0:
			if inFormat {
				pos := l.position()
				return nil, &SyntaxError{Name: invalidSyntaxName, Details: "Expected '}'", Start: pos, End: pos}
			}
			pos := l.position()
			return append(tokens, Token{Type: tokenEOF, Pos: pos, End: pos}), nil
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readRune()
		case l.ch == '\n' || l.ch == ';':
			tokens = append(tokens, l.single(tokenNewline))
		case l.ch == '.' && !isDigit(l.peekRune()):
			tokens = append(tokens, l.single(tokenDot))
		case isDigit(l.ch) || l.ch == '.':
			tokens = append(tokens, l.readNumber())
		case l.ch == '"' || l.ch == '\'':
			var (
				tok Token
				err error
			)
			tok, tokens, err = l.readString(tokens)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isLetter(l.ch):
			tokens = append(tokens, l.readIdentifier())
		case l.ch == '@':
			l.skipComment()
		default:
			tok, ok := l.readOperator()
			if !ok {
				start := l.position()
				ch := l.ch
				l.readRune()
				return nil, &SyntaxError{
					Name:    illegalCharName,
					Details: "'" + string(ch) + "'",
					Start:   start,
					End:     l.position(),
				}
			}
			tokens = append(tokens, tok)
		}
	}
	pos := l.position()
	return append(tokens, Token{Type: tokenEOF, Pos: pos, End: pos}), nil
}

func (l *lexer) single(tt TokenType) Token {
	start := l.position()
	literal := string(l.ch)
	l.readRune()
	return Token{Type: tt, Literal: literal, Pos: start, End: l.position()}
}

// operatorTable lists each operator lead rune with its longest-match
// extensions, longest first.
var operatorTable = map[rune][]struct {
	text string
	tt   TokenType
}{
	'+': {{"++", tokenInc}, {"+=", tokenPlusAssign}, {"+", tokenPlus}},
	'-': {{"--", tokenDec}, {"-=", tokenMinusAssign}, {"-", tokenMinus}},
	'*': {{"*=", tokenStarAssign}, {"*", tokenStar}},
	'/': {{"//=", tokenQuotAssign}, {"//", tokenQuot}, {"/=", tokenSlashAssign}, {"/", tokenSlash}},
	'%': {{"%=", tokenPercentAssign}, {"%", tokenPercent}},
	'^': {{"^^=", tokenRadAssign}, {"^^", tokenRad}, {"^=", tokenPowAssign}, {"^", tokenPow}},
	'&': {{"&&", tokenAnd}, {"&=", tokenBitAndAssign}, {"&", tokenBitAnd}},
	'|': {{"||", tokenOr}, {"|=", tokenBitOrAssign}, {"|", tokenBitOr}},
	'~': {{"~~", tokenXor}, {"~=", tokenBitXorAssign}, {"~", tokenBitXor}},
	'!': {{"!!", tokenNot}, {"!=", tokenNotEQ}, {"!", tokenBitNot}},
	'=': {{"==", tokenEQ}, {"=", tokenAssign}},
	'<': {{"<<=", tokenShlAssign}, {"<<", tokenShl}, {"<=", tokenLTE}, {"<-", tokenAlias}, {"<", tokenLT}},
	'>': {{">>=", tokenShrAssign}, {">>", tokenShr}, {">=", tokenGTE}, {">", tokenGT}},
	'$': {{"$", tokenDollar}},
	':': {{":", tokenColon}},
	',': {{",", tokenComma}},
	'(': {{"(", tokenLParen}},
	')': {{")", tokenRParen}},
	'[': {{"[", tokenLBracket}},
	']': {{"]", tokenRBracket}},
	'{': {{"{", tokenLBrace}},
	'}': {{"}", tokenRBrace}},
	'\\': {{"\\", tokenBslash}},
}

func (l *lexer) readOperator() (Token, bool) {
	candidates, ok := operatorTable[l.ch]
	if !ok {
		return Token{}, false
	}
	rest := l.input[l.offset:]
	for _, cand := range candidates {
		if len(rest) < len(cand.text) || rest[:len(cand.text)] != cand.text {
			continue
		}
		start := l.position()
		for range cand.text {
			l.readRune()
		}
		return Token{Type: cand.tt, Literal: cand.text, Pos: start, End: l.position()}, true
	}
	return Token{}, false
}

func (l *lexer) readIdentifier() Token {
	start := l.position()
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readRune()
	}
	literal := l.input[start.Offset:l.offset]
	return Token{Type: lookupIdent(literal), Literal: literal, Pos: start, End: l.position()}
}

func (l *lexer) skipComment() {
	l.readRune()
	if l.ch != '*' {
		for l.ch != 0 && l.ch != '\n' {
			l.readRune()
		}
		return
	}
	l.readRune()
	for l.ch != 0 {
		if l.ch == '*' && l.peekRune() == '@' {
			l.readRune()
			l.readRune()
			return
		}
		l.readRune()
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
