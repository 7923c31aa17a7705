package unreal

import "sort"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF     TokenType = "EOF"
	tokenNewline TokenType = "NEWLINE"

	tokenIdent   TokenType = "IDENT"
	tokenKeyword TokenType = "KEYWORD"
	tokenType    TokenType = "TYPE"
	tokenNumber  TokenType = "NUMBER"
	tokenString  TokenType = "STRING"

	tokenDollar TokenType = "$"
	tokenDot    TokenType = "."
	tokenBslash TokenType = "\\"
	tokenColon  TokenType = ":"
	tokenComma  TokenType = ","

	tokenPlus    TokenType = "+"
	tokenMinus   TokenType = "-"
	tokenStar    TokenType = "*"
	tokenSlash   TokenType = "/"
	tokenPercent TokenType = "%"
	tokenQuot    TokenType = "//"
	tokenPow     TokenType = "^"
	tokenRad     TokenType = "^^"

	tokenBitAnd TokenType = "&"
	tokenBitOr  TokenType = "|"
	tokenBitXor TokenType = "~"
	tokenBitNot TokenType = "!"
	tokenShl    TokenType = "<<"
	tokenShr    TokenType = ">>"

	tokenAnd TokenType = "&&"
	tokenOr  TokenType = "||"
	tokenXor TokenType = "~~"
	tokenNot TokenType = "!!"

	tokenAssign TokenType = "="
	tokenAlias  TokenType = "<-"

	tokenPlusAssign    TokenType = "+="
	tokenMinusAssign   TokenType = "-="
	tokenStarAssign    TokenType = "*="
	tokenSlashAssign   TokenType = "/="
	tokenPercentAssign TokenType = "%="
	tokenQuotAssign    TokenType = "//="
	tokenPowAssign     TokenType = "^="
	tokenRadAssign     TokenType = "^^="
	tokenBitAndAssign  TokenType = "&="
	tokenBitOrAssign   TokenType = "|="
	tokenBitXorAssign  TokenType = "~="
	tokenShlAssign     TokenType = "<<="
	tokenShrAssign     TokenType = ">>="
	tokenInc           TokenType = "++"
	tokenDec           TokenType = "--"

	tokenEQ    TokenType = "=="
	tokenNotEQ TokenType = "!="
	tokenLT    TokenType = "<"
	tokenGT    TokenType = ">"
	tokenLTE   TokenType = "<="
	tokenGTE   TokenType = ">="

	tokenLParen   TokenType = "("
	tokenRParen   TokenType = ")"
	tokenLBracket TokenType = "["
	tokenRBracket TokenType = "]"
	tokenLBrace   TokenType = "{"
	tokenRBrace   TokenType = "}"

	// keyword operators are folded into these by the parser
	tokenIn  TokenType = "in"
	tokenIs  TokenType = "is"
	tokenAre TokenType = "are"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     Position

	// Segments is set on format strings only.
	Segments []FormatSegment
}

// FormatSegment is one piece of an f-string: literal text or an embedded
// token stream terminated by EOF.
type FormatSegment struct {
	Text   string
	Tokens []Token
}

// Position identifies a location in a named source text.
type Position struct {
	File   string
	Text   string
	Offset int
	Line   int
	Column int
}

func (t Token) is(tt TokenType, literal string) bool {
	return t.Type == tt && t.Literal == literal
}

func (t Token) isKeyword(literal string) bool {
	return t.is(tokenKeyword, literal)
}

var keywords = map[string]struct{}{
	"var": {}, "func": {},
	"global": {}, "local": {},
	"public": {}, "private": {},
	"const": {}, "static": {},
	"and": {}, "or": {}, "xor": {}, "not": {},
	"if": {}, "elif": {}, "else": {},
	"switch": {}, "case": {}, "default": {},
	"for": {}, "to": {}, "step": {},
	"loop": {}, "while": {},
	"try": {}, "except": {},
	"return": {}, "continue": {}, "break": {},
	"in": {},
	"is": {}, "are": {},
	"object": {}, "none": {}, "true": {}, "false": {},
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupIdent(ident string) TokenType {
	if _, ok := keywords[ident]; ok {
		return tokenKeyword
	}
	if isTypeName(ident) {
		return tokenType
	}
	return tokenIdent
}

var assignmentTokens = map[TokenType]struct{}{
	tokenAssign: {}, tokenAlias: {},
	tokenPlusAssign: {}, tokenMinusAssign: {}, tokenStarAssign: {}, tokenSlashAssign: {},
	tokenPercentAssign: {}, tokenQuotAssign: {}, tokenPowAssign: {}, tokenRadAssign: {},
	tokenBitAndAssign: {}, tokenBitOrAssign: {}, tokenBitXorAssign: {},
	tokenShlAssign: {}, tokenShrAssign: {},
	tokenInc: {}, tokenDec: {},
}

func isAssignment(tt TokenType) bool {
	_, ok := assignmentTokens[tt]
	return ok
}

func isStepAssignment(tt TokenType) bool {
	return tt == tokenInc || tt == tokenDec
}

// compoundOperator maps a compound assignment to the binary operator it applies.
var compoundOperator = map[TokenType]TokenType{
	tokenPlusAssign:    tokenPlus,
	tokenMinusAssign:   tokenMinus,
	tokenStarAssign:    tokenStar,
	tokenSlashAssign:   tokenSlash,
	tokenPercentAssign: tokenPercent,
	tokenQuotAssign:    tokenQuot,
	tokenPowAssign:     tokenPow,
	tokenRadAssign:     tokenRad,
	tokenBitAndAssign:  tokenBitAnd,
	tokenBitOrAssign:   tokenBitOr,
	tokenBitXorAssign:  tokenBitXor,
	tokenShlAssign:     tokenShl,
	tokenShrAssign:     tokenShr,
	tokenInc:           tokenPlus,
	tokenDec:           tokenMinus,
}
