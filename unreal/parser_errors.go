package unreal

import (
	"fmt"
)

func (p *parser) errorExpected(tok Token, expected string) error {
	return &SyntaxError{Name: invalidSyntaxName, Details: "Expected " + expected, Start: tok.Pos, End: tok.End}
}

func (p *parser) errorUnexpected(tok Token) error {
	return &SyntaxError{Name: invalidSyntaxName, Details: "Unexpected " + tokenLabel(tok), Start: tok.Pos, End: tok.End}
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of statement"
	case tokenIdent:
		return fmt.Sprintf("identifier '%s'", tok.Literal)
	case tokenNumber:
		return "number " + tok.Literal
	case tokenString:
		return "string"
	case tokenType:
		return fmt.Sprintf("type '%s'", tok.Literal)
	case tokenKeyword:
		return fmt.Sprintf("'%s'", tok.Literal)
	default:
		return fmt.Sprintf("'%s'", string(tok.Type))
	}
}
