package unreal

import (
	"strings"
)

var escapeRunes = map[rune]rune{
	'0': 0,
	'a': '\a',
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	's': ' ',
	't': '\t',
	'v': '\v',
}

// readNumber collects digits with at most one decimal point. The literal is
// stored in canonical form: no leading integer zeros, no trailing fraction
// zeros, fraction truncated to the configured place limit.
func (l *lexer) readNumber() Token {
	start := l.position()
	var intPart, fracPart strings.Builder
	seenDot := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if seenDot {
			fracPart.WriteRune(l.ch)
		} else {
			intPart.WriteRune(l.ch)
		}
		l.readRune()
	}
	literal := canonicalNumber(intPart.String(), fracPart.String(), l.places)
	return Token{Type: tokenNumber, Literal: literal, Pos: start, End: l.position()}
}

func canonicalNumber(intPart, fracPart string, places int) string {
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if places >= 0 && len(fracPart) > places {
		fracPart = fracPart[:places]
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// takePrefix drops the last token when it matches the given type and,
// if non-empty, literal.
func takePrefix(tokens []Token, tt TokenType, literal string) ([]Token, bool) {
	if len(tokens) == 0 {
		return tokens, false
	}
	last := tokens[len(tokens)-1]
	if last.Type != tt || (literal != "" && last.Literal != literal) {
		return tokens, false
	}
	return tokens[:len(tokens)-1], true
}

// readString scans a quoted literal. A preceding `f` identifier makes it a
// format string and a preceding backslash makes it raw; both prefix tokens
// are consumed from the stream, which is returned alongside the token.
func (l *lexer) readString(tokens []Token) (Token, []Token, error) {
	start := l.position()
	quote := l.ch

	tokens, format := takePrefix(tokens, tokenIdent, "f")
	tokens, raw := takePrefix(tokens, tokenBslash, "")
	if !format {
		tokens, format = takePrefix(tokens, tokenIdent, "f")
	}

	var (
		text     strings.Builder
		segments []FormatSegment
		escaped  bool
	)
	l.readRune()
	for l.ch != 0 && (l.ch != quote || escaped) {
		switch {
		case escaped:
			if r, ok := escapeRunes[l.ch]; ok {
				text.WriteRune(r)
			} else {
				text.WriteRune(l.ch)
			}
			escaped = false
		case l.ch == '\\' && !raw:
			escaped = true
		case format && l.ch == '{':
			if text.Len() > 0 {
				segments = append(segments, FormatSegment{Text: text.String()})
				text.Reset()
			}
			l.readRune()
			embedded, err := l.tokenize(true)
			if err != nil {
				return Token{}, tokens, err
			}
			segments = append(segments, FormatSegment{Tokens: embedded})
		default:
			text.WriteRune(l.ch)
		}
		l.readRune()
	}
	l.readRune()

	tok := Token{Type: tokenString, Pos: start, End: l.position()}
	if format {
		if text.Len() > 0 {
			segments = append(segments, FormatSegment{Text: text.String()})
		}
		tok.Segments = segments
		if tok.Segments == nil {
			tok.Segments = []FormatSegment{}
		}
		return tok, tokens, nil
	}
	tok.Literal = text.String()
	return tok, tokens, nil
}
