package token

import "strings"

// Tokenize turns raw expression text into a flat token sequence. It returns
// a *Error carrying the byte position on unterminated string literals and
// unrecognized characters. All offsets are byte offsets.
func Tokenize(input string) ([]Token, error) {
	t := &tokenizer{input: input}
	return t.run()
}

type tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

func (t *tokenizer) run() ([]Token, error) {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			t.pos++
		case c == '(' || c == ')':
			t.emit(KindParen, string(c), t.pos, t.pos+1)
			t.pos++
		case c == ',':
			t.emit(KindComma, ",", t.pos, t.pos+1)
			t.pos++
		case c == '\'' || c == '"':
			if err := t.scanString(c); err != nil {
				return nil, err
			}
		case isDigit(c) || (c == '.' && t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1])):
			t.scanNumber()
		case isIdentStart(c):
			t.scanIdentifier()
		default:
			if ok := t.scanOperator(); !ok {
				return nil, &Error{
					Message:  "unexpected character " + quoteChar(c),
					Position: t.pos,
				}
			}
		}
	}
	return t.tokens, nil
}

func (t *tokenizer) emit(kind Kind, value string, start, end int) {
	t.tokens = append(t.tokens, Token{Kind: kind, Value: value, Start: start, End: end})
}

// scanOperator recognizes multi-character operators greedily before
// single-character ones. A lone "!" is its own token kind, distinct from
// the "!=" operator.
func (t *tokenizer) scanOperator() bool {
	rest := t.input[t.pos:]
	for _, op := range []string{"&&", "||", "==", "!=", ">=", "<="} {
		if strings.HasPrefix(rest, op) {
			t.emit(KindOperator, op, t.pos, t.pos+2)
			t.pos += 2
			return true
		}
	}
	switch rest[0] {
	case '>', '<':
		t.emit(KindOperator, string(rest[0]), t.pos, t.pos+1)
		t.pos++
		return true
	case '!':
		t.emit(KindNot, "!", t.pos, t.pos+1)
		t.pos++
		return true
	}
	return false
}

func (t *tokenizer) scanString(quote byte) error {
	start := t.pos
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch c {
		case quote:
			t.pos++
			t.emit(KindString, sb.String(), start, t.pos)
			return nil
		case '\\':
			if t.pos+1 >= len(t.input) {
				return &Error{Message: "unterminated string literal", Position: start}
			}
			t.pos++
			switch esc := t.input[t.pos]; esc {
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				// Backslash, quotes, and anything else pass through verbatim.
				sb.WriteByte(esc)
			}
			t.pos++
		default:
			sb.WriteByte(c)
			t.pos++
		}
	}
	return &Error{Message: "unterminated string literal", Position: start}
}

// scanNumber accepts [0-9]+(\.[0-9]+)? or a leading "." followed by a digit.
func (t *tokenizer) scanNumber() {
	start := t.pos
	for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.input) && t.input[t.pos] == '.' &&
		t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1]) {
		t.pos++
		for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
			t.pos++
		}
	}
	t.emit(KindNumber, t.input[start:t.pos], start, t.pos)
}

// scanIdentifier accepts [A-Za-z_][A-Za-z0-9_.]*. Dots are part of
// identifiers, which is what makes dotted catalog paths single tokens.
// The literals true/false are reclassified as boolean tokens; the bare
// identifier null is reclassified by the parser, not here.
func (t *tokenizer) scanIdentifier() {
	start := t.pos
	t.pos++
	for t.pos < len(t.input) && isIdentPart(t.input[t.pos]) {
		t.pos++
	}
	value := t.input[start:t.pos]
	kind := KindIdentifier
	if value == "true" || value == "false" {
		kind = KindBoolean
	}
	t.emit(kind, value, start, t.pos)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

func quoteChar(c byte) string {
	return "'" + string(c) + "'"
}
