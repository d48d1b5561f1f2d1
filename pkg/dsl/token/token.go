package token

import "fmt"

// Kind classifies a token produced by the tokenizer.
type Kind string

const (
	KindIdentifier Kind = "identifier"
	KindNumber     Kind = "number"
	KindString     Kind = "string"
	KindBoolean    Kind = "boolean"
	KindOperator   Kind = "operator"
	KindNot        Kind = "not"
	KindParen      Kind = "paren"
	KindComma      Kind = "comma"
)

// Token is a single lexical unit of a condition expression. Start and End
// are byte offsets into the original input, half-open. For string tokens
// Value holds the decoded content without the surrounding quotes.
type Token struct {
	Kind  Kind
	Value string
	Start int
	End   int
}

// Error reports a lexical failure at a byte position in the input.
type Error struct {
	Message  string
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Position)
}
