// Package parser implements the recursive-descent, precedence-climbing
// parser for the Vega condition expression language.
//
// Grammar, lowest to highest precedence:
//
//	or         := and ('||' and)*
//	and        := equality ('&&' equality)*
//	equality   := comparison (('==' | '!=') comparison)*
//	comparison := unary (('>=' | '<=' | '>' | '<') unary)*
//	unary      := '!' unary | primary
//	primary    := literal | identifier | quantifier | '(' or ')'
//	quantifier := ('some' | 'all') '(' or ('as' identifier)? ',' or ')'
//
// A quantifier call is triggered only when the identifier some/all is
// immediately followed by an opening parenthesis; otherwise some and all are
// ordinary variable paths.
//
// Parse is a full-expression parser: leftover tokens after a complete
// expression are a syntax error. Syntax errors carry a best-effort byte
// position (defaulting to the end of the last consumed token) and a message
// with line/column resolved through LineIndex.
package parser
