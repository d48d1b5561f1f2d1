package parser

import (
	"fmt"
	"strconv"
	"strings"

	"craftwell-hq/vega/pkg/dsl/ast"
	"craftwell-hq/vega/pkg/dsl/diag"
	"craftwell-hq/vega/pkg/dsl/token"
)

// MaxDepth bounds expression nesting. Parsing recurses once per nesting
// level, so adversarial input with thousands of parentheses would otherwise
// exhaust the stack.
const MaxDepth = 100

// Parse parses a condition expression into an AST. On failure it returns a
// nil node and one diagnostic: empty_expression for blank input (the
// tokenizer is never invoked), syntax_error otherwise, with line/column
// resolved through a LineIndex over the input.
//
// Parse consumes the whole expression: trailing tokens after a complete
// expression are a syntax error, not a shorter parse.
func Parse(expression string) (ast.Node, []diag.Diagnostic) {
	if strings.TrimSpace(expression) == "" {
		return nil, []diag.Diagnostic{{
			Code:    diag.CodeEmptyExpression,
			Message: "expression is empty",
			Range:   &ast.Range{Start: 0, End: 0},
		}}
	}

	tokens, err := token.Tokenize(expression)
	if err != nil {
		lexErr := err.(*token.Error)
		return nil, []diag.Diagnostic{syntaxDiagnostic(expression, lexErr.Message, lexErr.Position)}
	}

	p := &parser{input: expression, tokens: tokens}
	node, perr := p.parseExpression()
	if perr == nil {
		perr = p.ensureEnd()
	}
	if perr != nil {
		return nil, []diag.Diagnostic{syntaxDiagnostic(expression, perr.message, perr.position)}
	}
	return node, nil
}

type parseError struct {
	message  string
	position int
}

type parser struct {
	input   string
	tokens  []token.Token
	pos     int
	lastEnd int
	depth   int
}

func syntaxDiagnostic(input, message string, position int) diag.Diagnostic {
	line, column := NewLineIndex(input).Position(position)
	end := position + 1
	if end > len(input) {
		end = len(input)
	}
	if end < position {
		end = position
	}
	return diag.Diagnostic{
		Code:    diag.CodeSyntaxError,
		Message: fmt.Sprintf("syntax error at line %d, column %d: %s", line, column, message),
		Range:   &ast.Range{Start: position, End: end},
	}
}

func (p *parser) errorf(position int, format string, args ...any) *parseError {
	return &parseError{message: fmt.Sprintf(format, args...), position: position}
}

// errorHere reports an error at the default position: the end of the last
// consumed token.
func (p *parser) errorHere(format string, args ...any) *parseError {
	return p.errorf(p.lastEnd, format, args...)
}

func (p *parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token.Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
		p.lastEnd = tok.End
	}
	return tok
}

// matchOperator consumes and returns the next token if it is an operator
// with one of the given spellings.
func (p *parser) matchOperator(values ...string) *token.Token {
	tok := p.peek()
	if tok == nil || tok.Kind != token.KindOperator {
		return nil
	}
	for _, v := range values {
		if tok.Value == v {
			return p.next()
		}
	}
	return nil
}

func (p *parser) matchParen(value string) *token.Token {
	tok := p.peek()
	if tok == nil || tok.Kind != token.KindParen || tok.Value != value {
		return nil
	}
	return p.next()
}

func (p *parser) enter() *parseError {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorHere("expression nesting exceeds %d levels", MaxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseExpression() (ast.Node, *parseError) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Node, *parseError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		op := p.matchOperator("||")
		if op == nil {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = p.binary(ast.OperatorOr, left, right, op)
	}
}

func (p *parser) parseAnd() (ast.Node, *parseError) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		op := p.matchOperator("&&")
		if op == nil {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = p.binary(ast.OperatorAnd, left, right, op)
	}
}

func (p *parser) parseEquality() (ast.Node, *parseError) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		op := p.matchOperator("==", "!=")
		if op == nil {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = p.binary(ast.BinaryOperator(op.Value), left, right, op)
	}
}

func (p *parser) parseComparison() (ast.Node, *parseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.matchOperator(">=", "<=", ">", "<")
		if op == nil {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = p.binary(ast.BinaryOperator(op.Value), left, right, op)
	}
}

func (p *parser) parseUnary() (ast.Node, *parseError) {
	tok := p.peek()
	if tok != nil && tok.Kind == token.KindNot {
		p.next()
		if err := p.enter(); err != nil {
			return nil, err
		}
		arg, perr := p.parseUnary()
		p.leave()
		if perr != nil {
			return nil, perr
		}
		return &ast.Unary{
			Operator:      ast.OperatorNot,
			Argument:      arg,
			Range:         &ast.Range{Start: tok.Start, End: spanEnd(arg, tok.End)},
			OperatorRange: &ast.Range{Start: tok.Start, End: tok.End},
		}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Node, *parseError) {
	tok := p.peek()
	if tok == nil {
		return nil, p.errorHere("unexpected end of expression")
	}

	switch tok.Kind {
	case token.KindNumber:
		p.next()
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf(tok.Start, "invalid number %q", tok.Value)
		}
		return &ast.Literal{Value: value, Range: tokenRange(tok)}, nil

	case token.KindString:
		p.next()
		return &ast.Literal{Value: tok.Value, Range: tokenRange(tok)}, nil

	case token.KindBoolean:
		p.next()
		return &ast.Literal{Value: tok.Value == "true", Range: tokenRange(tok)}, nil

	case token.KindIdentifier:
		// The bare identifier null is the null literal; the tokenizer leaves
		// that reclassification to the parser.
		if tok.Value == "null" {
			p.next()
			return &ast.Literal{Value: nil, Range: tokenRange(tok)}, nil
		}
		if (tok.Value == string(ast.QuantifierSome) || tok.Value == string(ast.QuantifierAll)) && p.nextIsOpenParen() {
			return p.parseQuantifier()
		}
		p.next()
		return &ast.Variable{Path: tok.Value, Range: tokenRange(tok)}, nil

	case token.KindParen:
		if tok.Value == "(" {
			p.next()
			inner, perr := p.parseExpression()
			if perr != nil {
				return nil, perr
			}
			if p.matchParen(")") == nil {
				return nil, p.errorHere("expected closing parenthesis")
			}
			return inner, nil
		}
	}

	return nil, p.errorf(tok.Start, "unexpected token %q", tok.Value)
}

func (p *parser) nextIsOpenParen() bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	tok := p.tokens[p.pos+1]
	return tok.Kind == token.KindParen && tok.Value == "("
}

// parseQuantifier parses some(<collection> [as <alias>], <predicate>).
// The caller has already checked that the current token is some/all followed
// by an opening parenthesis.
func (p *parser) parseQuantifier() (ast.Node, *parseError) {
	opTok := p.next()
	p.next() // opening paren, guaranteed by nextIsOpenParen

	collection, perr := p.parseExpression()
	if perr != nil {
		return nil, perr
	}

	alias := ast.DefaultAlias
	aliasProvided := false
	var aliasRange *ast.Range
	if as := p.peek(); as != nil && as.Kind == token.KindIdentifier && as.Value == "as" {
		p.next()
		aliasTok := p.peek()
		if aliasTok == nil || aliasTok.Kind != token.KindIdentifier {
			return nil, p.errorHere("expected alias identifier after \"as\"")
		}
		p.next()
		if strings.Contains(aliasTok.Value, ".") {
			return nil, p.errorf(aliasTok.Start, "quantifier alias must be a simple identifier, got %q", aliasTok.Value)
		}
		alias = aliasTok.Value
		aliasProvided = true
		aliasRange = tokenRange(aliasTok)
	}

	if comma := p.peek(); comma == nil || comma.Kind != token.KindComma {
		return nil, p.errorHere("expected comma before %s predicate", opTok.Value)
	}
	p.next()

	predicate, perr := p.parseExpression()
	if perr != nil {
		return nil, perr
	}

	closeTok := p.matchParen(")")
	if closeTok == nil {
		return nil, p.errorHere("expected closing parenthesis")
	}

	return &ast.Quantifier{
		Operator:        ast.QuantifierOperator(opTok.Value),
		Collection:      collection,
		Predicate:       predicate,
		Alias:           alias,
		AliasProvided:   aliasProvided,
		Range:           &ast.Range{Start: opTok.Start, End: closeTok.End},
		OperatorRange:   tokenRange(opTok),
		CollectionRange: collection.Span(),
		AliasRange:      aliasRange,
		PredicateRange:  predicate.Span(),
	}, nil
}

// ensureEnd fails when tokens remain after a complete expression.
func (p *parser) ensureEnd() *parseError {
	if tok := p.peek(); tok != nil {
		return p.errorf(tok.Start, "unexpected token %q after expression", tok.Value)
	}
	return nil
}

func (p *parser) binary(op ast.BinaryOperator, left, right ast.Node, opTok *token.Token) ast.Node {
	return &ast.Binary{
		Operator:      op,
		Left:          left,
		Right:         right,
		Range:         &ast.Range{Start: spanStart(left, opTok.Start), End: spanEnd(right, opTok.End)},
		OperatorRange: tokenRange(opTok),
	}
}

func tokenRange(tok *token.Token) *ast.Range {
	return &ast.Range{Start: tok.Start, End: tok.End}
}

func spanStart(n ast.Node, fallback int) int {
	if r := n.Span(); r != nil {
		return r.Start
	}
	return fallback
}

func spanEnd(n ast.Node, fallback int) int {
	if r := n.Span(); r != nil {
		return r.End
	}
	return fallback
}
