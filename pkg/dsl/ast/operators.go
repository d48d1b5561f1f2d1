package ast

// UnaryOperator is a prefix operator. "!" is the only one.
type UnaryOperator string

const OperatorNot UnaryOperator = "!"

// BinaryOperator is an infix operator: a logical connective or a comparison.
type BinaryOperator string

const (
	OperatorAnd          BinaryOperator = "&&"
	OperatorOr           BinaryOperator = "||"
	OperatorEqual        BinaryOperator = "=="
	OperatorNotEqual     BinaryOperator = "!="
	OperatorGreaterThan  BinaryOperator = ">"
	OperatorGreaterEqual BinaryOperator = ">="
	OperatorLessThan     BinaryOperator = "<"
	OperatorLessEqual    BinaryOperator = "<="
)

// QuantifierOperator names a quantifier: "some" or "all".
type QuantifierOperator string

const (
	QuantifierSome QuantifierOperator = "some"
	QuantifierAll  QuantifierOperator = "all"
)

// ComparisonOperators lists every comparison operator, in the order they are
// reported to callers (e.g. catalog allowlists).
var ComparisonOperators = []BinaryOperator{
	OperatorEqual,
	OperatorNotEqual,
	OperatorGreaterThan,
	OperatorGreaterEqual,
	OperatorLessThan,
	OperatorLessEqual,
}

// OrderingOperators lists the comparison operators that require numeric
// operands.
var OrderingOperators = []BinaryOperator{
	OperatorGreaterThan,
	OperatorGreaterEqual,
	OperatorLessThan,
	OperatorLessEqual,
}

// IsLogical returns true for the logical connectives "&&" and "||".
func (op BinaryOperator) IsLogical() bool {
	return op == OperatorAnd || op == OperatorOr
}

// IsComparison returns true for the comparison operators.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OperatorEqual, OperatorNotEqual,
		OperatorGreaterThan, OperatorGreaterEqual,
		OperatorLessThan, OperatorLessEqual:
		return true
	}
	return false
}

// IsOrdering returns true for the operators that compare numerically.
func (op BinaryOperator) IsOrdering() bool {
	switch op {
	case OperatorGreaterThan, OperatorGreaterEqual,
		OperatorLessThan, OperatorLessEqual:
		return true
	}
	return false
}

// Precedence levels used by both the parser and the canonical renderer.
// Higher binds tighter. Unary "!" sits above all binary operators;
// quantifier calls and primaries are effectively atomic.
const (
	PrecedenceOr         = 1
	PrecedenceAnd        = 2
	PrecedenceComparison = 3
	PrecedenceUnary      = 4
	PrecedenceAtom       = 5
)

// Precedence returns the binding strength of a binary operator.
func (op BinaryOperator) Precedence() int {
	switch op {
	case OperatorOr:
		return PrecedenceOr
	case OperatorAnd:
		return PrecedenceAnd
	default:
		return PrecedenceComparison
	}
}
