package ast

// Range identifies a half-open span of bytes [Start, End) in the original
// expression text. Nodes reconstructed from JSON-Logic carry no source text,
// so ranges are pointers and may be nil.
type Range struct {
	Start int
	End   int
}

// NodeKind discriminates the variants of the expression AST.
type NodeKind string

const (
	KindLiteral    NodeKind = "literal"
	KindVariable   NodeKind = "variable"
	KindUnary      NodeKind = "unary"
	KindBinary     NodeKind = "binary"
	KindQuantifier NodeKind = "quantifier"
)

// Node is the interface implemented by all expression AST nodes.
// The set of implementations is closed: Literal, Variable, Unary, Binary,
// and Quantifier. Every traversal switches exhaustively on Kind.
type Node interface {
	Kind() NodeKind
	Span() *Range
}

// Literal is a constant value: a number, string, boolean, or null.
// Numbers are always float64; a nil Value means the null literal.
type Literal struct {
	Value any
	Range *Range
}

// Variable is a dotted-path reference, either to a catalog entry
// ("facets.score") or, inside a quantifier predicate, to the bound alias
// or an alias-relative path ("x", "x.flag").
type Variable struct {
	Path  string
	Range *Range
}

// Unary is a prefix operator application. The only unary operator is "!".
type Unary struct {
	Operator      UnaryOperator
	Argument      Node
	Range         *Range
	OperatorRange *Range
}

// Binary is an infix operator application: the logical connectives
// "&&"/"||" or one of the comparison operators.
type Binary struct {
	Operator      BinaryOperator
	Left          Node
	Right         Node
	Range         *Range
	OperatorRange *Range
}

// Quantifier binds Alias over the elements of Collection and tests
// Predicate against each: some(items as x, x.flag == true).
// Collection must be a Variable whose catalog type is array; the validator
// enforces that, the grammar does not.
type Quantifier struct {
	Operator        QuantifierOperator
	Collection      Node
	Predicate       Node
	Alias           string
	AliasProvided   bool
	Range           *Range
	OperatorRange   *Range
	CollectionRange *Range
	AliasRange      *Range
	PredicateRange  *Range
}

func (n *Literal) Kind() NodeKind    { return KindLiteral }
func (n *Variable) Kind() NodeKind   { return KindVariable }
func (n *Unary) Kind() NodeKind      { return KindUnary }
func (n *Binary) Kind() NodeKind     { return KindBinary }
func (n *Quantifier) Kind() NodeKind { return KindQuantifier }

func (n *Literal) Span() *Range    { return n.Range }
func (n *Variable) Span() *Range   { return n.Range }
func (n *Unary) Span() *Range      { return n.Range }
func (n *Binary) Span() *Range     { return n.Range }
func (n *Quantifier) Span() *Range { return n.Range }

// DefaultAlias is the alias bound by a quantifier when none is written.
const DefaultAlias = "item"
