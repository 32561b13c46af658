// Package ast defines the shape of the parsed SQL expression and FROM-clause
// nodes the planning core consumes. The parser that produces these trees is
// an external collaborator (spec §1); this package only owns the node
// shapes, not how they're produced.
package ast

import "heron/pkg/types"

// Expression is the interface for all scalar expressions.
type Expression interface {
	expressionNode()
	// String renders the expression the way EXPLAIN and error messages
	// want it: a short, deterministic textual form.
	String() string
}

// Operator identifies a binary comparison/logical/arithmetic operator.
type Operator int

const (
	And Operator = iota
	Or
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Is
	IsNot
	Plus
	Minus
	Star
	Slash
)

func (o Operator) String() string {
	switch o {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Is:
		return "IS"
	case IsNot:
		return "IS NOT"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	default:
		return "?"
	}
}

// IsComparison reports whether op is one of the six comparisons the
// condition compiler knows how to branch on directly (spec §4.5).
func (o Operator) IsComparison() bool {
	switch o {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}

// Negate returns the comparison operator whose truth value is the logical
// negation of o. Only defined for comparison operators; the table is fixed
// by spec §4.5: > <-> <=, >= <-> <, = <-> !=.
func (o Operator) Negate() Operator {
	switch o {
	case Eq:
		return Ne
	case Ne:
		return Eq
	case Lt:
		return Ge
	case Ge:
		return Lt
	case Gt:
		return Le
	case Le:
		return Gt
	default:
		return o
	}
}

// Binary represents a binary expression: lhs OP rhs. Covers AND, OR, the
// comparisons, and simple arithmetic.
type Binary struct {
	Left  Expression
	Op    Operator
	Right Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Id is a bare (unqualified) identifier reference, e.g. `foo`.
type Id struct {
	Name string
}

func (i *Id) expressionNode() {}
func (i *Id) String() string  { return i.Name }

// Qualified is a table-qualified identifier reference, e.g. `t1.foo`.
type Qualified struct {
	Table string
	Name  string
}

func (q *Qualified) expressionNode() {}
func (q *Qualified) String() string  { return q.Table + "." + q.Name }

// Literal is a constant value.
type Literal struct {
	Value types.Value
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string  { return l.Value.String() }

// LikeOp distinguishes LIKE from its sibling pattern-match operators; only
// Like is implemented (spec §4.5), the rest are named so the "unsupported
// feature" error can report which one was used.
type LikeOp int

const (
	LikeOpLike LikeOp = iota
	LikeOpGlob
	LikeOpMatch
	LikeOpRegexp
)

func (op LikeOp) String() string {
	switch op {
	case LikeOpLike:
		return "LIKE"
	case LikeOpGlob:
		return "GLOB"
	case LikeOpMatch:
		return "MATCH"
	case LikeOpRegexp:
		return "REGEXP"
	default:
		return "?"
	}
}

// Like represents `lhs [NOT] <op> rhs [ESCAPE escape]`.
type Like struct {
	Lhs    Expression
	Rhs    Expression
	Op     LikeOp
	Not    bool
	Escape Expression // nil if no ESCAPE clause
}

func (l *Like) expressionNode() {}
func (l *Like) String() string {
	s := l.Lhs.String()
	if l.Not {
		s += " NOT"
	}
	s += " " + l.Op.String() + " " + l.Rhs.String()
	return s
}

// FunctionCall represents `name(args...)`.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (f *FunctionCall) expressionNode() {}
func (f *FunctionCall) String() string {
	s := f.Name + "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// InList represents `lhs [NOT] IN (rhs...)`. A nil and an empty Rhs both
// represent `IN ()`; `IN (<subquery>)` has no representation here, as
// subqueries are outside this core (spec §1 non-goals).
type InList struct {
	Lhs Expression
	Rhs []Expression
	Not bool
}

func (in *InList) expressionNode() {}
func (in *InList) String() string {
	s := in.Lhs.String()
	if in.Not {
		s += " NOT"
	}
	s += " IN ("
	for i, e := range in.Rhs {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// Between represents `lhs [NOT] BETWEEN low AND high`. Explicitly
// unimplemented by the condition compiler (spec §4.5, §7) — the type exists
// so the "unsupported feature" error can name it precisely.
type Between struct {
	Lhs       Expression
	Low, High Expression
	Not       bool
}

func (b *Between) expressionNode() {}
func (b *Between) String() string {
	s := b.Lhs.String()
	if b.Not {
		s += " NOT"
	}
	return s + " BETWEEN " + b.Low.String() + " AND " + b.High.String()
}

// StarExpr represents `*` in a SELECT list.
type StarExpr struct{}

func (StarExpr) expressionNode() {}
func (StarExpr) String() string  { return "*" }

// TableStarExpr represents `alias.*` in a SELECT list.
type TableStarExpr struct {
	Table string
}

func (t TableStarExpr) expressionNode() {}
func (t TableStarExpr) String() string  { return t.Table + ".*" }

// OrderKey is one ORDER BY element.
type OrderKey struct {
	Expr Expression
	Desc bool
}

// AggFunc names an aggregate function kind. The function subsystem (out of
// scope here, spec §3) owns the exhaustive set; the plan only stores the
// tag it was given.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// Aggregate is a (function, argument) pair, e.g. SUM(t1.amount).
type Aggregate struct {
	Func AggFunc
	Args []Expression
}

func (a Aggregate) String() string {
	s := string(a.Func) + "("
	for i, arg := range a.Args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}

// JoinKind distinguishes inner from outer joins. This core only needs to
// know whether the join is outer and, if so, which side is nullable — full
// RIGHT/FULL OUTER semantics are a parser/binder concern that normalizes
// them to a LEFT join with swapped children before this core sees them.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeftOuter
)

func (k JoinKind) String() string {
	if k == JoinLeftOuter {
		return "OUTER JOIN"
	}
	return "JOIN"
}
