// Package plan is the logical plan tree of spec §3/§4: a tagged-variant
// operator tree built bottom-up by a Plan Builder, consumed by EXPLAIN
// rendering (§4.1) and by table-reference bitmask analysis (§4.3). The
// tree is immutable once built; no operator mutates another's state.
package plan

import (
	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/schema"
)

// Kind discriminates the Operator variants of spec §3's Operator table.
// Go has no closed sum types; this enum plus a type switch in every
// consumer is the emulation spec §9 asks for, and every switch here is
// written to fail loudly (panic on an unhandled Kind) rather than silently
// skip a case.
type Kind int

const (
	KindScan Kind = iota
	KindSeekRowid
	KindJoin
	KindFilter
	KindAggregate
	KindOrder
	KindProjection
	KindLimit
	KindNothing
)

// Operator is the interface every plan node implements. Nothing is the one
// variant for which ID is a programming error to call (spec §3).
type Operator interface {
	Kind() Kind
	ID() int
	ColumnCount() int
	ColumnNames() []string
	Children() []Operator
}

// Scan is a full table scan, optionally with residual filter predicates
// that couldn't be pushed any further down.
type Scan struct {
	Id         int
	Table      *schema.Table
	Alias      string
	Predicates []ast.Expression
}

func (s *Scan) Kind() Kind           { return KindScan }
func (s *Scan) ID() int              { return s.Id }
func (s *Scan) ColumnCount() int     { return s.Table.ColumnCount() }
func (s *Scan) ColumnNames() []string {
	names := make([]string, len(s.Table.Columns))
	for i, c := range s.Table.Columns {
		names[i] = c.Name
	}
	return names
}
func (s *Scan) Children() []Operator { return nil }

// SeekRowid is the degenerate-predicate optimization of spec's supplemented
// features: a Scan whose WHERE contains an equality on the table's rowid is
// rewritten into a direct point lookup instead of a full scan.
type SeekRowid struct {
	Id             int
	Table          *schema.Table
	Alias          string
	RowidPredicate ast.Expression // always non-nil
	Predicates     []ast.Expression
}

func (s *SeekRowid) Kind() Kind           { return KindSeekRowid }
func (s *SeekRowid) ID() int              { return s.Id }
func (s *SeekRowid) ColumnCount() int     { return s.Table.ColumnCount() }
func (s *SeekRowid) ColumnNames() []string {
	names := make([]string, len(s.Table.Columns))
	for i, c := range s.Table.Columns {
		names[i] = c.Name
	}
	return names
}
func (s *SeekRowid) Children() []Operator { return nil }

// Join combines two children, inner or left-outer. Predicates holds the ON
// clause, if any; WHERE-vs-ON placement is the WHERE compiler's concern
// (spec §4.4), not this tree's.
type Join struct {
	Id         int
	Left       Operator
	Right      Operator
	Predicates []ast.Expression
	Outer      bool
}

func (j *Join) Kind() Kind       { return KindJoin }
func (j *Join) ID() int          { return j.Id }
func (j *Join) ColumnCount() int { return j.Left.ColumnCount() + j.Right.ColumnCount() }
func (j *Join) ColumnNames() []string {
	return append(append([]string{}, j.Left.ColumnNames()...), j.Right.ColumnNames()...)
}
func (j *Join) Children() []Operator { return []Operator{j.Left, j.Right} }

// Filter applies a non-empty predicate list to its child's rows.
type Filter struct {
	Id         int
	Child      Operator
	Predicates []ast.Expression // non-empty
}

func (f *Filter) Kind() Kind            { return KindFilter }
func (f *Filter) ID() int               { return f.Id }
func (f *Filter) ColumnCount() int      { return f.Child.ColumnCount() }
func (f *Filter) ColumnNames() []string { return f.Child.ColumnNames() }
func (f *Filter) Children() []Operator  { return []Operator{f.Child} }

// Aggregate reduces its child to one row of aggregate results.
type Aggregate struct {
	Id         int
	Child      Operator
	Aggregates []ast.Aggregate
}

func (a *Aggregate) Kind() Kind       { return KindAggregate }
func (a *Aggregate) ID() int          { return a.Id }
func (a *Aggregate) ColumnCount() int { return len(a.Aggregates) }
func (a *Aggregate) ColumnNames() []string {
	names := make([]string, len(a.Aggregates))
	for i, agg := range a.Aggregates {
		names[i] = agg.String()
	}
	return names
}
func (a *Aggregate) Children() []Operator { return []Operator{a.Child} }

// Order sorts its child's rows by a non-empty key list.
type Order struct {
	Id    int
	Child Operator
	Keys  []ast.OrderKey // non-empty
}

func (o *Order) Kind() Kind            { return KindOrder }
func (o *Order) ID() int               { return o.Id }
func (o *Order) ColumnCount() int      { return o.Child.ColumnCount() }
func (o *Order) ColumnNames() []string { return o.Child.ColumnNames() }
func (o *Order) Children() []Operator  { return []Operator{o.Child} }

// Projection narrows/reshapes its child's columns. Exprs may include
// ast.StarExpr and ast.TableStarExpr alongside ordinary scalar expressions
// (spec §3); Refs is the same referenced-tables vector the plan was built
// against, needed to expand Star/TableStar column counts and names.
type Projection struct {
	Id    int
	Child Operator
	Exprs []ast.Expression
	Refs  refs.List
}

func (p *Projection) Kind() Kind { return KindProjection }
func (p *Projection) ID() int    { return p.Id }

func (p *Projection) ColumnCount() int {
	total := 0
	for _, e := range p.Exprs {
		total += p.exprColumnCount(e)
	}
	return total
}

func (p *Projection) exprColumnCount(e ast.Expression) int {
	switch v := e.(type) {
	case ast.StarExpr:
		total := 0
		for _, ref := range p.Refs {
			total += ref.Table.ColumnCount()
		}
		return total
	case ast.TableStarExpr:
		for _, ref := range p.Refs {
			if ref.Alias == v.Table {
				return ref.Table.ColumnCount()
			}
		}
		return 0
	default:
		return 1
	}
}

func (p *Projection) ColumnNames() []string {
	var names []string
	for _, e := range p.Exprs {
		switch v := e.(type) {
		case ast.StarExpr:
			names = append(names, "*")
		case ast.TableStarExpr:
			names = append(names, v.Table+".*")
		case *ast.Id:
			names = append(names, v.Name)
		case *ast.Qualified:
			names = append(names, v.Table+"."+v.Name)
		default:
			names = append(names, "expr")
		}
	}
	return names
}
func (p *Projection) Children() []Operator { return []Operator{p.Child} }

// Limit caps its child's output at N rows.
type Limit struct {
	Id    int
	Child Operator
	N     int64 // non-negative
}

func (l *Limit) Kind() Kind            { return KindLimit }
func (l *Limit) ID() int               { return l.Id }
func (l *Limit) ColumnCount() int      { return l.Child.ColumnCount() }
func (l *Limit) ColumnNames() []string { return l.Child.ColumnNames() }
func (l *Limit) Children() []Operator  { return []Operator{l.Child} }

// Nothing is the terminal empty-result operator. Per spec §3 it never has
// an id; ID panics rather than returning a meaningless value.
type Nothing struct{}

func (Nothing) Kind() Kind       { return KindNothing }
func (Nothing) ID() int          { panic("plan: Nothing has no id") }
func (Nothing) ColumnCount() int { return 0 }
func (Nothing) ColumnNames() []string { return nil }
func (Nothing) Children() []Operator  { return nil }
