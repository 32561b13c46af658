package plan

import (
	"strconv"
	"strings"

	"heron/pkg/ast"
)

// Explain renders op's canonical EXPLAIN QUERY PLAN text (spec §4.1): one
// line per operator, four spaces of indentation per depth, children
// recursed at depth+1. The rendering is a pure function of the tree.
func Explain(op Operator) string {
	var b strings.Builder
	explain(&b, op, 0)
	return b.String()
}

func explain(b *strings.Builder, op Operator, depth int) {
	if _, ok := op.(Nothing); ok {
		return
	}

	b.WriteString(strings.Repeat("    ", depth))
	b.WriteString(explainLine(op))
	b.WriteByte('\n')

	for _, child := range op.Children() {
		explain(b, child, depth+1)
	}
}

func explainLine(op Operator) string {
	switch n := op.(type) {
	case *Scan:
		line := "SCAN " + n.Table.Name + " AS " + n.Alias
		if len(n.Predicates) > 0 {
			line += " FILTER " + joinPredicates(n.Predicates)
		}
		return line
	case *SeekRowid:
		line := "SEEK " + n.Table.Name + ".rowid ON rowid=" + n.RowidPredicate.String()
		if len(n.Predicates) > 0 {
			line += " FILTER " + joinPredicates(n.Predicates)
		}
		return line
	case *Join:
		line := n.joinKeyword()
		if len(n.Predicates) > 0 {
			line += " ON " + joinPredicates(n.Predicates)
		}
		return line
	case *Filter:
		return "FILTER " + joinPredicates(n.Predicates)
	case *Aggregate:
		return "AGGREGATE " + joinAggregates(n.Aggregates)
	case *Order:
		return "SORT " + joinOrderKeys(n.Keys)
	case *Projection:
		return "PROJECT " + joinExprs(n.Exprs)
	case *Limit:
		return "TAKE " + strconv.FormatInt(n.N, 10)
	case Nothing:
		return ""
	default:
		panic("plan: explainLine: unhandled operator kind")
	}
}

func (j *Join) joinKeyword() string {
	if j.Outer {
		return "OUTER JOIN"
	}
	return "JOIN"
}

func joinPredicates(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, " AND ")
}

func joinAggregates(aggs []ast.Aggregate) string {
	parts := make([]string, len(aggs))
	for i, a := range aggs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func joinExprs(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinOrderKeys(keys []ast.OrderKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts[i] = k.Expr.String() + " " + dir
	}
	return strings.Join(parts, ", ")
}
