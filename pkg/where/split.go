package where

import (
	"heron/pkg/ast"
	"heron/pkg/plan"
	"heron/pkg/refs"
)

// WhereTerm is one independent conjunct plus the cursor it should be
// evaluated at (spec §3's ProcessedWhereClause).
type WhereTerm struct {
	Expr             ast.Expression
	EvaluateAtCursor int
}

// ProcessedWhereClause is an ordered sequence of WhereTerm. The conjunction
// of all terms is semantically equivalent to the original WHERE clause
// plus every join's ON clause.
type ProcessedWhereClause []WhereTerm

// JoinClause describes one join's ON metadata for the splitter: On is nil
// for a join with no ON clause (e.g. a plain CROSS JOIN); OuterTablePos is
// only meaningful when Outer is true and names the nullable side's
// referenced-tables position.
type JoinClause struct {
	On            ast.Expression
	Outer         bool
	OuterTablePos int
}

// FlattenAnd splits e through logical-AND boundaries into independent
// conjuncts. OR expressions are left intact as a single conjunct — the
// splitter does not commute with short-circuit OR (spec §4.4).
func FlattenAnd(e ast.Expression) []ast.Expression {
	if b, ok := e.(*ast.Binary); ok && b.Op == ast.And {
		return append(FlattenAnd(b.Left), FlattenAnd(b.Right)...)
	}
	return []ast.Expression{e}
}

// Split flattens whereExpr and every join's ON clause into a
// ProcessedWhereClause, assigning each conjunct's evaluate_at_cursor per
// spec §4.4:
//
//   - ON clause of an outer join: assigned to the nullable side's cursor.
//   - ON clause of an inner join, and every WHERE conjunct: assigned to
//     the maximum cursor referenced, or minOpenCursor (the outermost open
//     cursor) if the conjunct references no cursor at all.
//
// whereExpr may be nil (no WHERE clause).
func Split(whereExpr ast.Expression, joins []JoinClause, r refs.List, minOpenCursor int) (ProcessedWhereClause, error) {
	var terms ProcessedWhereClause

	for _, j := range joins {
		if j.On == nil {
			continue
		}
		for _, conj := range FlattenAnd(j.On) {
			if j.Outer {
				terms = append(terms, WhereTerm{Expr: conj, EvaluateAtCursor: j.OuterTablePos})
				continue
			}
			cursor, err := placementCursor(conj, r, minOpenCursor)
			if err != nil {
				return nil, err
			}
			terms = append(terms, WhereTerm{Expr: conj, EvaluateAtCursor: cursor})
		}
	}

	if whereExpr != nil {
		for _, conj := range FlattenAnd(whereExpr) {
			cursor, err := placementCursor(conj, r, minOpenCursor)
			if err != nil {
				return nil, err
			}
			terms = append(terms, WhereTerm{Expr: conj, EvaluateAtCursor: cursor})
		}
	}

	return terms, nil
}

// placementCursor implements the max-referenced / min-open-as-fallback
// rule shared by INNER-join ON clauses and WHERE conjuncts (spec §4.4).
func placementCursor(e ast.Expression, r refs.List, minOpenCursor int) (int, error) {
	mask, err := plan.ExprMask(e, r)
	if err != nil {
		return 0, err
	}
	if mask == 0 {
		return minOpenCursor, nil
	}
	return highestSetBit(mask), nil
}

func highestSetBit(m plan.Mask) int {
	pos := -1
	for i := 0; i <= refs.MaxPosition; i++ {
		if m&plan.Bit(i) != 0 {
			pos = i
		}
	}
	return pos
}
