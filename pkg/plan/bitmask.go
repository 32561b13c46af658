package plan

import (
	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/schema"
)

// Mask is a table-reference bitmask (spec §4.3): bit i set means the
// expression or operator subtree refers to referenced-tables position i.
// The domain is 63 bits; Bit and ExprMask do not check it. Builder.Build
// rejects FROM lists wider than that before any mask is computed.
type Mask uint64

// Bit returns the mask with exactly position's bit set.
func Bit(position int) Mask {
	return Mask(1) << uint(position)
}

// ExprMask computes the table-reference bitmask of an expression by
// structural recursion (spec §4.3). Identifiers are resolved against r;
// a resolution failure is returned rather than silently treated as zero,
// per spec §8's rule that the analyzer "either sets exactly one bit or
// raises not found / ambiguous — never silently misses" for identifiers.
func ExprMask(e ast.Expression, r refs.List) (Mask, error) {
	switch v := e.(type) {
	case *ast.Binary:
		left, err := ExprMask(v.Left, r)
		if err != nil {
			return 0, err
		}
		right, err := ExprMask(v.Right, r)
		if err != nil {
			return 0, err
		}
		return left | right, nil

	case *ast.Literal:
		return 0, nil

	case *ast.Like:
		lhs, err := ExprMask(v.Lhs, r)
		if err != nil {
			return 0, err
		}
		rhs, err := ExprMask(v.Rhs, r)
		if err != nil {
			return 0, err
		}
		return lhs | rhs, nil

	case *ast.FunctionCall:
		var m Mask
		for _, arg := range v.Args {
			am, err := ExprMask(arg, r)
			if err != nil {
				return 0, err
			}
			m |= am
		}
		return m, nil

	case *ast.InList:
		m, err := ExprMask(v.Lhs, r)
		if err != nil {
			return 0, err
		}
		for _, rhs := range v.Rhs {
			rm, err := ExprMask(rhs, r)
			if err != nil {
				return 0, err
			}
			m |= rm
		}
		return m, nil

	case *ast.Id:
		pos, err := r.Resolve(v.Name)
		if err != nil {
			return 0, err
		}
		return Bit(pos), nil

	case *ast.Qualified:
		pos, err := r.ResolveQualified(v.Table, v.Name)
		if err != nil {
			return 0, err
		}
		return Bit(pos), nil

	default:
		// Case, CollateExpr, Cast, Exists, Subquery, unary ops and any
		// other shape not named above: treated as zero-contribution.
		// This core doesn't define any of those AST shapes, so the
		// conservative-zero rule is enforced simply by falling through
		// here rather than by explicit cases for each one.
		return 0, nil
	}
}

// OperatorMask computes the table-reference bitmask of a plan subtree
// (spec §4.3). Scan/SeekRowid contribute their own table's bit; Join is
// the OR of its children and ignores its ON predicate — the mask
// represents sources consumed, not predicates touched; every other
// operator propagates its child's mask.
func OperatorMask(op Operator, r refs.List) (Mask, error) {
	switch n := op.(type) {
	case *Scan:
		return tableMask(n.Table, n.Alias, r), nil
	case *SeekRowid:
		return tableMask(n.Table, n.Alias, r), nil
	case *Join:
		left, err := OperatorMask(n.Left, r)
		if err != nil {
			return 0, err
		}
		right, err := OperatorMask(n.Right, r)
		if err != nil {
			return 0, err
		}
		return left | right, nil
	case *Filter:
		return OperatorMask(n.Child, r)
	case *Aggregate:
		return OperatorMask(n.Child, r)
	case *Order:
		return OperatorMask(n.Child, r)
	case *Projection:
		return OperatorMask(n.Child, r)
	case *Limit:
		return OperatorMask(n.Child, r)
	case Nothing:
		return 0, nil
	default:
		panic("plan: OperatorMask: unhandled operator kind")
	}
}

func tableMask(t *schema.Table, alias string, r refs.List) Mask {
	for i, ref := range r {
		if ref.Table == t && ref.Alias == alias {
			return Bit(i)
		}
	}
	return 0
}
