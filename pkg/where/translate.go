package where

import (
	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/types"
	"heron/pkg/vm"

	"github.com/pkg/errors"
)

// translateExpr materializes a scalar expression into a fresh register and
// returns it. This is the "translate_expr" collaborator spec §9 refers to:
// the condition compiler's operand loader, shared by comparisons, IN-list
// elements, LIKE operands, and literal/column truthiness checks.
func translateExpr(b *vm.Builder, r refs.List, e ast.Expression) (int, error) {
	switch v := e.(type) {
	case *ast.Literal:
		reg := b.AllocRegister()
		if v.Value.Type() == types.TypeInt {
			b.EmitInsn(vm.Instruction{Op: vm.OpInteger, P1: int(v.Value.Int()), P2: reg})
		} else {
			b.EmitInsn(vm.Instruction{Op: vm.OpString8, P2: reg, P4: v.Value.String()})
		}
		b.MarkLastInsnConstant()
		return reg, nil

	case *ast.Id:
		pos, err := r.Resolve(v.Name)
		if err != nil {
			return 0, err
		}
		_, colIdx, _ := r[pos].Table.Column(v.Name)
		reg := b.AllocRegister()
		b.EmitInsn(vm.Instruction{Op: vm.OpColumn, P1: pos, P2: colIdx, P3: reg})
		return reg, nil

	case *ast.Qualified:
		pos, err := r.ResolveQualified(v.Table, v.Name)
		if err != nil {
			return 0, err
		}
		_, colIdx, _ := r[pos].Table.Column(v.Name)
		reg := b.AllocRegister()
		b.EmitInsn(vm.Instruction{Op: vm.OpColumn, P1: pos, P2: colIdx, P3: reg})
		return reg, nil

	case *ast.FunctionCall:
		return translateFunctionCall(b, r, v)

	case *ast.Binary:
		if !isArithmetic(v.Op) {
			return 0, errors.Wrapf(ErrNotScalar, "%s", v.Op)
		}
		lhs, err := translateExpr(b, r, v.Left)
		if err != nil {
			return 0, err
		}
		rhs, err := translateExpr(b, r, v.Right)
		if err != nil {
			return 0, err
		}
		dest := b.AllocRegister()
		b.EmitInsn(vm.Instruction{Op: vm.OpFunction, P1: lhs, P2: dest, P3: rhs, P4: v.Op.String()})
		return dest, nil

	default:
		return 0, errors.Wrapf(ErrNotScalar, "%T", e)
	}
}

func translateFunctionCall(b *vm.Builder, r refs.List, f *ast.FunctionCall) (int, error) {
	start := b.AllocRegister()
	if len(f.Args) > 0 {
		first, err := translateExpr(b, r, f.Args[0])
		if err != nil {
			return 0, err
		}
		start = first
		for _, arg := range f.Args[1:] {
			if _, err := translateExpr(b, r, arg); err != nil {
				return 0, err
			}
		}
	}
	dest := b.AllocRegister()
	b.EmitInsn(vm.Instruction{Op: vm.OpFunction, P1: start, P2: dest, P4: f.Name})
	return dest, nil
}

func isArithmetic(op ast.Operator) bool {
	switch op {
	case ast.Plus, ast.Minus, ast.Star, ast.Slash:
		return true
	default:
		return false
	}
}
