package where

import (
	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/vm"

	"github.com/pkg/errors"
)

// ConditionMetadata parameterizes the recursive short-circuit emitter
// (spec §4.5). JumpIfTrue picks which of the two labels the generic
// single-branch protocol (AND, comparisons, literal-as-boolean) jumps on;
// OR and IN-list reference both labels directly regardless of the flag.
type ConditionMetadata struct {
	JumpIfTrue bool
	TrueLabel  vm.Label
	FalseLabel vm.Label
}

// Compile emits branch instructions for e under meta (spec §4.5). It's the
// single recursive entry point; every AST condition shape this core knows
// about is dispatched from here.
func Compile(b *vm.Builder, r refs.List, e ast.Expression, meta ConditionMetadata) error {
	switch v := e.(type) {
	case *ast.Binary:
		switch v.Op {
		case ast.And:
			return compileAnd(b, r, v, meta)
		case ast.Or:
			return compileOr(b, r, v, meta)
		default:
			if v.Op.IsComparison() {
				return compileComparison(b, r, v, meta)
			}
			return errors.Wrapf(ErrUnsupportedFeature, "%s as a condition", v.Op)
		}

	case *ast.InList:
		return compileInList(b, r, v, meta)

	case *ast.Like:
		if v.Op != ast.LikeOpLike {
			return errors.Wrapf(ErrUnsupportedFeature, "%s", v.Op)
		}
		return compileLike(b, r, v, meta)

	case *ast.Between:
		return errors.Wrap(ErrUnsupportedFeature, "BETWEEN")

	case *ast.Literal, *ast.Id, *ast.Qualified, *ast.FunctionCall:
		return compileTruthy(b, r, e, meta)

	default:
		return errors.Errorf("where: unhandled condition shape %T", e)
	}
}

// compileAnd: left is compiled so its falsity jumps straight to the
// caller's false label and its truth falls through; right is compiled
// with the caller's metadata unchanged (spec §4.5).
func compileAnd(b *vm.Builder, r refs.List, bin *ast.Binary, meta ConditionMetadata) error {
	leftMeta := ConditionMetadata{JumpIfTrue: false, TrueLabel: meta.TrueLabel, FalseLabel: meta.FalseLabel}
	if err := Compile(b, r, bin.Left, leftMeta); err != nil {
		return err
	}
	return Compile(b, r, bin.Right, meta)
}

// compileOr: left is compiled so its truth jumps to the caller's true
// label; its falsity falls through to a fresh local label, after which
// right is compiled with the caller's metadata unchanged (spec §4.5).
func compileOr(b *vm.Builder, r refs.List, bin *ast.Binary, meta ConditionMetadata) error {
	localFalse := b.AllocateLabel()
	leftMeta := ConditionMetadata{JumpIfTrue: true, TrueLabel: meta.TrueLabel, FalseLabel: localFalse}
	if err := Compile(b, r, bin.Left, leftMeta); err != nil {
		return err
	}
	if err := b.ResolveLabel(localFalse, b.Offset()); err != nil {
		return err
	}
	return Compile(b, r, bin.Right, meta)
}

// compileComparison evaluates both sides into registers, then emits one
// comparison-and-branch. When jump_if_true the comparison keeps its
// natural sense; otherwise it's negated so that falsity of the negation
// (i.e. truth of the original) falls through (spec §4.5).
func compileComparison(b *vm.Builder, r refs.List, bin *ast.Binary, meta ConditionMetadata) error {
	lhsReg, err := translateExpr(b, r, bin.Left)
	if err != nil {
		return err
	}
	rhsReg, err := translateExpr(b, r, bin.Right)
	if err != nil {
		return err
	}

	op := bin.Op
	target := meta.TrueLabel
	if !meta.JumpIfTrue {
		op = op.Negate()
		target = meta.FalseLabel
	}
	opcode, ok := vm.ComparisonOpcode(op.String())
	if !ok {
		return errors.Errorf("where: %s has no comparison opcode", op)
	}
	b.EmitInsnWithLabelDependency(vm.Instruction{Op: opcode, P1: lhsReg, P3: rhsReg}, target)
	return nil
}

// compileTruthy materializes e (a literal, column reference, or scalar
// function call used directly as a Boolean) and branches on its truth
// value (spec §4.5).
func compileTruthy(b *vm.Builder, r refs.List, e ast.Expression, meta ConditionMetadata) error {
	reg, err := translateExpr(b, r, e)
	if err != nil {
		return err
	}
	if meta.JumpIfTrue {
		b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpIf, P1: reg}, meta.TrueLabel)
	} else {
		b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpIfNot, P1: reg}, meta.FalseLabel)
	}
	return nil
}

// compileInList implements spec §4.5's IN / NOT IN rules, including the
// constant-false / constant-true special cases for an empty rhs list.
func compileInList(b *vm.Builder, r refs.List, in *ast.InList, meta ConditionMetadata) error {
	lhsReg, err := translateExpr(b, r, in.Lhs)
	if err != nil {
		return err
	}

	if len(in.Rhs) == 0 {
		if in.Not {
			// NOT IN () is constant true.
			if meta.JumpIfTrue {
				b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpGoto}, meta.TrueLabel)
			}
			return nil
		}
		// IN () is constant false.
		if !meta.JumpIfTrue {
			b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpGoto}, meta.FalseLabel)
		}
		return nil
	}

	if in.Not {
		for _, rhsExpr := range in.Rhs {
			rReg, err := translateExpr(b, r, rhsExpr)
			if err != nil {
				return err
			}
			b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpEq, P1: lhsReg, P3: rReg}, meta.FalseLabel)
		}
		if meta.JumpIfTrue {
			b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpGoto}, meta.TrueLabel)
		}
		return nil
	}

	truthLabel := meta.TrueLabel
	useLocal := !meta.JumpIfTrue
	if useLocal {
		truthLabel = b.AllocateLabel()
	}
	for i, rhsExpr := range in.Rhs {
		rReg, err := translateExpr(b, r, rhsExpr)
		if err != nil {
			return err
		}
		if i == len(in.Rhs)-1 {
			b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpNe, P1: lhsReg, P3: rReg}, meta.FalseLabel)
		} else {
			b.EmitInsnWithLabelDependency(vm.Instruction{Op: vm.OpEq, P1: lhsReg, P3: rReg}, truthLabel)
		}
	}
	if useLocal {
		if err := b.ResolveLabel(truthLabel, b.Offset()); err != nil {
			return err
		}
	}
	return nil
}

// compileLike evaluates the pattern first (so a literal pattern gets the
// hoist hint), then the subject, invokes the Like scalar function, and
// branches on the result with the right polarity for NOT LIKE.
func compileLike(b *vm.Builder, r refs.List, l *ast.Like, meta ConditionMetadata) error {
	patReg, err := translateExpr(b, r, l.Rhs)
	if err != nil {
		return err
	}
	if _, err := translateExpr(b, r, l.Lhs); err != nil {
		return err
	}
	result := b.AllocRegister()
	b.EmitInsn(vm.Instruction{Op: vm.OpFunction, P1: patReg, P2: result, P4: "Like"})

	// NOT LIKE flips which outcome (truthy/falsy result) counts as a match;
	// which label that outcome jumps to still follows meta.JumpIfTrue.
	op := vm.OpIf
	target := meta.TrueLabel
	if !meta.JumpIfTrue {
		op = vm.OpIfNot
		target = meta.FalseLabel
	}
	if l.Not {
		if op == vm.OpIf {
			op = vm.OpIfNot
		} else {
			op = vm.OpIf
		}
	}
	b.EmitInsnWithLabelDependency(vm.Instruction{Op: op, P1: result}, target)
	return nil
}
