package where

import (
	"heron/pkg/refs"
	"heron/pkg/vm"
)

// Loop is the per-cursor collaborator the overall compiler drives (spec
// §4.6): one open FROM-clause cursor in the loop nest the surrounding VM
// is generating.
type Loop interface {
	OpenCursor() int
	Identifier() string // table alias, used only for diagnostics
	NextRowLabel() vm.Label
}

// CompileLoops emits, for each loop in order, every term in clause whose
// EvaluateAtCursor matches that loop's cursor (spec §4.6). Each term gets
// a fresh jump_target_when_true label, resolved immediately after the
// term so that falling through continues the loop; jump_target_when_false
// is always the loop's next_row_label.
func CompileLoops(b *vm.Builder, r refs.List, clause ProcessedWhereClause, loops []Loop) error {
	for _, loop := range loops {
		cursor := loop.OpenCursor()
		for _, term := range clause {
			if term.EvaluateAtCursor != cursor {
				continue
			}
			trueLabel := b.AllocateLabel()
			meta := ConditionMetadata{
				JumpIfTrue: false,
				TrueLabel:  trueLabel,
				FalseLabel: loop.NextRowLabel(),
			}
			if err := Compile(b, r, term.Expr, meta); err != nil {
				return err
			}
			if err := b.ResolveLabel(trueLabel, b.Offset()); err != nil {
				return err
			}
		}
	}
	return nil
}
