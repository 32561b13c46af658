package vm

import "github.com/pkg/errors"

// Label is a forward-reference placeholder for a not-yet-known instruction
// offset: the compiler allocates a label, emits jumps to it, and resolves
// it once the target is emitted (spec §9, "Forward-label emission"). A
// Label is cheap to allocate and meaningless once Finalize succeeds.
type Label int

// ErrLabelAlreadyResolved is returned by ResolveLabel for a label that was
// already bound to an offset.
var ErrLabelAlreadyResolved = errors.New("label already resolved")

// labelPatch records one instruction index whose P2 must become the
// label's offset once it is known.
type labelPatch struct {
	insn int
}

// Builder is the ProgramBuilder of spec §6: the sole writer of VM
// instructions, registers and labels during WHERE/plan compilation.
// Grounded on the teacher's pkg/vdbe compiler (AddOp/AddOp4/ChangeP2),
// generalized here into the explicit two-phase emit/resolve contract spec
// §9 calls out ("Forward-label emission").
type Builder struct {
	instructions []Instruction
	nextReg      int

	resolved map[Label]int
	pending  map[Label][]labelPatch
	nextLbl  Label
}

// NewBuilder returns an empty Builder. Register 0 is reserved (never
// handed out by AllocRegister), following the teacher's convention that
// register 0 never holds a live value.
func NewBuilder() *Builder {
	return &Builder{
		nextReg:  1,
		resolved: make(map[Label]int),
		pending:  make(map[Label][]labelPatch),
	}
}

// AllocRegister hands out the next unused register number.
func (b *Builder) AllocRegister() int {
	r := b.nextReg
	b.nextReg++
	return r
}

// AllocateLabel allocates a new, unresolved label.
func (b *Builder) AllocateLabel() Label {
	l := b.nextLbl
	b.nextLbl++
	return l
}

// Offset returns the offset the next emitted instruction will occupy —
// i.e. the current length of the instruction stream.
func (b *Builder) Offset() int {
	return len(b.instructions)
}

// EmitInsn appends an already-fully-formed instruction (no label
// dependency) and returns its offset.
func (b *Builder) EmitInsn(insn Instruction) int {
	b.instructions = append(b.instructions, insn)
	return len(b.instructions) - 1
}

// EmitInsnWithLabelDependency appends insn whose P2 is a jump target that
// should become l's resolved offset. If l is already resolved the patch
// happens immediately (a backward reference); otherwise it is queued and
// applied when ResolveLabel(l, ...) runs.
func (b *Builder) EmitInsnWithLabelDependency(insn Instruction, l Label) int {
	addr := b.EmitInsn(insn)
	if off, ok := b.resolved[l]; ok {
		b.instructions[addr].P2 = off
		return addr
	}
	b.pending[l] = append(b.pending[l], labelPatch{insn: addr})
	return addr
}

// ResolveLabel binds l to offset, patching every instruction emitted so
// far via EmitInsnWithLabelDependency(_, l). A label may be resolved at
// most once (spec §6); resolving it twice is a programming error, reported
// rather than silently overwritten.
func (b *Builder) ResolveLabel(l Label, offset int) error {
	if _, exists := b.resolved[l]; exists {
		return errors.Wrapf(ErrLabelAlreadyResolved, "label %d", l)
	}
	b.resolved[l] = offset
	for _, patch := range b.pending[l] {
		b.instructions[patch.insn].P2 = offset
	}
	delete(b.pending, l)
	return nil
}

// MarkLastInsnConstant sets the hoist hint (Constant) on the most recently
// emitted instruction. Spec §4.5 / §9: a condition subexpression that
// doesn't reference any cursor in the current loop nest can be hoisted out
// of the loop by the surrounding optimizer; this is only a hint, the
// optimizer remains free to ignore it.
func (b *Builder) MarkLastInsnConstant() {
	if n := len(b.instructions); n > 0 {
		b.instructions[n-1].Constant = true
	}
}

// Finalize freezes the instruction stream into a Program. Per spec §5, any
// label allocated but never resolved is a fatal programming error in the
// compiler, not a runtime condition the caller should expect to handle.
func (b *Builder) Finalize() (*Program, error) {
	for l := Label(0); l < b.nextLbl; l++ {
		if _, ok := b.resolved[l]; !ok {
			return nil, errors.Errorf("label %d allocated but never resolved", l)
		}
	}
	return &Program{
		Instructions: b.instructions,
		NumRegisters: b.nextReg - 1,
	}, nil
}
