package where

import (
	"testing"

	"heron/pkg/ast"
	"heron/pkg/types"
	"heron/pkg/vm"
)

type testLoop struct {
	cursor   int
	alias    string
	nextRow  vm.Label
}

func (l *testLoop) OpenCursor() int        { return l.cursor }
func (l *testLoop) Identifier() string     { return l.alias }
func (l *testLoop) NextRowLabel() vm.Label { return l.nextRow }

func TestCompileLoopsPlacesTermsAtMatchingCursor(t *testing.T) {
	b := vm.NewBuilder()
	r := testWhereRefs()

	loop0 := &testLoop{cursor: 0, alias: "t1", nextRow: b.AllocateLabel()}
	loop1 := &testLoop{cursor: 1, alias: "t2", nextRow: b.AllocateLabel()}

	clause := ProcessedWhereClause{
		{Expr: &ast.Binary{Left: &ast.Id{Name: "a"}, Op: ast.Gt, Right: &ast.Literal{Value: types.NewInt(0)}}, EvaluateAtCursor: 0},
		{Expr: &ast.Binary{Left: &ast.Qualified{Table: "t2", Name: "b"}, Op: ast.Eq, Right: &ast.Literal{Value: types.NewInt(1)}}, EvaluateAtCursor: 1},
	}

	if err := CompileLoops(b, r, clause, []Loop{loop0, loop1}); err != nil {
		t.Fatalf("CompileLoops: %v", err)
	}
	b.ResolveLabel(loop0.nextRow, b.Offset())
	b.ResolveLabel(loop1.nextRow, b.Offset())

	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if prog.Len() == 0 {
		t.Error("expected emitted instructions for both loop-scoped terms")
	}
}

func TestCompileLoopsSkipsNonMatchingCursor(t *testing.T) {
	b := vm.NewBuilder()
	r := testWhereRefs()

	loop0 := &testLoop{cursor: 0, alias: "t1", nextRow: b.AllocateLabel()}
	clause := ProcessedWhereClause{
		{Expr: &ast.Binary{Left: &ast.Qualified{Table: "t2", Name: "b"}, Op: ast.Eq, Right: &ast.Literal{Value: types.NewInt(1)}}, EvaluateAtCursor: 1},
	}

	if err := CompileLoops(b, r, clause, []Loop{loop0}); err != nil {
		t.Fatalf("CompileLoops: %v", err)
	}
	b.ResolveLabel(loop0.nextRow, b.Offset())

	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if prog.Len() != 0 {
		t.Errorf("prog.Len() = %d, want 0 (term assigned to a cursor with no matching loop)", prog.Len())
	}
}
