package plan

import (
	"testing"

	"heron/pkg/ast"
)

func TestBuildSimpleScan(t *testing.T) {
	tbl := testTable("users", "id", "name")
	b := NewBuilder(nil)
	op, r, err := b.Build(SelectInput{From: FromItem{Table: tbl, Alias: "u"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	scan, ok := op.(*Scan)
	if !ok {
		t.Fatalf("Build() = %T, want *Scan", op)
	}
	if scan.Alias != "u" || scan.ID() != 1 {
		t.Errorf("scan = %+v, want alias u, id 1", scan)
	}
	if len(r) != 1 || r[0].Table != tbl {
		t.Errorf("refs = %+v, want single entry for users", r)
	}
}

func TestBuildRowidSeekRewrite(t *testing.T) {
	tbl := testTable("users", "id")
	where := &ast.Binary{Left: &ast.Id{Name: "rowid"}, Op: ast.Eq, Right: &ast.Literal{}}
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{From: FromItem{Table: tbl, Alias: "u"}, Where: where})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seek, ok := op.(*SeekRowid)
	if !ok {
		t.Fatalf("Build() = %T, want *SeekRowid", op)
	}
	if len(seek.Predicates) != 0 {
		t.Errorf("seek.Predicates = %v, want none left over", seek.Predicates)
	}
}

func TestBuildRowidSeekQualified(t *testing.T) {
	tbl := testTable("users", "id")
	where := &ast.Binary{Left: &ast.Qualified{Table: "u", Name: "rowid"}, Op: ast.Eq, Right: &ast.Literal{}}
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{From: FromItem{Table: tbl, Alias: "u"}, Where: where})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := op.(*SeekRowid); !ok {
		t.Fatalf("Build() = %T, want *SeekRowid", op)
	}
}

func TestBuildNonRowidPredicateStaysOnScan(t *testing.T) {
	tbl := testTable("users", "id")
	where := &ast.Binary{Left: &ast.Id{Name: "id"}, Op: ast.Eq, Right: &ast.Literal{}}
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{From: FromItem{Table: tbl, Alias: "u"}, Where: where})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	scan, ok := op.(*Scan)
	if !ok {
		t.Fatalf("Build() = %T, want *Scan", op)
	}
	if len(scan.Predicates) != 1 {
		t.Errorf("scan.Predicates = %v, want 1 pushed-down predicate", scan.Predicates)
	}
}

func TestBuildJoinWithOnClause(t *testing.T) {
	t1 := testTable("t1", "a")
	t2 := testTable("t2", "b")
	on := &ast.Binary{Left: &ast.Qualified{Table: "t1", Name: "a"}, Op: ast.Eq, Right: &ast.Qualified{Table: "t2", Name: "b"}}
	b := NewBuilder(nil)
	op, r, err := b.Build(SelectInput{
		From:  FromItem{Table: t1, Alias: "t1"},
		Joins: []JoinItem{{Right: FromItem{Table: t2, Alias: "t2"}, On: on, Outer: true}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	join, ok := op.(*Join)
	if !ok {
		t.Fatalf("Build() = %T, want *Join", op)
	}
	if !join.Outer {
		t.Error("join.Outer = false, want true")
	}
	if len(join.Predicates) != 1 {
		t.Errorf("join.Predicates = %v, want 1", join.Predicates)
	}
	if len(r) != 2 {
		t.Errorf("refs = %v, want 2 entries", r)
	}
}

func TestBuildCrossTablePredicateBecomesFilter(t *testing.T) {
	t1 := testTable("t1", "a")
	t2 := testTable("t2", "b")
	where := &ast.Binary{Left: &ast.Qualified{Table: "t1", Name: "a"}, Op: ast.Eq, Right: &ast.Qualified{Table: "t2", Name: "b"}}
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{
		From:  FromItem{Table: t1, Alias: "t1"},
		Joins: []JoinItem{{Right: FromItem{Table: t2, Alias: "t2"}}},
		Where: where,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	filter, ok := op.(*Filter)
	if !ok {
		t.Fatalf("Build() = %T, want *Filter", op)
	}
	if len(filter.Predicates) != 1 {
		t.Errorf("filter.Predicates = %v, want 1", filter.Predicates)
	}
}

func TestBuildFullPipelineProjectionLimitOrderAggregate(t *testing.T) {
	tbl := testTable("t", "a", "b")
	n := int64(5)
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{
		From:       FromItem{Table: tbl, Alias: "t"},
		Aggregates: []ast.Aggregate{{Func: ast.AggCount, Args: []ast.Expression{&ast.Id{Name: "a"}}}},
		OrderBy:    []ast.OrderKey{{Expr: &ast.Id{Name: "a"}}},
		Projection: []ast.Expression{ast.StarExpr{}},
		Limit:      &n,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	limit, ok := op.(*Limit)
	if !ok {
		t.Fatalf("Build() = %T, want *Limit", op)
	}
	if limit.N != 5 {
		t.Errorf("limit.N = %d, want 5", limit.N)
	}
	proj, ok := limit.Child.(*Projection)
	if !ok {
		t.Fatalf("limit.Child = %T, want *Projection", limit.Child)
	}
	order, ok := proj.Child.(*Order)
	if !ok {
		t.Fatalf("proj.Child = %T, want *Order", proj.Child)
	}
	if _, ok := order.Child.(*Aggregate); !ok {
		t.Fatalf("order.Child = %T, want *Aggregate", order.Child)
	}
}

func TestBuildNoFromReturnsNothing(t *testing.T) {
	b := NewBuilder(nil)
	op, r, err := b.Build(SelectInput{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := op.(Nothing); !ok {
		t.Errorf("Build() = %T, want Nothing", op)
	}
	if r != nil {
		t.Errorf("refs = %v, want nil", r)
	}
}

func TestBuildAssignsUniqueIncreasingIDs(t *testing.T) {
	t1 := testTable("t1", "a")
	t2 := testTable("t2", "b")
	b := NewBuilder(nil)
	op, _, err := b.Build(SelectInput{
		From:  FromItem{Table: t1, Alias: "t1"},
		Joins: []JoinItem{{Right: FromItem{Table: t2, Alias: "t2"}}},
		Limit: int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	limit := op.(*Limit)
	join := limit.Child.(*Join)
	if join.ID() <= join.Left.ID() || join.ID() <= join.Right.ID() {
		t.Errorf("join id %d should exceed both children's ids (%d, %d)", join.ID(), join.Left.ID(), join.Right.ID())
	}
	if limit.ID() <= join.ID() {
		t.Errorf("limit id %d should exceed join id %d", limit.ID(), join.ID())
	}
}

func int64Ptr(n int64) *int64 { return &n }
