package plan

import "testing"

func TestScanColumnCountAndNames(t *testing.T) {
	tbl := testTable("t", "a", "b", "c")
	scan := &Scan{Id: 1, Table: tbl, Alias: "t"}
	if got := scan.ColumnCount(); got != 3 {
		t.Errorf("ColumnCount() = %d, want 3", got)
	}
	want := []string{"a", "b", "c"}
	got := scan.ColumnNames()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ColumnNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if scan.Kind() != KindScan {
		t.Errorf("Kind() = %v, want KindScan", scan.Kind())
	}
	if scan.ID() != 1 {
		t.Errorf("ID() = %d, want 1", scan.ID())
	}
	if scan.Children() != nil {
		t.Errorf("Children() = %v, want nil", scan.Children())
	}
}

func TestJoinColumnCountIsSumOfChildren(t *testing.T) {
	t1 := testTable("t1", "a", "b")
	t2 := testTable("t2", "c")
	join := &Join{
		Id:    1,
		Left:  &Scan{Table: t1, Alias: "t1"},
		Right: &Scan{Table: t2, Alias: "t2"},
	}
	if got := join.ColumnCount(); got != 3 {
		t.Errorf("ColumnCount() = %d, want 3", got)
	}
	if got := join.ColumnNames(); len(got) != 3 {
		t.Errorf("ColumnNames() = %v, want 3 entries", got)
	}
	if len(join.Children()) != 2 {
		t.Errorf("Children() = %v, want 2 entries", join.Children())
	}
}

func TestFilterOrderLimitInheritFromChild(t *testing.T) {
	tbl := testTable("t", "a", "b")
	scan := &Scan{Table: tbl, Alias: "t"}
	filter := &Filter{Child: scan}
	order := &Order{Child: filter}
	limit := &Limit{Child: order, N: 5}

	for _, op := range []Operator{filter, order, limit} {
		if got := op.ColumnCount(); got != 2 {
			t.Errorf("%T.ColumnCount() = %d, want 2", op, got)
		}
	}
}

func TestAggregateColumnCountIsAggregateCount(t *testing.T) {
	tbl := testTable("t", "a")
	agg := &Aggregate{
		Child: &Scan{Table: tbl, Alias: "t"},
	}
	if got := agg.ColumnCount(); got != 0 {
		t.Errorf("ColumnCount() = %d, want 0 for no aggregates", got)
	}
}

func TestNothingIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Nothing.ID() did not panic")
		}
	}()
	Nothing{}.ID()
}

func TestNothingColumnCountZero(t *testing.T) {
	if got := (Nothing{}).ColumnCount(); got != 0 {
		t.Errorf("ColumnCount() = %d, want 0", got)
	}
	if got := (Nothing{}).Kind(); got != KindNothing {
		t.Errorf("Kind() = %v, want KindNothing", got)
	}
}
