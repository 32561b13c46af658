package plan

import (
	"io"

	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/schema"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FromItem is one FROM-clause occurrence: a table plus the alias it was
// opened under.
type FromItem struct {
	Table *schema.Table
	Alias string
}

// JoinItem is one JOIN clause attached to the running FROM list.
type JoinItem struct {
	Right FromItem
	On    ast.Expression // nil for a join with no ON clause
	Outer bool
}

// SelectInput is the simplified SELECT-shaped input the Plan Builder
// consumes (spec §2: "SELECT list, FROM with JOINs, WHERE, ORDER BY,
// LIMIT, GROUP/aggregate)"). The real parser's SELECT AST is an external
// collaborator (spec §1); this is the narrow shape this core needs from
// it.
type SelectInput struct {
	From       FromItem
	Joins      []JoinItem
	Where      ast.Expression // nil if no WHERE clause
	Aggregates []ast.Aggregate
	OrderBy    []ast.OrderKey
	Limit      *int64
	Projection []ast.Expression
}

// Builder is the Plan Builder of spec §2: consumes a SelectInput and
// builds an Operator tree, assigning every non-Nothing operator a unique
// positive id.
type Builder struct {
	Logger *logrus.Logger
	nextID int
}

// NewBuilder returns a Builder. A nil logger gets a discard logger, so
// callers who don't care about trace output don't have to configure one.
func NewBuilder(logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Builder{Logger: logger}
}

func (b *Builder) allocID() int {
	b.nextID++
	return b.nextID
}

// Build constructs the operator tree for input, along with the
// referenced-tables vector it was built against (callers need both: the
// vector is required by bitmask analysis and WHERE splitting, spec §4.2-
// §4.4).
func (b *Builder) Build(input SelectInput) (Operator, refs.List, error) {
	if input.From.Table == nil {
		b.Logger.Trace("plan: no FROM table, returning Nothing")
		return Nothing{}, nil, nil
	}

	r := refs.List{{Table: input.From.Table, Alias: input.From.Alias}}
	for _, j := range input.Joins {
		r = append(r, refs.Ref{Table: j.Right.Table, Alias: j.Right.Alias})
	}
	if len(r) > refs.MaxPosition+1 {
		return nil, nil, errors.Errorf("plan: %d referenced tables exceeds the 63-bit bitmask domain", len(r))
	}

	perTable := make([][]ast.Expression, len(r))
	var crossTable []ast.Expression
	if input.Where != nil {
		for _, conj := range flattenAnd(input.Where) {
			if _, ok := rowidEquality(conj, input.From.Alias); ok {
				// rowid is implicit, not a declared column: place the
				// conjunct by the tables its other operand references.
				bin := conj.(*ast.Binary)
				other := bin.Right
				if isRowidRef(bin.Right, input.From.Alias) {
					other = bin.Left
				}
				if mask, err := ExprMask(other, r); err != nil {
					return nil, nil, errors.Wrap(err, "plan: resolving WHERE conjunct")
				} else if mask&^Bit(0) == 0 {
					perTable[0] = append(perTable[0], conj)
					continue
				}
			}
			mask, err := ExprMask(conj, r)
			if err != nil {
				return nil, nil, errors.Wrap(err, "plan: resolving WHERE conjunct")
			}
			if pos, ok := singleBit(mask); ok {
				perTable[pos] = append(perTable[pos], conj)
			} else {
				crossTable = append(crossTable, conj)
			}
		}
	}

	base := b.buildBaseScan(input.From, r[0], perTable[0])
	b.Logger.WithField("table", input.From.Table.Name).Trace("plan: built base scan")

	var cur Operator = base
	for i, j := range input.Joins {
		pos := i + 1
		right := &Scan{Id: b.allocID(), Table: j.Right.Table, Alias: j.Right.Alias, Predicates: perTable[pos]}
		var joinPreds []ast.Expression
		if j.On != nil {
			joinPreds = flattenAnd(j.On)
		}
		cur = &Join{Id: b.allocID(), Left: cur, Right: right, Predicates: joinPreds, Outer: j.Outer}
		b.Logger.WithFields(logrus.Fields{"outer": j.Outer, "alias": j.Right.Alias}).Trace("plan: built join")
	}

	if len(crossTable) > 0 {
		cur = &Filter{Id: b.allocID(), Child: cur, Predicates: crossTable}
	}

	if len(input.Aggregates) > 0 {
		cur = &Aggregate{Id: b.allocID(), Child: cur, Aggregates: input.Aggregates}
	}
	if len(input.OrderBy) > 0 {
		cur = &Order{Id: b.allocID(), Child: cur, Keys: input.OrderBy}
	}
	if len(input.Projection) > 0 {
		cur = &Projection{Id: b.allocID(), Child: cur, Exprs: input.Projection, Refs: r}
	}
	if input.Limit != nil {
		cur = &Limit{Id: b.allocID(), Child: cur, N: *input.Limit}
	}

	return cur, r, nil
}

// buildBaseScan applies the degenerate rowid-seek optimization: if one of
// the base table's single-table predicates is a rowid equality, the base
// operator becomes a SeekRowid instead of a Scan (spec.md §1 Non-goals'
// one allowed optimization).
func (b *Builder) buildBaseScan(from FromItem, ref refs.Ref, predicates []ast.Expression) Operator {
	for i, p := range predicates {
		if rowidExpr, ok := rowidEquality(p, from.Alias); ok {
			rest := append(append([]ast.Expression{}, predicates[:i]...), predicates[i+1:]...)
			b.Logger.WithField("table", from.Table.Name).Trace("plan: rewrote scan to SeekRowid")
			return &SeekRowid{Id: b.allocID(), Table: from.Table, Alias: from.Alias, RowidPredicate: rowidExpr, Predicates: rest}
		}
	}
	return &Scan{Id: b.allocID(), Table: from.Table, Alias: from.Alias, Predicates: predicates}
}

// rowidEquality reports whether p is `rowid = expr` or `alias.rowid =
// expr` (in either operand order), returning the whole equality
// expression unchanged for use as SeekRowid's RowidPredicate.
func rowidEquality(p ast.Expression, alias string) (ast.Expression, bool) {
	bin, ok := p.(*ast.Binary)
	if !ok || bin.Op != ast.Eq {
		return nil, false
	}
	if isRowidRef(bin.Left, alias) || isRowidRef(bin.Right, alias) {
		return p, true
	}
	return nil, false
}

func isRowidRef(e ast.Expression, alias string) bool {
	switch v := e.(type) {
	case *ast.Id:
		return v.Name == "rowid"
	case *ast.Qualified:
		return v.Name == "rowid" && v.Table == alias
	default:
		return false
	}
}

func flattenAnd(e ast.Expression) []ast.Expression {
	if bin, ok := e.(*ast.Binary); ok && bin.Op == ast.And {
		return append(flattenAnd(bin.Left), flattenAnd(bin.Right)...)
	}
	return []ast.Expression{e}
}

func singleBit(m Mask) (int, bool) {
	if m == 0 || m&(m-1) != 0 {
		return 0, false
	}
	for i := 0; i <= refs.MaxPosition; i++ {
		if m == Bit(i) {
			return i, true
		}
	}
	return 0, false
}
