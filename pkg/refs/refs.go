// Package refs implements the Catalog Resolver leaf component of spec §2
// and §4.2: given a bare or table-qualified identifier, find the unique
// referenced-tables entry that owns it.
package refs

import (
	"heron/pkg/ident"
	"heron/pkg/schema"

	"github.com/pkg/errors"
)

// Errors returned by Resolve/ResolveQualified. Wrapped with the offending
// identifier via errors.Wrapf before reaching the caller (spec §7: "The
// catalog's absence of a match is converted to a parse error with a
// human-readable message including the offending identifier").
var (
	ErrColumnNotFound          = errors.New("column not found")
	ErrAmbiguousColumn         = errors.New("ambiguous column")
	ErrTableNotFound           = errors.New("table not found")
	ErrQualifiedColumnNotFound = errors.New("qualified column not found")
)

// Ref is one (table, alias) occurrence in a FROM clause. The ordinal
// position of a Ref within a List is its "referenced-tables position"
// (spec §3) and the bit index used by bitmask analysis (spec §4.3).
type Ref struct {
	Table *schema.Table
	Alias string
}

// List is the referenced-tables vector: one entry per FROM occurrence, in
// the order the tables were opened. The same *schema.Table may appear
// twice under different aliases.
type List []Ref

// MaxPosition is the highest valid referenced-tables position: the bitmask
// domain is 63 bits wide (spec §4.3), so positions 0..62 are legal. Tables
// beyond that are rejected by the surrounding collaborator, out of scope
// here (spec §4.3).
const MaxPosition = 62

// Resolve looks up a bare identifier. Per spec §4.2: collects every ref
// whose table has a matching column (after normalization); zero matches is
// ErrColumnNotFound, more than one is ErrAmbiguousColumn, exactly one
// returns that ref's position.
func (l List) Resolve(name string) (int, error) {
	pos := -1
	for i, ref := range l {
		if _, _, ok := ref.Table.Column(name); ok {
			if pos != -1 {
				return -1, errors.Wrapf(ErrAmbiguousColumn, "column %q", name)
			}
			pos = i
		}
	}
	if pos == -1 {
		return -1, errors.Wrapf(ErrColumnNotFound, "column %q", name)
	}
	return pos, nil
}

// ResolveQualified looks up a table-qualified identifier `table.name`. Per
// spec §4.2: finds the unique ref whose alias matches table (normalized);
// missing alias is ErrTableNotFound; found but the table lacks the column
// is ErrQualifiedColumnNotFound.
func (l List) ResolveQualified(table, name string) (int, error) {
	for i, ref := range l {
		if ident.Equal(ref.Alias, table) {
			if _, _, ok := ref.Table.Column(name); !ok {
				return -1, errors.Wrapf(ErrQualifiedColumnNotFound, "column %q on %q", name, table)
			}
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrTableNotFound, "table %q", table)
}

// ResolveExpr dispatches a bare-vs-qualified identifier to the matching
// Resolve variant: an empty table selects Resolve, anything else
// ResolveQualified. Bitmask analysis (pkg/plan) and operand loading
// (pkg/where) call Resolve and ResolveQualified directly.
func (l List) ResolveExpr(table, name string) (int, error) {
	if table == "" {
		return l.Resolve(name)
	}
	return l.ResolveQualified(table, name)
}
