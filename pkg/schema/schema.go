// pkg/schema/schema.go
//
// Package schema is the external collaborator spec §3 calls BTreeTable: a
// minimal, read-only-during-planning table/column catalog. Storage,
// constraints, triggers and persistence live elsewhere (spec §1
// non-goals); this package only owns enough shape for the planner and
// WHERE compiler to resolve identifiers and compute column counts.
package schema

import (
	"sort"
	"sync"

	"heron/pkg/ident"

	"github.com/pkg/errors"
)

// ErrTableNotFound is the sentinel for a FROM-clause table that isn't in
// the catalog. No function in this package returns it: GetTable reports a
// missing table by returning nil.
var ErrTableNotFound = errors.New("table not found")

// ErrTableExists is returned by CreateTable for a duplicate name.
var ErrTableExists = errors.New("table already exists")

// Column is a single column definition.
type Column struct {
	Name string
}

// Table is the BTreeTable collaborator of spec §3. Two Tables are the
// "same" table only if they are the same *Table pointer — the planner
// compares references, never names, to tell two aliased occurrences of one
// table in FROM apart from two distinct tables that merely share a name
// (spec §3, §9).
type Table struct {
	Name    string
	Columns []Column
}

// Column looks up a column by normalized name (spec §4.2's normalization
// rule, shared via package ident). Returns the column and its ordinal
// position, or (nil, -1, false) if no column matches.
func (t *Table) Column(name string) (*Column, int, bool) {
	want := ident.Normalize(name)
	for i := range t.Columns {
		if ident.Normalize(t.Columns[i].Name) == want {
			return &t.Columns[i], i, true
		}
	}
	return nil, -1, false
}

// ColumnCount returns the number of columns in the table.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Catalog holds the tables visible during planning. It is read-only once
// planning starts (spec §5); the mutex only guards the build-up phase
// against concurrent registration from multiple goroutines, mirroring the
// teacher's schema.Catalog locking discipline.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// CreateTable registers a table. Table identity (the *Table pointer
// returned by GetTable) is stable for the lifetime of the catalog.
func (c *Catalog) CreateTable(t *Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := ident.Normalize(t.Name)
	if _, exists := c.tables[key]; exists {
		return errors.Wrapf(ErrTableExists, "table %q", t.Name)
	}
	c.tables[key] = t
	return nil
}

// GetTable returns the table registered under name, or nil if none exists.
func (c *Catalog) GetTable(name string) *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables[ident.Normalize(name)]
}

// ListTables returns all registered table names in sorted order.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
