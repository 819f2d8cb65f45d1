// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField reports a sort field that the projection does not map.
var ErrUnknownField = errors.New("unknown sort field")

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the table, alias, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	sortable   map[string]string
	columnList []string
	joins      []string
	current    string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		current:    alias,
		columns:    make(map[string]string),
		sortable:   make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns are qualified with the alias of the most recent Join, or the base
// table alias when no join has been added.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.current, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	for _, key := range []string{strings.ToLower(viewName), column} {
		if _, taken := p.sortable[key]; !taken {
			p.sortable[key] = qualified
		}
	}
	return p
}

// Join adds a join clause (e.g. "LEFT JOIN") against schema.table under alias.
// Subsequent Project calls map columns of the joined table.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("%s %s.%s %s ON %s", kind, schema, table, alias, on))
	p.current = alias
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the fully qualified table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// From returns the FROM target: the aliased table followed by any joins.
func (p *ProjectionMap) From() string {
	if len(p.joins) == 0 {
		return p.Table()
	}
	return p.Table() + " " + strings.Join(p.joins, " ")
}

// Column returns the qualified column for a view property name, or the input if not mapped.
// The passthrough is for field names written in code; names taken from a
// request go through Lookup.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup resolves a client-supplied field name to its qualified column. The
// name matches a view property name regardless of case, or the bare database
// column name. The first projection to claim a name keeps it.
func (p *ProjectionMap) Lookup(name string) (string, bool) {
	if col, ok := p.columns[name]; ok {
		return col, true
	}
	col, ok := p.sortable[strings.ToLower(name)]
	return col, ok
}

// CheckSort returns an error wrapping ErrUnknownField for the first sort
// field that Lookup cannot resolve.
func (p *ProjectionMap) CheckSort(fields []SortField) error {
	for _, f := range fields {
		if _, ok := p.Lookup(f.Field); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, f.Field)
		}
	}
	return nil
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
