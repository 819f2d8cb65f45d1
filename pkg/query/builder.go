package query

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// bindFunc registers an argument and returns its positional placeholder.
type bindFunc func(arg any) string

// condition renders one WHERE term, binding its arguments as it goes.
type condition func(bind bindFunc) string

// SortField represents a single column in an ORDER BY clause.
// Field is the logical field name (mapped via ProjectionMap).
type SortField struct {
	Field      string
	Descending bool
}

// Builder constructs SQL queries with a fluent API. Placeholders are numbered
// when the query is built, in the order conditions were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string such as
// "filename,-uploadedAt". A leading "-" sorts descending. Returns nil for
// empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}

	return fields
}

// Build returns a SELECT query with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return b.selectFrom() + where + b.orderBy(), args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns a paginated SELECT query with ordering, limit, and offset.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	sql := fmt.Sprintf(
		"%s%s%s LIMIT %d OFFSET %d",
		b.selectFrom(), where, b.orderBy(), pageSize, (page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle returns a SELECT query for a single record keyed by idField.
// Conditions and ordering are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf("%s WHERE %s = $1", b.selectFrom(), b.projection.Column(idField))
	return sql, []any{id}
}

// OrderByFields sets the sort order, overriding default sort fields. Fields the
// projection cannot resolve are left out of the ORDER BY clause, and the
// default sort applies when none resolve.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains adds a case-insensitive ILIKE condition. No-op for nil or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.compare(field, "ILIKE", "%"+*value+"%")
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.compare(field, "=", value)
}

// WhereAtLeast adds a greater-than-or-equal condition. No-op for nil values.
func (b *Builder) WhereAtLeast(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.compare(field, ">=", value)
}

// WhereArrayContains matches rows whose jsonb array column holds value.
// No-op for nil or empty values.
func (b *Builder) WhereArrayContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	encoded, err := json.Marshal([]string{*value})
	if err != nil {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bind bindFunc) string {
		return col + " @> " + bind(string(encoded)) + "::jsonb"
	})
	return b
}

// WhereSearch adds an OR of ILIKE conditions across fields. No-op for nil or
// empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	cols := make([]string, len(fields))
	for i, field := range fields {
		cols[i] = b.projection.Column(field)
	}

	b.conditions = append(b.conditions, func(bind bindFunc) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

func (b *Builder) compare(field, op string, value any) *Builder {
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bind bindFunc) string {
		return col + " " + op + " " + bind(value)
	})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) orderBy() string {
	parts := b.sortColumns(b.sort)
	if len(parts) == 0 {
		parts = b.sortColumns(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) sortColumns(fields []SortField) []string {
	var parts []string
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return parts
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(arg any) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}

	terms := make([]string, len(b.conditions))
	for i, cond := range b.conditions {
		terms[i] = cond(bind)
	}

	return " WHERE " + strings.Join(terms, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
