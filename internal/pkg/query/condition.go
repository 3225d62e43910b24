package query

import (
	"fmt"
	"strings"
)

// Record exposes column values of a row held outside Spanner
// (in-memory stores, test doubles) so conditions can be evaluated directly.
type Record interface {
	// Field returns the value stored under the column name and whether the column exists.
	Field(name string) (interface{}, bool)
}

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName), and must evaluate
// to the same result against a Record.
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})

	// Match reports whether the record satisfies the condition.
	Match(rec Record) bool
}

// compareCondition implements binary comparisons (=, !=, >=, <=).
type compareCondition struct {
	field string
	op    string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "available") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Ne creates a WHERE condition for inequality comparison.
// Example: Ne("status", "sold") generates "status != @p0"
func Ne(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "!=", value: value}
}

// Gte creates an inclusive lower bound condition.
// Example: Gte("price", 100) generates "price >= @p0"
func Gte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// Lte creates an inclusive upper bound condition.
// Example: Lte("price", 200) generates "price <= @p0"
func Lte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

// SQL generates the SQL fragment for the comparison.
func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// Match evaluates the comparison against the record.
// Values of incomparable types never match.
func (c *compareCondition) Match(rec Record) bool {
	got, ok := rec.Field(c.field)
	if !ok {
		return false
	}
	cmp, ok := compare(got, c.value)
	if !ok {
		return false
	}
	switch c.op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	}
	return false
}

// containsFoldCondition implements a case-insensitive substring match
// over one or more columns, OR-ed together.
type containsFoldCondition struct {
	fields []string
	needle string
}

// ContainsFold creates a case-insensitive substring condition that matches
// when any of the fields contains value.
// Example: ContainsFold("bike", "title", "description") generates
// "(LOWER(title) LIKE @p0 OR LOWER(description) LIKE @p0)"
func ContainsFold(value string, fields ...string) Condition {
	return &containsFoldCondition{
		fields: fields,
		needle: strings.ToLower(value),
	}
}

// SQL generates the SQL fragment for the substring match.
// LIKE wildcards in the needle are escaped so they match literally.
func (c *containsFoldCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	parts := make([]string, 0, len(c.fields))
	for _, field := range c.fields {
		parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE @%s", field, paramName))
	}
	sql := "(" + strings.Join(parts, " OR ") + ")"
	params := map[string]interface{}{
		paramName: "%" + escapeLike(c.needle) + "%",
	}
	return sql, params
}

// Match evaluates the substring match against the record.
func (c *containsFoldCondition) Match(rec Record) bool {
	for _, field := range c.fields {
		got, ok := rec.Field(field)
		if !ok {
			continue
		}
		s, ok := got.(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), c.needle) {
			return true
		}
	}
	return false
}

// overlapsCondition matches rows whose array column shares at least one
// element with the given set.
type overlapsCondition struct {
	field  string
	values []string
}

// Overlaps creates a set-intersection condition on an ARRAY<STRING> column.
// Example: Overlaps("tags", []string{"a", "b"}) generates
// "EXISTS (SELECT 1 FROM UNNEST(tags) AS v WHERE v IN UNNEST(@p0))"
func Overlaps(field string, values []string) Condition {
	copied := make([]string, len(values))
	copy(copied, values)
	return &overlapsCondition{field: field, values: copied}
}

// SQL generates the SQL fragment for the intersection test.
func (c *overlapsCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM UNNEST(%s) AS v WHERE v IN UNNEST(@%s))", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.values,
	}
	return sql, params
}

// Match evaluates the intersection against the record.
func (c *overlapsCondition) Match(rec Record) bool {
	got, ok := rec.Field(c.field)
	if !ok {
		return false
	}
	have, ok := got.([]string)
	if !ok {
		return false
	}
	for _, h := range have {
		for _, v := range c.values {
			if h == v {
				return true
			}
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
