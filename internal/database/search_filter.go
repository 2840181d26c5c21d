package database

import (
	"fmt"
	"strings"
)

// Operator is a comparison supported by the filter builder
type Operator string

const (
	OpEq       Operator = "="
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpLte      Operator = "<="
	OpContains Operator = "ILIKE" // case-insensitive substring match
)

// Predicate is a single {column, operator, value} condition
type Predicate struct {
	Column string
	Op     Operator
	Value  interface{}
}

// Filter collects predicates and renders them as a parameterized WHERE clause.
// Predicates added with Where are ANDed; WhereAny adds one OR group.
// Column names are checked against an allow-list; values are always bound.
type Filter struct {
	allowed map[string]struct{}
	groups  [][]Predicate
	err     error
}

// NewFilter creates a filter that accepts only the given columns
func NewFilter(columns ...string) *Filter {
	allowed := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return &Filter{allowed: allowed}
}

// Where adds a predicate that must hold
func (f *Filter) Where(column string, op Operator, value interface{}) *Filter {
	f.add([]Predicate{{Column: column, Op: op, Value: value}})
	return f
}

// WhereAny adds a group in which at least one column must match value
func (f *Filter) WhereAny(op Operator, value interface{}, columns ...string) *Filter {
	group := make([]Predicate, 0, len(columns))
	for _, c := range columns {
		group = append(group, Predicate{Column: c, Op: op, Value: value})
	}
	f.add(group)
	return f
}

func (f *Filter) add(group []Predicate) {
	if f.err != nil || len(group) == 0 {
		return
	}
	for _, p := range group {
		if _, ok := f.allowed[p.Column]; !ok {
			f.err = fmt.Errorf("filter column %q is not allowed", p.Column)
			return
		}
		switch p.Op {
		case OpEq, OpGt, OpGte, OpLte, OpContains:
		default:
			f.err = fmt.Errorf("filter operator %q is not supported", p.Op)
			return
		}
	}
	f.groups = append(f.groups, group)
}

// Len returns the number of condition groups
func (f *Filter) Len() int {
	return len(f.groups)
}

// Build renders "cond AND (a OR b) ..." with placeholders numbered from
// startIndex. It returns an empty string when there are no conditions.
func (f *Filter) Build(startIndex int) (string, []interface{}, error) {
	if f.err != nil {
		return "", nil, f.err
	}

	var (
		clauses []string
		args    []interface{}
		n       = startIndex
	)
	for _, group := range f.groups {
		parts := make([]string, 0, len(group))
		for _, p := range group {
			value := p.Value
			if p.Op == OpContains {
				value = "%" + escapeLike(fmt.Sprint(p.Value)) + "%"
			}
			parts = append(parts, fmt.Sprintf("%s %s $%d", p.Column, p.Op, n))
			args = append(args, value)
			n++
		}
		if len(parts) == 1 {
			clauses = append(clauses, parts[0])
		} else {
			clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
