// Package search builds the SQL query used to find events by free-text keywords
//
// A query is represented by a Scope - an immutable description of a SELECT statement. Scopes are refined by Stages,
// each of which receives a Scope and returns a new one, so a search is a left-to-right pipeline:
//
//	base -> keywords -> skip old -> order -> limit
//
// Nothing in this package touches the database. Scope.SQL renders the statement and its arguments which are then
// executed by the event repository.
package search

import (
	"strings"
)

// Clause is a single SQL condition together with the arguments for its placeholders
type Clause struct {
	SQL  string
	Args []interface{}
}

// Scope is an in-progress, not yet executed query. The zero value selects nothing
type Scope struct {
	columns []string
	from    string
	joins   []string
	where   []Clause
	groupBy []string
	orderBy []string
	limit   int
}

// Stage refines a scope
type Stage func(Scope) Scope

// Apply runs the given stages on the scope in order and returns the result
func (s Scope) Apply(stages ...Stage) Scope {
	for _, stage := range stages {
		s = stage(s)
	}
	return s
}

// appendStrings appends to a copy of dst so scopes derived from the same parent never share a backing array
func appendStrings(dst []string, vals ...string) []string {
	return append(dst[:len(dst):len(dst)], vals...)
}

// Select adds columns to the select list
func (s Scope) Select(columns ...string) Scope {
	s.columns = appendStrings(s.columns, columns...)
	return s
}

// From sets the main table of the query
func (s Scope) From(table string) Scope {
	s.from = table
	return s
}

// Join adds a full join expression like "LEFT OUTER JOIN Tags ON ..."
func (s Scope) Join(join string) Scope {
	s.joins = appendStrings(s.joins, join)
	return s
}

// Where adds a condition. All conditions of a scope must hold
func (s Scope) Where(sql string, args ...interface{}) Scope {
	s.where = append(s.where[:len(s.where):len(s.where)], Clause{SQL: sql, Args: args})
	return s
}

// GroupBy adds grouping columns
func (s Scope) GroupBy(columns ...string) Scope {
	s.groupBy = appendStrings(s.groupBy, columns...)
	return s
}

// OrderBy adds sort terms. Terms added first take precedence
func (s Scope) OrderBy(terms ...string) Scope {
	s.orderBy = appendStrings(s.orderBy, terms...)
	return s
}

// Limit caps the number of returned rows. 0 removes the cap
func (s Scope) Limit(n int) Scope {
	s.limit = n
	return s
}

// Conditions returns a copy of the conditions of this scope
func (s Scope) Conditions() []Clause {
	return append([]Clause(nil), s.where...)
}

// Ordering returns a copy of the sort terms of this scope
func (s Scope) Ordering() []string {
	return append([]string(nil), s.orderBy...)
}

// MaxRows returns the row limit of this scope
func (s Scope) MaxRows() int {
	return s.limit
}

// SQL renders the scope as a SELECT statement with '?' placeholders and returns it with its arguments
func (s Scope) SQL() (string, []interface{}) {
	var b strings.Builder
	var args []interface{}
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.from)
	for _, j := range s.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(s.where) > 0 {
		conds := make([]string, 0, len(s.where))
		for _, c := range s.where {
			conds = append(conds, "("+c.SQL+")")
			args = append(args, c.Args...)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	if len(s.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(s.groupBy, ", "))
	}
	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, s.limit)
	}
	return b.String(), args
}
