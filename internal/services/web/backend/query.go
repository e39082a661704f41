package backend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Op is the kind of row operation a Query performs.
type Op uint8

const (
	OpSelect Op = iota
	OpInsert
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "select"
	}
}

// Filter is one column predicate.
type Filter struct {
	Column   string
	Operator string
	Value    string
}

// Order is one sort column.
type Order struct {
	Column    string
	Ascending bool
}

// Query is an immutable row query. Builder methods return modified copies.
//
// Select on an insert or update asks for the written rows back.
type Query struct {
	Table   string
	Op      Op
	Columns string
	Body    any
	Filters []Filter
	Orders  []Order
	One     bool
}

// From starts a select of every column of table.
func From(table string) Query {
	return Query{Table: strings.TrimSpace(table), Op: OpSelect}
}

func (q Query) Select(columns string) Query {
	q.Columns = strings.TrimSpace(columns)
	return q
}

func (q Query) Insert(row any) Query {
	q.Op = OpInsert
	q.Body = row
	return q
}

func (q Query) Update(fields any) Query {
	q.Op = OpUpdate
	q.Body = fields
	return q
}

func (q Query) Delete() Query {
	q.Op = OpDelete
	q.Body = nil
	return q
}

func (q Query) Eq(column, value string) Query {
	return q.filter(column, "eq", value)
}

// ILike matches column case-insensitively against pattern, where * and %
// are wildcards.
func (q Query) ILike(column, pattern string) Query {
	return q.filter(column, "ilike", pattern)
}

func (q Query) Order(column string, ascending bool) Query {
	q.Orders = append(slices.Clone(q.Orders), Order{Column: column, Ascending: ascending})
	return q
}

// Single expects exactly one row.
func (q Query) Single() Query {
	q.One = true
	return q
}

func (q Query) filter(column, operator, value string) Query {
	q.Filters = append(slices.Clone(q.Filters), Filter{Column: column, Operator: operator, Value: value})
	return q
}

// Returning reports whether the caller expects rows back.
func (q Query) Returning() bool {
	return q.Op == OpSelect || q.Columns != ""
}

// Validate rejects queries the backend would refuse or that would touch every
// row of a table.
func (q Query) Validate() error {
	if q.Table == "" {
		return errors.New("query table is required")
	}
	for _, f := range q.Filters {
		if strings.TrimSpace(f.Column) == "" {
			return fmt.Errorf("query %s: filter column is required", q.Table)
		}
	}
	switch q.Op {
	case OpInsert, OpUpdate:
		if q.Body == nil {
			return fmt.Errorf("query %s: %s body is required", q.Table, q.Op)
		}
	}
	if (q.Op == OpUpdate || q.Op == OpDelete) && len(q.Filters) == 0 {
		return fmt.Errorf("query %s: %s requires a filter", q.Table, q.Op)
	}
	return nil
}
