package query

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles read-only SELECT statements.
type QueryBuilder struct {
	table      string
	columns    []string
	conditions []string
	groupBy    []string
	orderBy    []string
	limit      int
	values     []interface{}
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	qb.columns = append(qb.columns, columns...)
	return qb
}

func (qb *QueryBuilder) From(table string) *QueryBuilder {
	qb.table = table
	return qb
}

func (qb *QueryBuilder) Where(condition string, args ...interface{}) *QueryBuilder {
	qb.conditions = append(qb.conditions, condition)
	qb.values = append(qb.values, args...)
	return qb
}

// WherePredicate appends a built predicate as one parenthesized condition.
func (qb *QueryBuilder) WherePredicate(fp *FilterPredicate) *QueryBuilder {
	if fp == nil || fp.Empty() {
		return qb
	}
	clause, args := fp.Build()
	return qb.Where("("+clause+")", args...)
}

func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	qb.groupBy = append(qb.groupBy, columns...)
	return qb
}

func (qb *QueryBuilder) OrderBy(clauses ...string) *QueryBuilder {
	qb.orderBy = append(qb.orderBy, clauses...)
	return qb
}

func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.limit = n
	return qb
}

func (qb *QueryBuilder) Build() (string, []interface{}) {
	var query strings.Builder
	if len(qb.columns) > 0 {
		query.WriteString(fmt.Sprintf("SELECT %s FROM %s", strings.Join(qb.columns, ", "), qb.table))
	} else {
		query.WriteString(fmt.Sprintf("SELECT * FROM %s", qb.table))
	}
	if len(qb.conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(qb.conditions, " AND "))
	}
	if len(qb.groupBy) > 0 {
		query.WriteString(" GROUP BY " + strings.Join(qb.groupBy, ", "))
	}
	if len(qb.orderBy) > 0 {
		query.WriteString(" ORDER BY " + strings.Join(qb.orderBy, ", "))
	}
	if qb.limit > 0 {
		query.WriteString(fmt.Sprintf(" LIMIT %d", qb.limit))
	}
	return query.String(), qb.values
}
