package query

import "strings"

// FilterPredicate builds a WHERE clause with positional placeholders. Values
// never enter the SQL text.
type FilterPredicate struct {
	predicate strings.Builder
	args      []interface{}
}

func NewFilterPredicate() *FilterPredicate {
	return &FilterPredicate{}
}

func (fp *FilterPredicate) Open() *FilterPredicate {
	fp.predicate.WriteString("(")
	return fp
}

func (fp *FilterPredicate) Close() *FilterPredicate {
	fp.predicate.WriteString(")")
	return fp
}

func (fp *FilterPredicate) And() *FilterPredicate {
	fp.predicate.WriteString(" AND ")
	return fp
}

func (fp *FilterPredicate) Or() *FilterPredicate {
	fp.predicate.WriteString(" OR ")
	return fp
}

func (fp *FilterPredicate) Not() *FilterPredicate {
	fp.predicate.WriteString("NOT ")
	return fp
}

func (fp *FilterPredicate) compare(column, op string, value interface{}) *FilterPredicate {
	fp.predicate.WriteString(column + " " + op + " ?")
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) Equal(column string, value interface{}) *FilterPredicate {
	return fp.compare(column, "=", value)
}

func (fp *FilterPredicate) GreaterOrEqual(column string, value interface{}) *FilterPredicate {
	return fp.compare(column, ">=", value)
}

func (fp *FilterPredicate) LessThan(column string, value interface{}) *FilterPredicate {
	return fp.compare(column, "<", value)
}

func (fp *FilterPredicate) Between(column string, v1, v2 interface{}) *FilterPredicate {
	fp.predicate.WriteString(column + " BETWEEN ? AND ?")
	fp.args = append(fp.args, v1, v2)
	return fp
}

func (fp *FilterPredicate) In(column string, values ...interface{}) *FilterPredicate {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	fp.predicate.WriteString(column + " IN (" + marks + ")")
	fp.args = append(fp.args, values...)
	return fp
}

func (fp *FilterPredicate) Like(column, pattern string) *FilterPredicate {
	return fp.compare(column, "LIKE", "%"+pattern+"%")
}

// Empty reports whether no condition has been added.
func (fp *FilterPredicate) Empty() bool {
	return fp.predicate.Len() == 0
}

// Build returns the clause and its arguments in placeholder order.
func (fp *FilterPredicate) Build() (string, []interface{}) {
	return fp.predicate.String(), fp.args
}
