package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder accumulates positional args and hands out $n placeholders.
type binder struct {
	args []any
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

// bindExpr replaces each '?' in expr with the next bound arg.
func (b *binder) bindExpr(expr string, exprArgs []any) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(b.bind(exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

// Condition renders one predicate of a WHERE clause.
type Condition interface {
	render(b *binder) string
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) render(b *binder) string {
	return c.column + " " + c.op + " " + b.bind(c.value)
}

func Eq(column string, value any) Condition {
	return comparison{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return comparison{column: column, op: ">=", value: value}
}

func renderWhere(sb *strings.Builder, b *binder, conditions []Condition) {
	first := true
	for _, c := range conditions {
		if c == nil {
			continue
		}
		if first {
			sb.WriteString(" WHERE ")
			first = false
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.render(b))
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	offset  int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

// Count starts a SELECT COUNT(*) query.
func Count() *SelectBuilder {
	return Select("COUNT(*)")
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

// Where ANDs conditions together; nil entries are ignored.
func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, parts...)
	return s
}

func (s *SelectBuilder) Limit(limit int) *SelectBuilder {
	s.limit = limit
	return s
}

func (s *SelectBuilder) Offset(offset int) *SelectBuilder {
	s.offset = offset
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(s.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(s.table) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	var (
		sb strings.Builder
		b  binder
	)
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(s.columns, ", "), s.table)
	renderWhere(&sb, &b, s.where)
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(s.limit))
	}
	if s.offset > 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(s.offset))
	}
	return sb.String(), b.args, nil
}

// InsertBuilder writes a single-row INSERT.
type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append([]string(nil), columns...)
	return i
}

func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append([]any(nil), values...)
	return i
}

// Suffix is appended verbatim, e.g. ON CONFLICT ... RETURNING.
func (i *InsertBuilder) Suffix(sql string) *InsertBuilder {
	i.suffix = strings.TrimSpace(sql)
	return i
}

func (i *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(i.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(i.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(i.values) != len(i.columns):
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(i.values), len(i.columns))
	}

	var b binder
	placeholders := make([]string, len(i.values))
	for idx, v := range i.values {
		placeholders[idx] = b.bind(v)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		i.table, strings.Join(i.columns, ", "), strings.Join(placeholders, ", "))
	if i.suffix != "" {
		query += " " + i.suffix
	}
	return query, b.args, nil
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return u.SetExpr(column, "?", value)
}

// SetExpr assigns raw SQL; each '?' binds the next arg.
func (u *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, expr: expr, args: args})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(u.table) == "":
		return "", nil, fmt.Errorf("update table is required")
	case len(u.sets) == 0:
		return "", nil, fmt.Errorf("update sets are required")
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("UPDATE " + u.table + " SET ")
	for idx, s := range u.sets {
		if idx > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.column + " = " + b.bindExpr(s.expr, s.args))
	}
	renderWhere(&sb, &b, u.where)
	return sb.String(), b.args, nil
}
