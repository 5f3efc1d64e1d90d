package report

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/request-atlas/pkg/models/domain"
)

const countLabel = "counts"

// Join is an inner join from the fact table to a dimension table.
type Join struct {
	Table string
	On    string
}

// joins is the same for every report regardless of the selected fields.
var joins = []Join{
	{Table: "request_types", On: factTable + ".type_id = request_types.type_id"},
	{Table: "councils", On: factTable + ".council_id = councils.council_id"},
	{Table: "sources", On: factTable + ".source_id = sources.source_id"},
	{Table: "agencies", On: factTable + ".agency_id = agencies.agency_id"},
}

// Predicate compares an expression with a bound value.
type Predicate struct {
	Expr     Expression
	Operator domain.Operator
	Value    string
}

// ToSql renders the predicate with a single placeholder; date and integer
// expressions cast the bound value to their kind.
func (p Predicate) ToSql() (string, []any, error) {
	placeholder := "?"
	switch p.Expr.Kind {
	case domain.KindDate:
		placeholder = "CAST(? AS DATE)"
	case domain.KindInteger:
		placeholder = "CAST(? AS INTEGER)"
	}
	return p.Expr.SQL + " " + string(p.Operator) + " " + placeholder, []any{p.Value}, nil
}

// Query is a report query before rendering.
type Query struct {
	Fields []Expression
	Joins  []Join
	Where  []Predicate
	Args   []any
}

// SelectList returns the grouped expressions followed by the count.
func (q Query) SelectList() []string {
	list := make([]string, 0, len(q.Fields)+1)
	for _, e := range q.Fields {
		list = append(list, e.SQL+" AS "+e.Label)
	}
	return append(list, "count(*) AS "+countLabel)
}

// GroupByList returns the grouped expressions in select order.
func (q Query) GroupByList() []string {
	list := make([]string, 0, len(q.Fields))
	for _, e := range q.Fields {
		list = append(list, e.SQL)
	}
	return list
}

func (q Query) builder() sq.SelectBuilder {
	b := sq.Select(q.SelectList()...).
		From(factTable).
		PlaceholderFormat(sq.Dollar)
	for _, j := range q.Joins {
		b = b.Join(j.Table + " ON " + j.On)
	}
	for _, p := range q.Where {
		b = b.Where(p)
	}
	return b.GroupBy(q.GroupByList()...)
}

// ToSql renders the query with $n placeholders numbered in filter order.
func (q Query) ToSql() (string, []any, error) {
	return q.builder().ToSql()
}

// Statement renders the query for a database adapter.
func (q Query) Statement() (domain.Statement, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return domain.Statement{}, fmt.Errorf("failed to render report query: %w", err)
	}

	cols := make([]domain.Column, 0, len(q.Fields)+1)
	for _, e := range q.Fields {
		cols = append(cols, domain.Column{Label: e.Label, Kind: e.Kind})
	}
	cols = append(cols, domain.Column{Label: countLabel, Kind: domain.KindInteger})
	return domain.Statement{
		SQL:     query,
		Args:    args,
		Columns: cols,
	}, nil
}

// BuildQuery resolves fields and parses filters into a grouped count query.
// The first invalid field or filter aborts the build.
func BuildQuery(fields []string, filters []string) (Query, error) {
	if len(fields) == 0 {
		return Query{}, domain.ErrEmptyFieldList
	}

	q := Query{Joins: joins}
	seen := make(map[domain.Field]bool, len(fields))
	for _, name := range fields {
		e, err := Lookup(name)
		if err != nil {
			return Query{}, fieldError(name, err)
		}
		if seen[e.Field] {
			return Query{}, fieldError(name, fmt.Errorf("%w: %q", domain.ErrDuplicateField, name))
		}
		seen[e.Field] = true
		q.Fields = append(q.Fields, e)
	}

	for _, clause := range filters {
		f, err := ParseFilter(clause)
		if err != nil {
			return Query{}, filterError(clause, err)
		}
		e, err := Lookup(f.Field)
		if err != nil {
			return Query{}, filterError(clause, err)
		}
		q.Args = append(q.Args, f.Value)
		q.Where = append(q.Where, Predicate{Expr: e, Operator: f.Operator, Value: f.Value})
	}

	return q, nil
}

func fieldError(name string, err error) error {
	return &domain.ParameterError{Parameter: "field", Value: name, Err: err}
}

func filterError(clause string, err error) error {
	return &domain.ParameterError{Parameter: "filter", Value: clause, Err: err}
}
