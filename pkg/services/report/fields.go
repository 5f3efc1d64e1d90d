package report

import (
	"fmt"

	"github.com/de-tools/request-atlas/pkg/models/domain"
)

const (
	factTable = "service_requests"
	createdAt = factTable + ".created_date"
)

// Expression is the SQL a field selects and groups by.
type Expression struct {
	Field domain.Field
	SQL   string
	Label string
	Kind  domain.ValueKind
}

func datePart(part string) string {
	return fmt.Sprintf("CAST(EXTRACT(%s FROM %s) AS INTEGER)", part, createdAt)
}

// expression is exhaustive over domain.Field; a new field must be added here.
func expression(f domain.Field) (Expression, bool) {
	e := Expression{Field: f, Label: f.String()}
	switch f {
	case domain.FieldCreatedYear:
		e.SQL, e.Kind = datePart("YEAR"), domain.KindInteger
	case domain.FieldCreatedMonth:
		e.SQL, e.Kind = datePart("MONTH"), domain.KindInteger
	case domain.FieldCreatedDOW:
		e.SQL, e.Kind = datePart("DOW"), domain.KindInteger
	case domain.FieldCreatedHour:
		e.SQL, e.Kind = datePart("HOUR"), domain.KindInteger
	case domain.FieldCreatedDate:
		e.SQL, e.Kind = "CAST("+createdAt+" AS DATE)", domain.KindDate
	case domain.FieldCouncilName:
		e.SQL, e.Kind = "councils.council_name", domain.KindText
	case domain.FieldAgencyName:
		e.SQL, e.Kind = "agencies.agency_name", domain.KindText
	case domain.FieldSourceName:
		e.SQL, e.Kind = "sources.source_name", domain.KindText
	case domain.FieldTypeName:
		e.SQL, e.Kind = "request_types.type_name", domain.KindText
	default:
		return Expression{}, false
	}
	return e, true
}

// Lookup resolves a symbolic field name to its expression.
func Lookup(name string) (Expression, error) {
	f, err := domain.ParseField(name)
	if err != nil {
		return Expression{}, err
	}
	e, ok := expression(f)
	if !ok {
		return Expression{}, fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
	}
	return e, nil
}

// Fields lists every registered field with its value kind.
func Fields() []domain.FieldInfo {
	var infos []domain.FieldInfo
	for _, f := range domain.AllFields() {
		if e, ok := expression(f); ok {
			infos = append(infos, domain.FieldInfo{Name: e.Label, Kind: e.Kind})
		}
	}
	return infos
}
