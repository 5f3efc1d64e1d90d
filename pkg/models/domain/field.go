package domain

import "fmt"

// Field is one of the symbolic names a report can select and group by.
type Field int

const (
	FieldCreatedYear Field = iota + 1
	FieldCreatedMonth
	FieldCreatedDOW
	FieldCreatedHour
	FieldCreatedDate
	FieldCouncilName
	FieldAgencyName
	FieldSourceName
	FieldTypeName
)

var fieldNames = [...]string{
	FieldCreatedYear:  "created_year",
	FieldCreatedMonth: "created_month",
	FieldCreatedDOW:   "created_dow",
	FieldCreatedHour:  "created_hour",
	FieldCreatedDate:  "created_date",
	FieldCouncilName:  "council_name",
	FieldAgencyName:   "agency_name",
	FieldSourceName:   "source_name",
	FieldTypeName:     "type_name",
}

// ValueKind is the SQL type a field's expression evaluates to.
type ValueKind string

const (
	KindInteger ValueKind = "integer"
	KindDate    ValueKind = "date"
	KindText    ValueKind = "text"
)

// AllFields returns every field in declaration order.
func AllFields() []Field {
	fields := make([]Field, 0, len(fieldNames)-1)
	for f := FieldCreatedYear; f <= FieldTypeName; f++ {
		fields = append(fields, f)
	}
	return fields
}

func (f Field) Valid() bool {
	return f >= FieldCreatedYear && f <= FieldTypeName
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a symbolic name to its Field.
func ParseField(name string) (Field, error) {
	for _, f := range AllFields() {
		if fieldNames[f] == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
