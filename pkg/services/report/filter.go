package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/de-tools/request-atlas/pkg/models/domain"
)

var (
	filterPattern = regexp.MustCompile(`^([A-Za-z0-9_]+)(` + operatorAlternation() + `)([A-Za-z0-9_-]+)$`)
	fieldPattern  = regexp.MustCompile(`^(` + fieldAlternation() + `)$`)
)

func operatorAlternation() string {
	ops := make([]string, 0, len(domain.Operators))
	for _, op := range domain.Operators {
		ops = append(ops, regexp.QuoteMeta(string(op)))
	}
	return strings.Join(ops, "|")
}

func fieldAlternation() string {
	var names []string
	for _, f := range domain.AllFields() {
		names = append(names, f.String())
	}
	return strings.Join(names, "|")
}

// ParseFilter splits a `field<operator>value` clause. The field is not
// checked against the registry here.
func ParseFilter(clause string) (domain.Filter, error) {
	m := filterPattern.FindStringSubmatch(clause)
	if m == nil {
		return domain.Filter{}, fmt.Errorf("%w: %q", domain.ErrMalformedFilter, clause)
	}
	return domain.Filter{
		Field:    m[1],
		Operator: domain.Operator(m[2]),
		Value:    m[3],
	}, nil
}

// ValidateField checks a raw field parameter against the enumerated names.
func ValidateField(name string) error {
	if !fieldPattern.MatchString(name) {
		return &domain.ParameterError{
			Parameter: "field",
			Value:     name,
			Err:       fmt.Errorf("must match %s", fieldPattern),
		}
	}
	return nil
}

// ValidateFilter checks a raw filter parameter against the filter grammar.
func ValidateFilter(clause string) error {
	if !filterPattern.MatchString(clause) {
		return &domain.ParameterError{
			Parameter: "filter",
			Value:     clause,
			Err:       fmt.Errorf("must match %s", filterPattern),
		}
	}
	return nil
}

// DefaultFilter restricts a report to rows created on or after the first
// day of the month before now, in loc.
func DefaultFilter(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t := now.In(loc)
	start := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, loc)
	return domain.FieldCreatedDate.String() + string(domain.OpGte) + start.Format(time.DateOnly)
}
