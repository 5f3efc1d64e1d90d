package domain

// ReportRequest selects the fields to group by and the filter clauses to
// apply. A nil slice means "use the default"; an empty non-nil Filters
// slice means "no filter".
type ReportRequest struct {
	Fields  []string
	Filters []string
}

// Column describes one output column of a report statement.
type Column struct {
	Label string
	Kind  ValueKind
}

// Statement is a fully built, parameterized report query.
type Statement struct {
	SQL     string
	Args    []any
	Columns []Column
}

// Cell is a labeled value in a report row.
type Cell struct {
	Label string
	Value any
}

// ReportRow keeps cells in select order, the last one always being the count.
type ReportRow []Cell

// Get returns the value stored under label.
func (r ReportRow) Get(label string) (any, bool) {
	for _, c := range r {
		if c.Label == label {
			return c.Value, true
		}
	}
	return nil, false
}

// FieldInfo describes a field available for selection.
type FieldInfo struct {
	Name string
	Kind ValueKind
}
