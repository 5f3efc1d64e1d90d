package domain

// Operator is a comparison accepted in a filter clause.
type Operator string

const (
	OpEq  Operator = "="
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
)

// Operators lists the accepted operators, longest first so that
// ">=" is tried before ">".
var Operators = []Operator{OpGte, OpLte, OpEq, OpGt, OpLt}

func (o Operator) Valid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Filter is a parsed `field<operator>value` clause. Field is not
// checked against the registry at parse time.
type Filter struct {
	Field    string
	Operator Operator
	Value    string
}

func (f Filter) String() string {
	return f.Field + string(f.Operator) + f.Value
}
