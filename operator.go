package gowindow

import "fmt"

// Operator is the comparison of a cursor predicate. It follows from the sort
// direction: rows after the cursor are greater in ascending order and lower
// in descending order.
type Operator string

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"
)

// Valid reports whether o can appear in a cursor predicate.
func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

// ForOrdering is the inverse of Direction.ForOperator.
func (o Operator) ForOrdering() Direction {
	switch o {
	case OperatorGT:
		return DirectionASC
	case OperatorLT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to ordering", o))
	}
}

// matches reports whether a predicate with operator o walks the result set in
// direction d.
func (o Operator) matches(d Direction) bool {
	return o.Valid() && o.ForOrdering() == d
}
