package gowindow

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm/clause"
)

// Predicate is the cursor filter "Field Operator Value". The value is always
// bound through a placeholder; only the field and operator reach SQL text.
type Predicate struct {
	Field    Field
	Operator Operator
	Value    string
}

// ToSQL converts the predicate to an SQL condition of the form
// "Column Operator ?" with the corresponding value.
//
// Example:
//
//	Predicate{Field: MustField("id"), Operator: ">", Value: "123"}
//
// Result:
//
//	("id > ?", ["123"])
func (p Predicate) ToSQL() (string, []any) {
	sqlClause, args, err := p.sqlizer().ToSql()
	if err != nil {
		panic(fmt.Errorf("cannot render cursor predicate: %w", err))
	}

	return sqlClause, args
}

func (p Predicate) sqlizer() sq.Sqlizer {
	switch p.Operator {
	case OperatorGT:
		return sq.Gt{p.Field.column: p.Value}
	case OperatorLT:
		return sq.Lt{p.Field.column: p.Value}
	default:
		panic(fmt.Errorf("unsupported cursor operator '%s'", p.Operator))
	}
}

// toGORMExpression converts the predicate into a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?"; gorm rewrites it for
// the dialect in use.
func (p Predicate) toGORMExpression() clause.Expression {
	sqlClause, args := p.ToSQL()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: args,
	}
}
