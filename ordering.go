package gowindow

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

// ParseDirection accepts "asc"/"desc" in any case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", invalidRequest(s, "direction must be one of asc, desc")
	}

	return d, nil
}

type (
	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name. The cursor
	// value is read off items by the unqualified column (see Field.Name).
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.`\""), lo.AlphanumericCharset...)

// Field is a sortable column. It is written into SQL text verbatim, so it can
// only be obtained from NewField/MustField or a FieldSet, never by converting
// an arbitrary string. The zero Field is invalid.
type Field struct {
	column string
	// name is the column without table qualifier and quotes, the key an
	// Accessor reads the cursor value by.
	name string
}

// NewField guards against SQL injection by restricting allowed characters in
// column names. The column must come from code, not from a request.
func NewField(column string) (Field, error) {
	if column == "" {
		return Field{}, fmt.Errorf("empty column name")
	}

	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return Field{}, fmt.Errorf("column name contains forbidden symbols '%s'", column)
	}

	name := unqualified(column)
	if name == "" {
		return Field{}, fmt.Errorf("column name is empty after its qualifier '%s'", column)
	}

	return Field{column: column, name: name}, nil
}

// unqualified strips the table qualifier and identifier quotes:
// `"users"."created_at"` -> created_at.
func unqualified(column string) string {
	if idx := strings.LastIndexByte(column, '.'); idx >= 0 {
		column = column[idx+1:]
	}

	return strings.Trim(column, "`\"")
}

// MustField is NewField for package-level declarations.
func MustField(column string) Field {
	f, err := NewField(column)
	if err != nil {
		panic(err)
	}

	return f
}

// Column returns the column as it is written into SQL.
func (f Field) Column() string {
	return f.column
}

// Name returns the unqualified column, e.g. "created_at" for
// "users.created_at". Cursor values are read off items by this name.
func (f Field) Name() string {
	return f.name
}

func (f Field) IsZero() bool {
	return f.column == ""
}

func (f Field) String() string {
	return f.column
}

// Sort is the ordering of a cursor window: a single designated field and a
// direction. The field must be a total order over the result set.
type Sort struct {
	Field     Field
	Direction Direction
}

// Asc and Desc are shorthands for building a Sort.
func Asc(f Field) Sort  { return Sort{Field: f, Direction: DirectionASC} }
func Desc(f Field) Sort { return Sort{Field: f, Direction: DirectionDESC} }

// ToSQL returns "<column> <direction>", e.g. "created_at DESC".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", sort.ToSQL())
func (s Sort) ToSQL() string {
	return fmt.Sprintf("%s %s", s.Field.column, s.Direction)
}

// Apply applies the ordering to a gorm query.
func (s Sort) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(s.ToSQL())
}

func (s Sort) validate() error {
	if s.Field.IsZero() {
		return invalidRequest(nil, "sort field is not set")
	}

	if !s.Direction.Valid() {
		return invalidRequest(s.Direction, "invalid ordering direction")
	}

	return nil
}

// FieldSet is the closed set of sortable fields exposed by an endpoint.
type FieldSet struct {
	fields map[ColumnAlias]Field
}

// NewFieldSet validates every mapped column once.
func NewFieldSet(mapping ColumnMapping) (FieldSet, error) {
	fields := make(map[ColumnAlias]Field, len(mapping))
	for alias, column := range mapping {
		f, err := NewField(column)
		if err != nil {
			return FieldSet{}, fmt.Errorf("cannot use column for alias '%s': %w", alias, err)
		}

		fields[alias] = f
	}

	return FieldSet{fields: fields}, nil
}

// MustFieldSet is NewFieldSet for package-level declarations.
func MustFieldSet(mapping ColumnMapping) FieldSet {
	fs, err := NewFieldSet(mapping)
	if err != nil {
		panic(err)
	}

	return fs
}

// Aliases returns the known aliases in lexical order.
func (fs FieldSet) Aliases() []ColumnAlias {
	aliases := lo.Keys(fs.fields)
	sort.Strings(aliases)

	return aliases
}

// Lookup resolves an external alias. Unknown aliases produce an
// InvalidRequest error hinting at the closest known alias.
func (fs FieldSet) Lookup(alias ColumnAlias) (Field, error) {
	f, ok := fs.fields[alias]
	if !ok {
		return Field{}, invalidRequest(alias, "invalid column alias. closest: '%s'", closestAlias(alias, fs.Aliases()))
	}

	return f, nil
}

// ParseSort builds a Sort from a string in the format "alias asc|desc".
// The direction may be omitted and then defaults to ASC.
func (fs FieldSet) ParseSort(s string) (Sort, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 2 {
		return Sort{}, invalidRequest(s, "invalid ordering string format")
	}

	f, err := fs.Lookup(parts[0])
	if err != nil {
		return Sort{}, err
	}

	direction := DirectionASC
	if len(parts) == 2 {
		direction, err = ParseDirection(parts[1])
		if err != nil {
			return Sort{}, err
		}
	}

	return Sort{Field: f, Direction: direction}, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := lo.Ternary(a[i-1] == b[j-1], 0, 1)
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
