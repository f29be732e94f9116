package gowindow

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm/schema"
)

// Accessor reads a named field off an item. It is the only thing the cursor
// envelope needs to know about the item representation.
type Accessor[T any] interface {
	Get(item T, field string) (any, error)
}

// Getters - a map of getters for an object. Specify the columns that
// pagination is based on.
// Example:
//
//	gowindow.Getters[models.Article]{
//		"id":           func(last models.Article) any { return last.ID },
//		"published_at": func(last models.Article) any { return last.PublishedAt },
//	}
type Getters[T any] map[string]func(T) any

// Get - implements Accessor.
func (g Getters[T]) Get(item T, field string) (any, error) {
	getter, ok := g[field]
	if !ok {
		return nil, fmt.Errorf("cannot find getter for column '%s'", field)
	}

	return getter(item), nil
}

// MapAccessor reads fields of generic row mappings such as the ones produced
// by gorm's Find(&[]map[string]any{}).
type MapAccessor[V any] struct{}

// Get - implements Accessor.
func (MapAccessor[V]) Get(item map[string]V, field string) (any, error) {
	value, ok := item[field]
	if !ok {
		return nil, fmt.Errorf("row has no column '%s'", field)
	}

	return value, nil
}

// Record is implemented by items that expose their own fields by name.
type Record interface {
	Field(name string) (any, bool)
}

// RecordAccessor reads fields of items implementing Record.
type RecordAccessor[T Record] struct{}

// Get - implements Accessor.
func (RecordAccessor[T]) Get(item T, field string) (any, error) {
	value, ok := item.Field(field)
	if !ok {
		return nil, fmt.Errorf("record has no field '%s'", field)
	}

	return value, nil
}

// StructAccessor reads fields of gorm models by column name ("created_at") or
// Go field name ("CreatedAt"), using the model's parsed gorm schema. T may be
// a struct or a pointer to one.
type StructAccessor[T any] struct {
	schema *schema.Schema
}

// NewStructAccessor parses T's gorm schema once; the accessor is safe for
// concurrent use afterwards.
func NewStructAccessor[T any]() (*StructAccessor[T], error) {
	s, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("cannot parse model schema: %w", err)
	}

	return &StructAccessor[T]{schema: s}, nil
}

// Get - implements Accessor.
func (a *StructAccessor[T]) Get(item T, field string) (any, error) {
	f := a.schema.LookUpField(field)
	if f == nil {
		return nil, fmt.Errorf("model '%s' has no field '%s'", a.schema.Name, field)
	}

	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot read field '%s' of nil %s", field, a.schema.Name)
		}
		rv = rv.Elem()
	}

	value, _ := f.ValueOf(context.Background(), rv)

	return value, nil
}

var _ Accessor[map[string]any] = MapAccessor[any]{}

// Stringify converts a cursor field value into its string form:
//   - string and []byte as-is;
//   - time.Time as RFC 3339 with nanoseconds;
//   - fmt.Stringer via String();
//   - everything else (numbers, bools, pointers to them) via spf13/cast.
//
// Nil values cannot be used as cursors.
func Stringify(v any) (string, error) {
	if isNil(v) {
		return "", fmt.Errorf("cannot use nil value as cursor")
	}

	switch vt := v.(type) {
	case string:
		return vt, nil
	case []byte:
		return string(vt), nil
	case time.Time:
		return vt.Format(time.RFC3339Nano), nil
	case *time.Time:
		return vt.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return vt.String(), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("cannot stringify cursor value: %w", err)
	}

	return s, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
