package gowindow

import (
	"fmt"

	"github.com/samber/lo"
)

// CursorEnvelope is the client-facing result of a cursor-mode query.
type CursorEnvelope[T any] struct {
	// Items result elements, never more than the requested limit.
	Items []T `json:"items"`
	// NextCursor token for the next page. Set iff HasNext.
	NextCursor *string `json:"nextCursor,omitempty"`
	HasNext    bool    `json:"hasNext"`
}

// IsLastPage returns true if the result set fetched with limit+1 rows is the
// last page of the dataset, i.e. the lookahead row did not come back.
func IsLastPage[T any](resultSet []T, limit int) bool {
	return len(resultSet) <= limit
}

// TrimResultSet drops the lookahead row, if any. Suppose limit = 2 and
// resultSet = [a, b, c]: the result is [a, b]. The lookahead row only tells
// whether the dataset continues; it is never returned to the client.
func TrimResultSet[T any](resultSet []T, limit int) []T {
	if len(resultSet) > limit {
		return resultSet[:limit]
	}

	return resultSet
}

// BuildCursorEnvelope trims the over-fetched batch to limit items and derives
// the next cursor from the field of the last returned item (not of the
// lookahead row).
//
//	window, _ := gowindow.DeriveCursorWindow(cursor, gowindow.Asc(idField), 20)
//	rows := fetch(window.FetchLimit) // up to 21 rows
//	env, err := gowindow.BuildCursorEnvelope(rows, window.Limit, "id", getters)
func BuildCursorEnvelope[T any](fetched []T, limit int, field string, accessor Accessor[T]) (CursorEnvelope[T], error) {
	if limit < MinLimit {
		return CursorEnvelope[T]{}, invalidRequest(limit, "limit must be >= %d", MinLimit)
	}

	items := TrimResultSet(fetched, limit)
	if items == nil {
		items = make([]T, 0)
	}

	if IsLastPage(fetched, limit) || len(items) == 0 {
		return CursorEnvelope[T]{Items: items}, nil
	}

	if accessor == nil {
		return CursorEnvelope[T]{}, fmt.Errorf("cannot build next page cursor: nil accessor")
	}

	value, err := accessor.Get(lo.LastOrEmpty(items), field)
	if err != nil {
		return CursorEnvelope[T]{}, fmt.Errorf("cannot build next page cursor: %w", err)
	}

	next, err := Stringify(value)
	if err != nil {
		return CursorEnvelope[T]{}, fmt.Errorf("cannot build next page cursor: %w", err)
	}

	// An empty token reads as "first page" on the way back in.
	if next == "" {
		return CursorEnvelope[T]{}, fmt.Errorf("cannot build next page cursor: field '%s' is empty", field)
	}

	return CursorEnvelope[T]{
		Items:      items,
		NextCursor: &next,
		HasNext:    true,
	}, nil
}

// NextPage is BuildCursorEnvelope for the window the rows were fetched with.
// The accessor is asked for the sort field's Name, so a window ordered by
// "users.created_at" reads "created_at".
func NextPage[T any](window CursorWindow, fetched []T, accessor Accessor[T]) (CursorEnvelope[T], error) {
	return BuildCursorEnvelope(fetched, window.Limit, window.Sort.Field.Name(), accessor)
}
