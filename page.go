package gowindow

// PageEnvelope is the client-facing result of an offset-mode query.
type PageEnvelope[T any] struct {
	// Items result elements.
	Items []T `json:"items"`
	// Total number of elements across all pages.
	Total int64 `json:"total"`
	// Page is the 1-indexed page number.
	Page int `json:"page"`
	// PageSize is the requested page size.
	PageSize    int  `json:"pageSize"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// TotalPages calculates the total number of pages using integer ceiling
// division, (total + pageSize - 1) / pageSize.
//
// Examples:
//   - Total 0, PageSize 20 -> 0 pages
//   - Total 20, PageSize 20 -> 1 page
//   - Total 101, PageSize 20 -> 6 pages
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	size := int64(pageSize)

	return int((total + size - 1) / size)
}

// BuildOffsetEnvelope wraps a page of items with navigation metadata.
//
// A page beyond TotalPages is a valid, empty result; deciding whether that is
// an error is up to the caller.
func BuildOffsetEnvelope[T any](items []T, total int64, page, pageSize int) PageEnvelope[T] {
	if items == nil {
		items = make([]T, 0)
	}

	totalPages := TotalPages(total, pageSize)

	return PageEnvelope[T]{
		Items:       items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevious: page > FirstPage,
		HasNext:     page < totalPages,
	}
}

// Envelope is BuildOffsetEnvelope for a validated request.
func Envelope[T any](req PageRequest, items []T, total int64) PageEnvelope[T] {
	return BuildOffsetEnvelope(items, total, req.page, req.pageSize)
}
