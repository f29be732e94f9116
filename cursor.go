package gowindow

import (
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CursorRequest is a validated cursor-mode request. The cursor is the
// stringified value of the ordering field of the last item of the previous
// page; it is application state, not a security boundary, and is neither
// encoded nor signed. Construct it with NewCursorRequest.
type CursorRequest struct {
	cursor *string
	limit  int
}

// NewCursorRequest validates limit in [1, MaxLimit]. A nil or empty cursor
// requests the first page.
func NewCursorRequest(cursor *string, limit int) (CursorRequest, error) {
	return DefaultConfig().NewCursorRequest(cursor, limit)
}

// NewCursorRequest validates limit in [1, c.MaxPageSize].
func (c Config) NewCursorRequest(cursor *string, limit int) (CursorRequest, error) {
	if err := checkLimit("limit", limit, c.maxPageSize()); err != nil {
		return CursorRequest{}, err
	}

	if cursor != nil && *cursor == "" {
		cursor = nil
	}
	if cursor != nil {
		cursor = lo.ToPtr(*cursor)
	}

	return CursorRequest{cursor: cursor, limit: limit}, nil
}

// Cursor returns the cursor value and whether one was sent.
func (r CursorRequest) Cursor() (string, bool) {
	if r.cursor == nil {
		return "", false
	}

	return *r.cursor, true
}

func (r CursorRequest) Limit() int {
	return r.limit
}

// Window derives the cursor window for the request ordered by sort.
func (r CursorRequest) Window(sort Sort) (CursorWindow, error) {
	return deriveCursorWindow(r.cursor, sort, r.limit)
}

// RawCursorRequest is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawCursorRequest `json:",inline"`
//	}
type RawCursorRequest struct {
	// Limit - maximum number of records to return in the response. Zero
	// means "not provided" (Config.DefaultPageSize).
	Limit int `json:"limit" form:"limit"`
	// Cursor - token obtained from CursorEnvelope.NextCursor.
	// If empty, the first page with Limit records is returned.
	Cursor string `json:"cursor" form:"cursor"`
}

// Decode converts RawCursorRequest into a CursorRequest.
func (p RawCursorRequest) Decode(cfg Config) (CursorRequest, error) {
	limit := lo.Ternary(p.Limit == 0, cfg.DefaultPageSize, p.Limit)

	return cfg.NewCursorRequest(lo.EmptyableToPtr(p.Cursor), limit)
}

// CursorWindow is the filter and fetch size of one cursor page.
type CursorWindow struct {
	// Sort is the designated ordering field and direction.
	Sort Sort
	// Predicate is nil on the first page.
	Predicate *Predicate
	// Limit is the number of items the client asked for.
	Limit int
	// FetchLimit is Limit + 1: the lookahead row tells whether a next page
	// exists without a COUNT query.
	FetchLimit int
}

// DeriveCursorWindow derives the predicate and fetch size for a cursor page.
// The operator is ">" for ascending and "<" for descending order. It fails
// with InvalidRequest when limit is out of [1,100] or sort is unusable.
func DeriveCursorWindow(cursor *string, sort Sort, limit int) (CursorWindow, error) {
	return DefaultConfig().DeriveCursorWindow(cursor, sort, limit)
}

// DeriveCursorWindow is DeriveCursorWindow bounded by c.MaxPageSize.
func (c Config) DeriveCursorWindow(cursor *string, sort Sort, limit int) (CursorWindow, error) {
	req, err := c.NewCursorRequest(cursor, limit)
	if err != nil {
		return CursorWindow{}, err
	}

	return req.Window(sort)
}

func deriveCursorWindow(cursor *string, sort Sort, limit int) (CursorWindow, error) {
	if err := sort.validate(); err != nil {
		return CursorWindow{}, err
	}

	w := CursorWindow{
		Sort:       sort,
		Limit:      limit,
		FetchLimit: limit + 1,
	}

	if cursor != nil {
		w.Predicate = &Predicate{
			Field:    sort.Field,
			Operator: sort.Direction.ForOperator(),
			Value:    *cursor,
		}
	}

	return w, nil
}

// IsFirstPage returns true if the window has no cursor predicate.
func (w CursorWindow) IsFirstPage() bool {
	return w.Predicate == nil
}

// Apply applies the predicate, the ordering and the fetch limit to a gorm
// query.
func (w CursorWindow) Apply(db *gorm.DB) *gorm.DB {
	if w.Predicate != nil {
		db = db.Clauses(w.Predicate.toGORMExpression())
	}

	db = w.Sort.Apply(db)

	return db.Limit(w.FetchLimit)
}

func (CursorWindow) isWindow() {}
