package gowindow

import (
	"math"

	"gorm.io/gorm"
)

// PageRequest is a validated offset-mode request: a 1-indexed page number and
// a page size. Construct it with NewPageRequest; it is immutable afterwards.
type PageRequest struct {
	page     int
	pageSize int
}

// NewPageRequest validates page >= 1 and pageSize in [1, MaxLimit].
func NewPageRequest(page, pageSize int) (PageRequest, error) {
	return DefaultConfig().NewPageRequest(page, pageSize)
}

// NewPageRequest validates page >= 1 and pageSize in [1, c.MaxPageSize].
// The offset (page-1)*pageSize must fit in an int.
func (c Config) NewPageRequest(page, pageSize int) (PageRequest, error) {
	if err := checkPage(page); err != nil {
		return PageRequest{}, err
	}

	if err := checkLimit("pageSize", pageSize, c.maxPageSize()); err != nil {
		return PageRequest{}, err
	}

	if page-FirstPage > math.MaxInt/pageSize {
		return PageRequest{}, invalidRequest(page, "page is too large for pageSize %d", pageSize)
	}

	return PageRequest{page: page, pageSize: pageSize}, nil
}

func (r PageRequest) Page() int {
	return r.page
}

func (r PageRequest) PageSize() int {
	return r.pageSize
}

// Window derives the LIMIT/OFFSET pair for the request.
func (r PageRequest) Window() OffsetWindow {
	return OffsetWindow{
		Limit:  r.pageSize,
		Offset: (r.page - 1) * r.pageSize,
	}
}

// RawPageRequest is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	// Page - 1-indexed page number. Zero means "not provided" (FirstPage).
	Page int `json:"page" form:"page"`
	// PageSize - number of records per page. Zero means "not provided"
	// (Config.DefaultPageSize).
	PageSize int `json:"pageSize" form:"pageSize"`
}

// Decode converts RawPageRequest into a PageRequest. Omitted (zero) values
// take defaults from cfg; any other value is validated strictly.
func (p RawPageRequest) Decode(cfg Config) (PageRequest, error) {
	page := p.Page
	if page == 0 {
		page = FirstPage
	}

	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = cfg.DefaultPageSize
	}

	return cfg.NewPageRequest(page, pageSize)
}

// OffsetWindow is the LIMIT/OFFSET pair of one page.
type OffsetWindow struct {
	Limit  int
	Offset int
}

// DeriveOffsetWindow computes limit = pageSize and offset = (page-1)*pageSize.
// It fails with InvalidRequest when page < 1 or pageSize is out of [1,100].
func DeriveOffsetWindow(page, pageSize int) (OffsetWindow, error) {
	return DefaultConfig().DeriveOffsetWindow(page, pageSize)
}

// DeriveOffsetWindow is DeriveOffsetWindow bounded by c.MaxPageSize.
func (c Config) DeriveOffsetWindow(page, pageSize int) (OffsetWindow, error) {
	req, err := c.NewPageRequest(page, pageSize)
	if err != nil {
		return OffsetWindow{}, err
	}

	return req.Window(), nil
}

// Apply applies the window to a gorm query.
func (w OffsetWindow) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(w.Limit).Offset(w.Offset)
}

// Page returns the 1-indexed page number the window corresponds to.
func (w OffsetWindow) Page() int {
	if w.Limit <= 0 {
		return FirstPage
	}

	return w.Offset/w.Limit + 1
}

func (OffsetWindow) isWindow() {}
