package gowindow

const (
	// FirstPage is the number of the first page in offset mode.
	FirstPage = 1
	// MinLimit is the smallest page size / cursor limit accepted.
	MinLimit = 1
	// MaxLimit is the hard ceiling for page size / cursor limit.
	MaxLimit = 100
	// DefaultLimit is used by raw payload decoding when no size was sent.
	DefaultLimit = 20
)

// checkPage rejects page numbers below FirstPage.
func checkPage(page int) error {
	if page < FirstPage {
		return invalidRequest(page, "page must be >= %d", FirstPage)
	}

	return nil
}

// checkLimit rejects limits outside [MinLimit, maxLimit]. The value is never
// clamped: a limit of 500 is an error, not 100.
func checkLimit(name string, limit int, maxLimit int) error {
	if limit < MinLimit || limit > maxLimit {
		return invalidRequest(limit, "%s out of [%d,%d]", name, MinLimit, maxLimit)
	}

	return nil
}
