package gowindow

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	sq "github.com/Masterminds/squirrel"
)

// Window is implemented by OffsetWindow and CursorWindow only.
type Window interface {
	isWindow()
}

var (
	_ Window = OffsetWindow{}
	_ Window = CursorWindow{}
)

// Query is an executable query text with its bound parameters.
type Query struct {
	Text   string
	Params []any
}

type assembleOptions struct {
	placeholder sq.PlaceholderFormat
	baseParams  []any
}

type AssembleOption func(*assembleOptions)

// WithPlaceholder sets the placeholder format of the result, e.g. sq.Dollar
// for PostgreSQL drivers. Default is sq.Question. Use "??" in the base query
// for a literal question mark.
func WithPlaceholder(p sq.PlaceholderFormat) AssembleOption {
	return func(o *assembleOptions) {
		o.placeholder = p
	}
}

// WithBaseParams binds the base query's own "?" placeholders. They precede
// the window parameters in Query.Params.
func WithBaseParams(params ...any) AssembleOption {
	return func(o *assembleOptions) {
		o.baseParams = params
	}
}

func newAssembleOptions(opts []AssembleOption) assembleOptions {
	o := assembleOptions{placeholder: sq.Question}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// AssembleQuery renders the final parameterized query for a base query
// (select + from + optional static where, owned by the caller) and a window.
// The base must end where the window begins: a top-level LIMIT, OFFSET or
// FETCH is rejected for both windows, and a cursor window also rejects
// GROUP BY, HAVING and ORDER BY. Wrap such a query in a subquery instead.
//
// Offset windows append "LIMIT ? OFFSET ?" bound to [limit, offset].
// Cursor windows append the optional "<field> <op> ?" filter and
// "ORDER BY <field> <dir> LIMIT ?" bound to [cursor, fetchLimit]. An existing
// top-level WHERE condition is parenthesized and joined with AND.
//
// Values are never written into the query text; only the Field and Direction,
// which come from closed types, are.
func AssembleQuery(base string, window Window, opts ...AssembleOption) (Query, error) {
	base = normalizeBase(base)
	if base == "" {
		return Query{}, invalidRequest(nil, "base query must not be empty")
	}

	o := newAssembleOptions(opts)
	params := slices.Clone(o.baseParams)

	var b strings.Builder
	switch w := window.(type) {
	case *OffsetWindow:
		if w == nil {
			return Query{}, invalidRequest(nil, "window is not set")
		}
		return AssembleQuery(base, *w, opts...)
	case *CursorWindow:
		if w == nil {
			return Query{}, invalidRequest(nil, "window is not set")
		}
		return AssembleQuery(base, *w, opts...)
	case OffsetWindow:
		if err := w.validate(); err != nil {
			return Query{}, err
		}
		if err := checkTrailingClauses(base, _offsetTrailingClauses); err != nil {
			return Query{}, err
		}

		b.WriteString(base)
		b.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, w.Limit, w.Offset)
	case CursorWindow:
		if err := w.validate(); err != nil {
			return Query{}, err
		}
		if err := checkTrailingClauses(base, _cursorTrailingClauses); err != nil {
			return Query{}, err
		}

		b.WriteString(withFilter(base, w.Predicate))
		b.WriteString(" ORDER BY ")
		b.WriteString(w.Sort.ToSQL())
		b.WriteString(" LIMIT ?")
		if w.Predicate != nil {
			_, args := w.Predicate.ToSQL()
			params = append(params, args...)
		}
		params = append(params, w.FetchLimit)
	default:
		return Query{}, invalidRequest(window, "unsupported window type %T", window)
	}

	text, err := o.placeholder.ReplacePlaceholders(b.String())
	if err != nil {
		return Query{}, fmt.Errorf("cannot replace placeholders: %w", err)
	}

	return Query{Text: text, Params: params}, nil
}

// CountQuery wraps the base query into "SELECT COUNT(*) FROM (<base>) AS
// windowed", the total for an offset envelope.
func CountQuery(base string, opts ...AssembleOption) (Query, error) {
	base = normalizeBase(base)
	if base == "" {
		return Query{}, invalidRequest(nil, "base query must not be empty")
	}

	o := newAssembleOptions(opts)

	text, err := o.placeholder.ReplacePlaceholders(fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS windowed", base))
	if err != nil {
		return Query{}, fmt.Errorf("cannot replace placeholders: %w", err)
	}

	return Query{Text: text, Params: slices.Clone(o.baseParams)}, nil
}

func normalizeBase(base string) string {
	return strings.TrimRightFunc(strings.TrimSpace(base), func(r rune) bool {
		return r == ';' || unicode.IsSpace(r)
	})
}

func (w OffsetWindow) validate() error {
	if err := checkLimit("limit", w.Limit, MaxLimit); err != nil {
		return err
	}

	if w.Offset < 0 {
		return invalidRequest(w.Offset, "offset must be >= 0")
	}

	return nil
}

func (w CursorWindow) validate() error {
	if err := checkLimit("limit", w.Limit, MaxLimit); err != nil {
		return err
	}

	if w.FetchLimit != w.Limit+1 {
		return invalidRequest(w.FetchLimit, "fetch limit must be limit + 1")
	}

	if err := w.Sort.validate(); err != nil {
		return err
	}

	if w.Predicate == nil {
		return nil
	}

	if w.Predicate.Field != w.Sort.Field {
		return invalidRequest(w.Predicate.Field, "cursor predicate field does not match ordering field '%s'", w.Sort.Field)
	}

	if !w.Predicate.Operator.matches(w.Sort.Direction) {
		return invalidRequest(w.Predicate.Operator, "cursor operator does not match %s ordering", w.Sort.Direction)
	}

	return nil
}

// withFilter appends the cursor predicate to base:
//
//	SELECT * FROM t                 -> SELECT * FROM t WHERE id > ?
//	SELECT * FROM t WHERE a OR b    -> SELECT * FROM t WHERE (a OR b) AND id > ?
func withFilter(base string, p *Predicate) string {
	if p == nil {
		return base
	}

	pred, _ := p.ToSQL()

	idx := topLevelWhere(base)
	if idx < 0 {
		return base + " WHERE " + pred
	}

	head := base[:idx+len("WHERE")]
	cond := strings.TrimSpace(base[idx+len("WHERE"):])

	return fmt.Sprintf("%s (%s) AND %s", head, cond, pred)
}

// topLevelWhere returns the byte index of the WHERE keyword that is outside
// any parentheses and quotes, or -1.
func topLevelWhere(q string) int {
	return topLevelKeyword(q, "where")
}

// topLevelKeyword returns the byte index of the first occurrence of words
// (separated by whitespace, case-insensitive) outside any parentheses and
// quotes, or -1.
func topLevelKeyword(q string, words ...string) int {
	depth := 0
	var quote byte

	for i := 0; i < len(q); i++ {
		c := q[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth != 0 || (i > 0 && isIdentByte(q[i-1])) {
				continue
			}
			if matchWords(q, i, words) {
				return i
			}
		}
	}

	return -1
}

func matchWords(q string, i int, words []string) bool {
	for k, word := range words {
		if k > 0 {
			start := i
			for i < len(q) && unicode.IsSpace(rune(q[i])) {
				i++
			}
			if i == start {
				return false
			}
		}

		end := i + len(word)
		if end > len(q) || !strings.EqualFold(q[i:end], word) {
			return false
		}
		if end < len(q) && isIdentByte(q[end]) {
			return false
		}

		i = end
	}

	return true
}

// checkTrailingClauses rejects a base query whose top level continues past
// the point where the window is appended.
func checkTrailingClauses(base string, clauses [][]string) error {
	for _, words := range clauses {
		if topLevelKeyword(base, words...) >= 0 {
			return invalidRequest(nil, "base query must not contain a top-level %s clause", strings.ToUpper(strings.Join(words, " ")))
		}
	}

	return nil
}

var (
	// An offset window appends LIMIT/OFFSET at the very end.
	_offsetTrailingClauses = [][]string{{"limit"}, {"offset"}, {"fetch"}}
	// A cursor window extends the WHERE condition and appends its own ORDER BY.
	_cursorTrailingClauses = [][]string{{"group", "by"}, {"having"}, {"order", "by"}, {"limit"}, {"offset"}, {"fetch"}}
)

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
