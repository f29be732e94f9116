// Package gowindow turns an unbounded relational query into bounded,
// navigable pages.
//
// Overview
//
// gowindow implements two windowing strategies:
//   - Offset pagination: a 1-indexed page number and a page size become a
//     LIMIT/OFFSET pair (DeriveOffsetWindow); the caller's items and total
//     count become a PageEnvelope with total pages and navigation flags
//     (BuildOffsetEnvelope).
//   - Cursor pagination: an opaque cursor (the stringified ordering field of
//     the last item seen) becomes a "<field> > ?" or "<field> < ?" predicate
//     and a fetch size of limit+1 (DeriveCursorWindow). The extra row tells
//     whether a next page exists without a COUNT query; BuildCursorEnvelope
//     trims it and derives the next cursor.
//
// Key concepts
//   - Field and FieldSet: the closed vocabulary of sortable columns. Only
//     columns and directions reach SQL text; values are always bound.
//   - AssembleQuery: renders a caller-owned base query plus a window into
//     query text and bound parameters.
//   - Accessor: reads the cursor field off an item (Getters, MapAccessor,
//     RecordAccessor, StructAccessor).
//   - Config: explicit page size limits, loadable with viper.
//
// Every violated request constraint is reported as ErrInvalidRequest; values
// are never clamped. The core is pure and safe for concurrent use. The Fetch
// helpers execute windows with gorm for callers that want it.
package gowindow
