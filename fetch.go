package gowindow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// The Fetch helpers execute windows with gorm. They are a convenience for
// callers that already use gorm; the windowing core never calls them.
// Logging goes to the zerolog logger stored in ctx (zerolog.Ctx).

type fetchOptions struct {
	metrics *Metrics
}

type FetchOption func(*fetchOptions)

// WithMetrics records served pages and errors into m.
func WithMetrics(m *Metrics) FetchOption {
	return func(o *fetchOptions) {
		o.metrics = m
	}
}

func newFetchOptions(opts []FetchOption) fetchOptions {
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func fetchLogger(ctx context.Context, strategy string) zerolog.Logger {
	return zerolog.Ctx(ctx).With().
		Str("component", "gowindow").
		Str("strategy", strategy).
		Logger()
}

// FetchOffsetPage counts the rows matched by db, fetches the requested page and
// builds the envelope. db must already select the table and static filters:
//
//	env, err := gowindow.FetchOffsetPage[Article](ctx, db.Model(&Article{}).Where("feed_id = ?", id).Order("id"), req)
//
// The items query is skipped when the page starts beyond the total.
func FetchOffsetPage[T any](ctx context.Context, db *gorm.DB, req PageRequest, opts ...FetchOption) (PageEnvelope[T], error) {
	o := newFetchOptions(opts)
	logger := fetchLogger(ctx, strategyOffset)
	base := db.WithContext(ctx)
	window := req.Window()

	var total int64
	if err := base.Count(&total).Error; err != nil {
		o.metrics.observeError(strategyOffset, "count")
		logger.Error().Err(err).Msg("cannot count rows")
		return PageEnvelope[T]{}, fmt.Errorf("cannot count rows: %w", err)
	}

	items := make([]T, 0, window.Limit)
	if total > int64(window.Offset) {
		if err := window.Apply(base).Find(&items).Error; err != nil {
			o.metrics.observeError(strategyOffset, "fetch")
			logger.Error().Err(err).Int("limit", window.Limit).Int("offset", window.Offset).Msg("cannot fetch page")
			return PageEnvelope[T]{}, fmt.Errorf("cannot fetch page: %w", err)
		}
	}

	logger.Debug().
		Int("page", req.Page()).
		Int("limit", window.Limit).
		Int("offset", window.Offset).
		Int64("total", total).
		Int("returned", len(items)).
		Msg("offset page fetched")
	o.metrics.observePage(strategyOffset, pageRangeBucket(req.Page()), len(items))

	return Envelope(req, items, total), nil
}

// FetchCursorPage fetches limit+1 rows after the window's cursor and builds
// the envelope, reading the next cursor with accessor.
func FetchCursorPage[T any](ctx context.Context, db *gorm.DB, window CursorWindow, accessor Accessor[T], opts ...FetchOption) (CursorEnvelope[T], error) {
	o := newFetchOptions(opts)
	logger := fetchLogger(ctx, strategyCursor)

	if err := window.validate(); err != nil {
		o.metrics.observeError(strategyCursor, "window")
		return CursorEnvelope[T]{}, err
	}

	items := make([]T, 0, window.FetchLimit)
	if err := window.Apply(db.WithContext(ctx)).Find(&items).Error; err != nil {
		o.metrics.observeError(strategyCursor, "fetch")
		logger.Error().Err(err).Int("fetch_limit", window.FetchLimit).Msg("cannot fetch page")
		return CursorEnvelope[T]{}, fmt.Errorf("cannot fetch page: %w", err)
	}

	return finishCursorPage(logger, o, window, items, accessor)
}

// FetchRawOffsetPage is FetchOffsetPage for a raw SQL base query, assembled
// with CountQuery and AssembleQuery. baseParams bind the base's own "?".
func FetchRawOffsetPage[T any](ctx context.Context, db *gorm.DB, base string, req PageRequest, baseParams []any, opts ...FetchOption) (PageEnvelope[T], error) {
	o := newFetchOptions(opts)
	logger := fetchLogger(ctx, strategyOffset)
	window := req.Window()

	countQuery, err := CountQuery(base, WithBaseParams(baseParams...))
	if err != nil {
		return PageEnvelope[T]{}, err
	}

	pageQuery, err := AssembleQuery(base, window, WithBaseParams(baseParams...))
	if err != nil {
		return PageEnvelope[T]{}, err
	}

	var total int64
	if err = db.WithContext(ctx).Raw(countQuery.Text, countQuery.Params...).Scan(&total).Error; err != nil {
		o.metrics.observeError(strategyOffset, "count")
		logger.Error().Err(err).Str("sql", countQuery.Text).Msg("cannot count rows")
		return PageEnvelope[T]{}, fmt.Errorf("cannot count rows: %w", err)
	}

	items := make([]T, 0, window.Limit)
	if total > int64(window.Offset) {
		if err = db.WithContext(ctx).Raw(pageQuery.Text, pageQuery.Params...).Scan(&items).Error; err != nil {
			o.metrics.observeError(strategyOffset, "fetch")
			logger.Error().Err(err).Str("sql", pageQuery.Text).Msg("cannot fetch page")
			return PageEnvelope[T]{}, fmt.Errorf("cannot fetch page: %w", err)
		}
	}

	logger.Debug().
		Int("page", req.Page()).
		Int64("total", total).
		Int("returned", len(items)).
		Msg("offset page fetched")
	o.metrics.observePage(strategyOffset, pageRangeBucket(req.Page()), len(items))

	return Envelope(req, items, total), nil
}

// FetchRawCursorPage is FetchCursorPage for a raw SQL base query assembled
// with AssembleQuery.
func FetchRawCursorPage[T any](ctx context.Context, db *gorm.DB, base string, window CursorWindow, accessor Accessor[T], baseParams []any, opts ...FetchOption) (CursorEnvelope[T], error) {
	o := newFetchOptions(opts)
	logger := fetchLogger(ctx, strategyCursor)

	query, err := AssembleQuery(base, window, WithBaseParams(baseParams...))
	if err != nil {
		o.metrics.observeError(strategyCursor, "window")
		return CursorEnvelope[T]{}, err
	}

	items := make([]T, 0, window.FetchLimit)
	if err = db.WithContext(ctx).Raw(query.Text, query.Params...).Scan(&items).Error; err != nil {
		o.metrics.observeError(strategyCursor, "fetch")
		logger.Error().Err(err).Str("sql", query.Text).Msg("cannot fetch page")
		return CursorEnvelope[T]{}, fmt.Errorf("cannot fetch page: %w", err)
	}

	return finishCursorPage(logger, o, window, items, accessor)
}

func finishCursorPage[T any](logger zerolog.Logger, o fetchOptions, window CursorWindow, items []T, accessor Accessor[T]) (CursorEnvelope[T], error) {
	env, err := NextPage(window, items, accessor)
	if err != nil {
		o.metrics.observeError(strategyCursor, "envelope")
		logger.Error().Err(err).Str("field", window.Sort.Field.Column()).Msg("cannot build cursor envelope")
		return CursorEnvelope[T]{}, err
	}

	logger.Debug().
		Str("sort", window.Sort.ToSQL()).
		Bool("first_page", window.IsFirstPage()).
		Int("fetched", len(items)).
		Bool("has_next", env.HasNext).
		Msg("cursor page fetched")
	o.metrics.observePage(strategyCursor, lo.Ternary(window.IsFirstPage(), "first", "next"), len(env.Items))

	return env, nil
}
