// Package delta keeps play statistics flowing in both directions: pull
// refreshes cached ratings and playcounts from Kodi, push sends whatever
// changed since the last push to the Echonest taste profile.
package delta

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/echonest"
	"github.com/tessro/kodictl/internal/library"
)

// Defaults applied when Options leave a field zero.
const (
	DefaultPageSize        = 20
	DefaultBatchSize       = 30
	DefaultRatingScale     = 2
	DefaultBreakerFailures = 3
)

// Saver persists the library after a sync.
type Saver interface {
	Save(ctx context.Context, lib *core.Library) error
}

// Profile is the part of the Echonest client used by push.
type Profile interface {
	ProfileInfo(ctx context.Context, id string) (*echonest.Profile, error)
	Update(ctx context.Context, id string, items []echonest.UpdateItem) (string, error)
}

// Resolver yields the taste profile id. Invalidate drops a remembered id so
// the next ID looks the profile up, or creates it, again.
type Resolver interface {
	ID(ctx context.Context) (string, error)
	Invalidate()
}

// ProgressFunc is told how many songs of a sync have been processed.
type ProgressFunc func(done, total int)

// Options tunes an Engine. A zero BatchInterval sends batches back to back.
type Options struct {
	PageSize        int
	BatchSize       int
	BatchInterval   time.Duration
	RatingScale     int
	BreakerFailures uint32
	Retry           library.RetryPolicy
	Progress        ProgressFunc
}

// OptionsFromConfig builds engine options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PageSize:      cfg.Library.SongsPageSize,
		BatchSize:     cfg.Echonest.BatchSize,
		BatchInterval: time.Duration(cfg.Echonest.BatchIntervalMS) * time.Millisecond,
		RatingScale:   cfg.Echonest.RatingScale,
		Retry:         library.RetryPolicyFromConfig(cfg.Library),
	}
}

// Engine runs pull and push syncs against an in-memory library.
type Engine struct {
	reader   library.Reader
	saver    Saver
	profile  Profile
	resolver Resolver
	opts     Options
}

// NewEngine creates an engine. profile and resolver may be nil when only
// pull is used.
func NewEngine(reader library.Reader, saver Saver, profile Profile, resolver Resolver, opts Options) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RatingScale <= 0 {
		opts.RatingScale = DefaultRatingScale
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultBreakerFailures
	}
	return &Engine{
		reader:   reader,
		saver:    saver,
		profile:  profile,
		resolver: resolver,
		opts:     opts,
	}
}

// SetProgress replaces the progress callback.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.opts.Progress = fn
}

func (e *Engine) progress(done, total int) {
	if e.opts.Progress != nil {
		e.opts.Progress(done, total)
	}
}

func (e *Engine) limiter() *rate.Limiter {
	if e.opts.BatchInterval == 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(e.opts.BatchInterval), 1)
}
