package delta

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/echonest"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
)

// PushReport summarizes a push.
type PushReport struct {
	ProfileID     string `json:"profile_id"`
	Full          bool   `json:"full"`
	Delta         int    `json:"delta"`
	Batches       int    `json:"batches"`
	Synced        int    `json:"synced"`
	Failed        int    `json:"failed"`
	FailedBatches int    `json:"failed_batches"`
}

// DeltaSet returns the tracks a push must send: all of them for an empty
// profile, otherwise only those whose shadow is behind.
func DeltaSet(lib *core.Library, full bool) []*core.Track {
	if full {
		return lib.Tracks()
	}
	return lib.DirtyTracks()
}

// Batches splits tracks into update payloads of at most size items.
func Batches(tracks []*core.Track, size, ratingScale int) [][]echonest.UpdateItem {
	var out [][]echonest.UpdateItem
	for _, chunk := range core.Chunk(tracks, size) {
		out = append(out, updateItems(chunk, ratingScale))
	}
	return out
}

func updateItems(tracks []*core.Track, ratingScale int) []echonest.UpdateItem {
	items := make([]echonest.UpdateItem, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, echonest.NewUpdateItem(t, ratingScale))
	}
	return items
}

// Push sends changed statistics to the taste profile in paced batches. A
// batch's shadows advance only once the service accepted it; failed batches
// are collected in the result and stay dirty for the next push. After a run
// of consecutive failures the remaining batches fail without a request. The
// snapshot is saved even when some batches failed.
//
// The returned error is non-nil only when the push could not start or the
// snapshot could not be saved.
func (e *Engine) Push(ctx context.Context, lib *core.Library) (*kerrors.PartialResult[PushReport], error) {
	if e.profile == nil || e.resolver == nil {
		return nil, kerrors.WithSuggestion(kerrors.ErrNotConfigured, "Set echonest.api_key to sync the taste profile")
	}
	log := logging.Ctx(ctx)

	id, full, err := e.openProfile(ctx)
	if err != nil {
		return nil, err
	}

	result := &kerrors.PartialResult[PushReport]{}
	report := &result.Data
	report.ProfileID = id
	report.Full = full

	tracks := DeltaSet(lib, report.Full)
	report.Delta = len(tracks)
	if report.Full {
		log.Info().Int("songs", len(tracks)).Msg("taste profile empty, full sync")
	} else {
		log.Info().Int("songs", len(tracks)).Msg("limiting sync to delta")
	}

	chunks := core.Chunk(tracks, e.opts.BatchSize)
	report.Batches = len(chunks)
	limiter := e.limiter()
	breaker := e.newBreaker()

	e.progress(0, len(tracks))
	done := 0
	for i, chunk := range chunks {
		items := updateItems(chunk, e.opts.RatingScale)

		if breaker.State() != gobreaker.StateOpen {
			if err := limiter.Wait(ctx); err != nil {
				result.AddError(fmt.Errorf("batch %d: %w", i+1, err))
				report.Failed += len(tracks) - done
				report.FailedBatches += len(chunks) - i
				break
			}
		}

		ticket, err := breaker.Execute(func() (string, error) {
			return e.profile.Update(ctx, id, items)
		})
		done += len(chunk)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				log.Debug().Int("batch", i+1).Msg("batch skipped, taste profile service failing")
			} else {
				log.Error().Err(err).Int("batch", i+1).Int("songs", len(chunk)).Msg("batch rejected")
			}
			result.AddError(fmt.Errorf("batch %d (%d songs): %w", i+1, len(chunk), err))
			report.Failed += len(chunk)
			report.FailedBatches++
			e.progress(done, len(tracks))
			continue
		}

		for _, t := range chunk {
			t.MarkSynced()
		}
		report.Synced += len(chunk)
		log.Debug().Int("batch", i+1).Str("ticket", ticket).Int("songs", len(chunk)).Msg("batch accepted")
		e.progress(done, len(tracks))
	}

	if err := e.saver.Save(ctx, lib); err != nil {
		return result, fmt.Errorf("failed to save library snapshot: %w", err)
	}
	return result, nil
}

// openProfile resolves the profile id and reports whether the profile is
// empty. A remembered id whose profile was deleted on the service is dropped
// and the profile resolved again; the fresh profile needs a full sync.
func (e *Engine) openProfile(ctx context.Context) (string, bool, error) {
	id, err := e.resolver.ID(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve taste profile: %w", err)
	}
	info, err := e.profile.ProfileInfo(ctx, id)
	if err == nil {
		return id, info.Total == 0, nil
	}
	if !errors.Is(err, kerrors.ErrProfileNotFound) {
		return "", false, fmt.Errorf("failed to read taste profile: %w", err)
	}

	logging.Ctx(ctx).Warn().Str("profile_id", id).Msg("taste profile gone, resolving again")
	e.resolver.Invalidate()
	id, err = e.resolver.ID(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve taste profile: %w", err)
	}
	return id, true, nil
}

func (e *Engine) newBreaker() *gobreaker.CircuitBreaker[string] {
	threshold := e.opts.BreakerFailures
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "echonest-update",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}
