package delta

import (
	"context"
	"fmt"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/library"
	"github.com/tessro/kodictl/internal/logging"
)

// PullReport counts the fields a pull changed.
type PullReport struct {
	RatingUpdated    int `json:"rating_updated"`
	PlaycountUpdated int `json:"playcount_updated"`
	Unknown          int `json:"unknown"`
}

// Pull re-reads rating and playcount for every cached song and overwrites
// values that differ. Songs the server returns but the cache lacks are
// counted in Unknown and otherwise ignored. The snapshot is saved at the end.
func (e *Engine) Pull(ctx context.Context, lib *core.Library) (*PullReport, error) {
	log := logging.Ctx(ctx)
	report := &PullReport{}
	total := lib.TrackCount()

	e.progress(0, total)
	for _, w := range core.Windows(total, e.opts.PageSize) {
		var stats []library.Stats
		err := e.opts.Retry.Do(ctx, "song stats "+w.String(), func() error {
			s, err := e.reader.SongStats(ctx, w)
			stats = s
			return err
		})
		if err != nil {
			return report, err
		}

		for _, s := range stats {
			t, ok := lib.Track(s.ID)
			if !ok {
				log.Debug().Int("song", s.ID).Msg("server returned a song missing from the cache")
				report.Unknown++
				continue
			}
			if t.Rating != s.Rating {
				log.Info().Int("song", t.ID).Int("from", t.Rating).Int("to", s.Rating).Msg("updating rating")
				t.Rating = s.Rating
				report.RatingUpdated++
			}
			if t.Playcount != s.Playcount {
				log.Info().Int("song", t.ID).Int("from", t.Playcount).Int("to", s.Playcount).Msg("updating playcount")
				t.Playcount = s.Playcount
				report.PlaycountUpdated++
			}
		}
		e.progress(w.End, total)
	}

	if err := e.saver.Save(ctx, lib); err != nil {
		return report, fmt.Errorf("failed to save library snapshot: %w", err)
	}
	return report, nil
}
