package tail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tessro/kodictl/internal/logging"
)

// SkipRecorder records a skipped song in a taste profile.
type SkipRecorder interface {
	Skip(ctx context.Context, profileID string, songID int) error
}

// AutoSkip reports every detected skip to a taste profile.
type AutoSkip struct {
	Recorder  SkipRecorder
	ProfileID string
}

// Follow starts w and writes each event to out until ctx is cancelled. When
// skips is non-nil, skipped songs are reported to the profile; reporting
// failures are logged and do not stop the loop.
func Follow(ctx context.Context, w *Watcher, f *Formatter, out io.Writer, skips *AutoSkip) error {
	log := logging.Ctx(ctx)

	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	for e := range w.Events() {
		fmt.Fprintln(out, f.Format(e))

		if skips == nil || e.Type != EventTrackSkip {
			continue
		}
		song := e.Song()
		if song == nil {
			continue
		}
		if err := skips.Recorder.Skip(ctx, skips.ProfileID, song.ID); err != nil {
			log.Warn().Err(err).Int("songid", song.ID).Msg("failed to report skip")
			continue
		}
		log.Debug().Int("songid", song.ID).Str("profile", skips.ProfileID).Msg("skip reported")
	}

	err := <-errc
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
