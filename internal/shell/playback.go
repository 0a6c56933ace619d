package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/tui/components"
	"github.com/tessro/kodictl/internal/tui/styles"
)

const panelWidth = 72

func (s *Shell) addPlaybackCommands(root *cobra.Command) {
	simple := func(use, short string, fn func(ctx context.Context) error, done string) *cobra.Command {
		return &cobra.Command{
			Use:     use,
			Short:   short,
			GroupID: "play",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := fn(cmd.Context()); err != nil {
					return err
				}
				s.done(done)
				return nil
			},
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:     "playlist_show",
			Short:   "Show the current audio playlist",
			GroupID: "playlist",
			Args:    cobra.NoArgs,
			RunE:    s.runPlaylistShow,
		},
		&cobra.Command{
			Use:     "playlist_add [albumid]",
			Short:   "Add an album to the playlist, a random one without id",
			GroupID: "playlist",
			Args:    cobra.MaximumNArgs(1),
			RunE:    s.runPlaylistAdd,
		},
		&cobra.Command{
			Use:     "playlist_clear",
			Short:   "Remove all items from the playlist",
			GroupID: "playlist",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.sess.Player.ClearQueue(cmd.Context()); err != nil {
					return err
				}
				s.done("Playlist cleared")
				return nil
			},
		},
		&cobra.Command{
			Use:     "play_album [albumid]",
			Short:   "Play a single album, a random one without id",
			GroupID: "play",
			Args:    cobra.MaximumNArgs(1),
			RunE:    s.runPlayAlbum,
		},
		simple("play_party", "Start a big party!", s.sess.Player.PartyMode, "Party mode started"),
		simple("play_pause", "Switch between play and pause", s.sess.Player.PlayPause, ""),
		simple("play_stop", "Stop the music", s.sess.Player.Stop, ""),
		&cobra.Command{
			Use:     "play_what",
			Short:   "Detail what is currently played",
			GroupID: "play",
			Args:    cobra.NoArgs,
			RunE:    s.runPlayWhat,
		},
		&cobra.Command{
			Use:     "volume <0-100>",
			Short:   "Set the volume in percent",
			GroupID: "play",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				percent, err := strconv.Atoi(args[0])
				if err != nil || percent < 0 || percent > 100 {
					return fmt.Errorf("%w: volume must be between 0 and 100, got %q", kerrors.ErrInvalidArgument, args[0])
				}
				if err := s.sess.Player.Volume(cmd.Context(), percent); err != nil {
					return err
				}
				s.done(fmt.Sprintf("Volume set to %d%%", percent))
				return nil
			},
		},
	)
}

// done prints a short confirmation in text mode.
func (s *Shell) done(msg string) {
	if msg == "" || s.json {
		return
	}
	fmt.Fprintln(s.out, styles.Muted.Render(msg))
}

// albumArg returns the album id argument, or a random album's id.
func (s *Shell) albumArg(ctx context.Context, args []string, verb string) (int, error) {
	lib, err := s.library(ctx)
	if err != nil {
		return 0, err
	}
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return 0, err
		}
		if _, ok := lib.Album(id); !ok {
			return 0, fmt.Errorf("%w: %d", kerrors.ErrAlbumNotFound, id)
		}
		return id, nil
	}

	a, ok := lib.RandomAlbum()
	if !ok {
		return 0, fmt.Errorf("%w: the library has no albums", kerrors.ErrAlbumNotFound)
	}
	if !s.json {
		fmt.Fprintf(s.out, "\nAlbum %s will be %s\n\n", albumLabel(a), verb)
	}
	return a.ID, nil
}

func albumLabel(a *core.Album) string {
	return fmt.Sprintf("%s by %s %s", styles.Title.Render(a.Title), a.Artist, styles.ID.Render(fmt.Sprintf("[%d]", a.ID)))
}

func (s *Shell) runPlaylistShow(cmd *cobra.Command, _ []string) error {
	queue, err := s.sess.Player.GetQueue(cmd.Context())
	if err != nil {
		return err
	}
	return s.emit(queue, func(w io.Writer) {
		fmt.Fprintln(w, components.NewPlaylist().Render(queue, panelWidth, queue.Len()+1))
	})
}

func (s *Shell) runPlaylistAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := s.albumArg(ctx, args, "added to the playlist")
	if err != nil {
		return err
	}
	if err := s.sess.Player.EnqueueAlbum(ctx, id); err != nil {
		return err
	}
	s.done(fmt.Sprintf("Album %d added to the playlist", id))
	return nil
}

func (s *Shell) runPlayAlbum(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := s.albumArg(ctx, args, "played")
	if err != nil {
		return err
	}
	p := s.sess.Player
	if err := p.ClearQueue(ctx); err != nil {
		return err
	}
	if err := p.EnqueueAlbum(ctx, id); err != nil {
		return err
	}
	return p.PlayQueue(ctx)
}

// playSongs replaces the playlist with ids and starts playing it.
func (s *Shell) playSongs(ctx context.Context, ids []int) error {
	p := s.sess.Player
	if err := p.Stop(ctx); err != nil && !errors.Is(err, kerrors.ErrNotPlaying) {
		return err
	}
	if err := p.ClearQueue(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		if err := p.EnqueueTrack(ctx, id); err != nil {
			return fmt.Errorf("failed to queue song %d: %w", id, err)
		}
	}
	if err := p.PlayQueue(ctx); err != nil {
		return err
	}
	s.done("   ... let's rock the house!")
	return nil
}

type nowPlaying struct {
	State *core.PlaybackState `json:"state"`
	Queue *core.Queue         `json:"queue"`
}

func (s *Shell) runPlayWhat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	state, err := s.sess.Player.GetState(ctx)
	if err != nil {
		return err
	}
	queue, err := s.sess.Player.GetQueue(ctx)
	if err != nil {
		return err
	}

	// Ratings and playcounts come from the cache when the song is known.
	if state.HasTrack() {
		if lib := s.sess.Library(); lib != nil {
			if t, ok := lib.Track(state.Track.ID); ok {
				state.Track.Playcount = t.Playcount
				state.Track.MusicBrainzID = t.MusicBrainzID
			}
		}
	}

	return s.emit(nowPlaying{State: state, Queue: queue}, func(w io.Writer) {
		fmt.Fprintln(w, components.NewNowPlaying().Render(state, panelWidth, 0))
		if next := queue.Upcoming(); state.HasTrack() && queue.CurrentIndex >= 0 && len(next) > 0 {
			fmt.Fprintf(w, "(%d / %d) - Next: %s - %s\n\n",
				queue.CurrentIndex+1, queue.Len(), next[0].Artist, next[0].Title)
		}
	})
}
