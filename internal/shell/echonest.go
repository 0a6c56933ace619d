package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
	"github.com/tessro/kodictl/internal/tui/components"
	"github.com/tessro/kodictl/internal/tui/styles"
	"github.com/tessro/kodictl/internal/wizard"
)

func (s *Shell) addEchonestCommands(root *cobra.Command) {
	root.AddCommand(
		&cobra.Command{
			Use:     "playlist_tasteprofile",
			Short:   "Generate and play a playlist from the taste profile",
			Long:    "Generate a playlist from the taste profile and offer to play it. The current playlist is replaced.",
			GroupID: "playlist",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return s.proposePlaylist(cmd.Context(), 0)
			},
		},
		&cobra.Command{
			Use:     "playlist_taste_seed <songid>",
			Short:   "Generate and play a taste profile playlist seeded by a song",
			GroupID: "playlist",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return s.proposePlaylist(cmd.Context(), id)
			},
		},
		&cobra.Command{
			Use:     "play_favorite",
			Short:   "Mark the current song as a favorite in the taste profile",
			GroupID: "play",
			Args:    cobra.NoArgs,
			RunE:    s.runPlayFavorite,
		},
		&cobra.Command{
			Use:     "play_skip",
			Short:   "Skip the current song and record the skip",
			GroupID: "play",
			Args:    cobra.NoArgs,
			RunE:    s.runPlaySkip,
		},
		&cobra.Command{
			Use:     "echonest_sync",
			Short:   "Send playcount and rating changes to the taste profile",
			GroupID: "echonest",
			Args:    cobra.NoArgs,
			RunE:    s.runEchonestSync,
		},
		&cobra.Command{
			Use:     "echonest_info",
			Short:   "Display the taste profile",
			GroupID: "echonest",
			Args:    cobra.NoArgs,
			RunE:    s.runEchonestInfo,
		},
		&cobra.Command{
			Use:     "echonest_read <songid>",
			Short:   "Display the taste profile data for a song",
			GroupID: "echonest",
			Args:    cobra.ExactArgs(1),
			RunE:    s.runEchonestRead,
		},
		&cobra.Command{
			Use:     "echonest_delete",
			Short:   "Delete the taste profile",
			GroupID: "echonest",
			Args:    cobra.NoArgs,
			RunE:    s.runEchonestDelete,
		},
	)
}

// proposePlaylist asks the profile for a playlist, optionally seeded, until
// the user plays it or cancels.
func (s *Shell) proposePlaylist(ctx context.Context, seed int) error {
	client, id, err := s.sess.RequireProfile(ctx)
	if err != nil {
		return err
	}
	lib, err := s.library(ctx)
	if err != nil {
		return err
	}

	for {
		ids, err := client.StaticPlaylist(ctx, id, seed)
		if err != nil {
			return err
		}
		renderSongIDs(s.out, lib, ids)

		action, err := s.prompt.PromptPlaylistAction()
		if err != nil {
			return err
		}
		switch action {
		case wizard.ActionRegenerate:
			continue
		case wizard.ActionPlay:
			return s.playSongs(ctx, ids)
		default:
			fmt.Fprintln(s.out)
			return nil
		}
	}
}

// currentTrack returns the song on the audio player.
func (s *Shell) currentTrack(ctx context.Context) (*core.Track, error) {
	state, err := s.sess.Player.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.HasTrack() {
		return nil, kerrors.ErrNotPlaying
	}
	return state.Track, nil
}

func (s *Shell) runPlayFavorite(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	t, err := s.currentTrack(ctx)
	if err != nil {
		return err
	}
	client, id, err := s.sess.RequireProfile(ctx)
	if err != nil {
		return err
	}
	if err := client.Favorite(ctx, id, t.ID); err != nil {
		return err
	}
	s.notify(ctx, "Favorite", t.Title)
	s.done(fmt.Sprintf("\"%s\" by %s [%d] added to your favorites", t.Title, t.Artist, t.ID))
	return nil
}

// notify shows a toast on the Kodi screen. Failures only get logged.
func (s *Shell) notify(ctx context.Context, title, message string) {
	if err := s.sess.Kodi.ShowNotification(ctx, title, message); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("notification not shown")
	}
}

func (s *Shell) runPlaySkip(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	t, err := s.currentTrack(ctx)
	if err != nil {
		return err
	}
	client, id, err := s.sess.RequireProfile(ctx)
	if err != nil {
		return err
	}
	if err := s.sess.Player.Next(ctx); err != nil {
		return err
	}
	if err := client.Skip(ctx, id, t.ID); err != nil {
		return err
	}
	s.notify(ctx, "Skipped", t.Title)
	if !s.json {
		fmt.Fprintf(s.out, "\nYou just have skipped the song \"%s\" by %s [%d].\n\n", t.Title, t.Artist, t.ID)
	}
	return nil
}

func (s *Shell) runEchonestSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	lib, err := s.library(ctx)
	if err != nil {
		return err
	}

	p := components.NewProgress(s.progressOut())
	s.sess.Engine.SetProgress(func(done, total int) { p.Update("push", done, total) })
	defer s.sess.Engine.SetProgress(nil)

	result, err := s.sess.Engine.Push(ctx, lib)
	p.Done()
	if err != nil {
		return err
	}

	report := result.Data
	if err := s.emit(report, func(w io.Writer) {
		kind := "delta"
		if report.Full {
			kind = "full"
		}
		fmt.Fprintf(w, "\n%s sync of %s songs in %d batch(es): %s sent",
			kind,
			humanize.Comma(int64(report.Delta)),
			report.Batches,
			humanize.Comma(int64(report.Synced)))
		if report.Failed > 0 {
			fmt.Fprint(w, ", ", styles.Failure.Render(fmt.Sprintf("%s failed", humanize.Comma(int64(report.Failed)))))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}); err != nil {
		return err
	}

	if result.HasErrors() {
		return kerrors.WithSuggestion(
			fmt.Errorf("%d of %d batches failed: %s", report.FailedBatches, report.Batches, result.ErrorSummary()),
			"Failed songs stay pending; run echonest_sync again later",
		)
	}
	return nil
}

func (s *Shell) runEchonestInfo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, id, err := s.sess.RequireProfile(ctx)
	if err != nil {
		return err
	}
	profile, err := client.ProfileInfo(ctx, id)
	if err != nil {
		return err
	}
	return s.emit(profile, func(w io.Writer) { renderProfile(w, profile) })
}

func (s *Shell) runEchonestRead(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	songID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, id, err := s.sess.RequireProfile(ctx)
	if err != nil {
		return err
	}
	item, err := client.Read(ctx, id, songID)
	if err != nil {
		return err
	}
	return s.emit(item, func(w io.Writer) { renderCatalogItem(w, item) })
}

func (s *Shell) runEchonestDelete(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if _, _, err := s.sess.RequireProfile(ctx); err != nil {
		return err
	}
	ok, err := s.prompt.ConfirmDeleteProfile(s.sess.Profile.Name())
	if err != nil {
		return err
	}
	if !ok {
		s.done("Taste profile kept")
		return nil
	}
	id, err := s.sess.DeleteProfile(ctx)
	if err != nil {
		return err
	}
	s.done(fmt.Sprintf("Taste profile %s deleted", id))
	return nil
}
