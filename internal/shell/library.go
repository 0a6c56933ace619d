package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/library"
	"github.com/tessro/kodictl/internal/tui"
	"github.com/tessro/kodictl/internal/tui/components"
	"github.com/tessro/kodictl/internal/tui/styles"
)

func (s *Shell) addLibraryCommands(root *cobra.Command) {
	root.AddCommand(
		&cobra.Command{
			Use:     "albums_random",
			Short:   "Display a random selection of albums",
			GroupID: "albums",
			Args:    cobra.NoArgs,
			RunE:    s.runAlbumsRandom,
		},
		&cobra.Command{
			Use:     "albums_page [page]",
			Short:   "Display a page of the albums library, a random one without argument",
			GroupID: "albums",
			Args:    cobra.MaximumNArgs(1),
			RunE:    s.runAlbumsPage,
		},
		&cobra.Command{
			Use:     "albums_recent",
			Short:   "Display recently added albums",
			GroupID: "albums",
			Args:    cobra.NoArgs,
			RunE:    s.runAlbumsRecent,
		},
		&cobra.Command{
			Use:     "albums_search <text>",
			Short:   "List albums containing the text in the title or artist",
			GroupID: "albums",
			Args:    cobra.MinimumNArgs(1),
			RunE:    s.runAlbumsSearch,
		},
		&cobra.Command{
			Use:     "songs_page [page]",
			Short:   "Display a page of the songs library, a random one without argument",
			GroupID: "songs",
			Args:    cobra.MaximumNArgs(1),
			RunE:    s.runSongsPage,
		},
		s.songsDisplayCommand(),
		&cobra.Command{
			Use:     "songs_search <text>",
			Short:   "List songs containing the text in the title or artist",
			GroupID: "songs",
			Args:    cobra.MinimumNArgs(1),
			RunE:    s.runSongsSearch,
		},
		&cobra.Command{
			Use:     "songs_sync",
			Short:   "Pull playcount and rating from the Kodi server",
			GroupID: "songs",
			Args:    cobra.NoArgs,
			RunE:    s.runSongsSync,
		},
		&cobra.Command{
			Use:     "library_info",
			Short:   "Show the local library snapshot",
			GroupID: "library",
			Args:    cobra.NoArgs,
			RunE:    s.runLibraryInfo,
		},
		&cobra.Command{
			Use:     "library_refresh",
			Short:   "Download the whole library from the server again",
			GroupID: "library",
			Args:    cobra.NoArgs,
			RunE:    s.runLibraryRefresh,
		},
		&cobra.Command{
			Use:     "browse",
			Short:   "Filter the songs interactively and queue them",
			GroupID: "library",
			Args:    cobra.NoArgs,
			RunE:    s.runBrowse,
		},
	)
}

// library returns the cached library, loading it on first use.
func (s *Shell) library(ctx context.Context) (*core.Library, error) {
	if lib := s.sess.Library(); lib != nil {
		return lib, nil
	}
	if err := s.loadLibrary(ctx); err != nil {
		return nil, err
	}
	return s.sess.RequireLibrary()
}

func (s *Shell) loadLibrary(ctx context.Context) error {
	if s.sess.Library() != nil {
		return nil
	}
	defer s.trackIngest()()
	return s.sess.LoadLibrary(ctx)
}

// trackIngest routes library ingestion progress to a progress bar until the
// returned func is called.
func (s *Shell) trackIngest() func() {
	p := components.NewProgress(s.progressOut())
	s.sess.Manager.SetProgress(func(stage string, done, total int) {
		p.Update(stage, done, total)
	})
	return func() {
		p.Done()
		s.sess.Manager.SetProgress(nil)
	}
}

// progressOut hides progress output in json mode.
func (s *Shell) progressOut() io.Writer {
	if s.json {
		return io.Discard
	}
	return s.out
}

// parsePage reads an optional 1-based page number. Without one a random
// page in [1, pages] is chosen.
func parsePage(args []string, pages int) (int, error) {
	if len(args) == 0 {
		if pages < 1 {
			return 1, nil
		}
		return rand.IntN(pages) + 1, nil
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive number, got %q", kerrors.ErrInvalidArgument, args[0])
	}
	return page, nil
}

// parseID reads a numeric library id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: id must be a number, got %q", kerrors.ErrInvalidArgument, arg)
	}
	return id, nil
}

func (s *Shell) runAlbumsRandom(cmd *cobra.Command, _ []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	albums := lib.RandomAlbums(s.pageLines)
	return s.emit(albums, func(w io.Writer) { renderAlbums(w, albums, lib.AlbumCount()) })
}

func (s *Shell) runAlbumsPage(cmd *cobra.Command, args []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	pages := core.PageCount(lib.AlbumCount(), s.pageLines)
	page, err := parsePage(args, pages)
	if err != nil {
		return err
	}
	albums := lib.AlbumPage(page, s.pageLines)
	return s.emit(albums, func(w io.Writer) {
		renderAlbums(w, albums, lib.AlbumCount())
		fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("Page %d of %d", page, pages)))
	})
}

func (s *Shell) runAlbumsRecent(cmd *cobra.Command, _ []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	albums := lib.RecentAlbums(s.pageLines)
	return s.emit(albums, func(w io.Writer) { renderAlbums(w, albums, lib.AlbumCount()) })
}

func (s *Shell) runAlbumsSearch(cmd *cobra.Command, args []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	albums := lib.SearchAlbums(strings.Join(args, " "))
	return s.emit(albums, func(w io.Writer) { renderAlbums(w, albums, lib.AlbumCount()) })
}

func (s *Shell) runSongsPage(cmd *cobra.Command, args []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	pages := core.PageCount(lib.TrackCount(), s.pageLines)
	page, err := parsePage(args, pages)
	if err != nil {
		return err
	}
	tracks := lib.TrackPage(page, s.pageLines)
	return s.emit(tracks, func(w io.Writer) {
		renderSongs(w, tracks)
		fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("Page %d of %d", page, pages)))
	})
}

func (s *Shell) songsDisplayCommand() *cobra.Command {
	var copyID bool
	cmd := &cobra.Command{
		Use:     "songs_display <id>",
		Short:   "Display all information about a song",
		GroupID: "songs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := s.library(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, ok := lib.Track(id)
			if !ok {
				return fmt.Errorf("%w: %d", kerrors.ErrTrackNotFound, id)
			}
			if err := s.emit(t, func(w io.Writer) { renderSongDetails(w, t) }); err != nil {
				return err
			}
			if copyID {
				return s.copyMusicBrainzID(t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyID, "copy", false, "Copy the MusicBrainz id to the clipboard")
	return cmd
}

func (s *Shell) copyMusicBrainzID(t *core.Track) error {
	if t.MusicBrainzID == "" {
		return fmt.Errorf("song %d has no MusicBrainz id", t.ID)
	}
	if err := clipboard.WriteAll(t.MusicBrainzID); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	if !s.json {
		fmt.Fprintln(s.out, styles.Muted.Render("MusicBrainz id copied to the clipboard"))
	}
	return nil
}

func (s *Shell) runSongsSearch(cmd *cobra.Command, args []string) error {
	lib, err := s.library(cmd.Context())
	if err != nil {
		return err
	}
	tracks := lib.SearchTracks(strings.Join(args, " "))
	return s.emit(tracks, func(w io.Writer) { renderSongs(w, tracks) })
}

func (s *Shell) runSongsSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	lib, err := s.library(ctx)
	if err != nil {
		return err
	}

	p := components.NewProgress(s.progressOut())
	s.sess.Engine.SetProgress(func(done, total int) { p.Update("songs", done, total) })
	defer s.sess.Engine.SetProgress(nil)

	report, err := s.sess.Engine.Pull(ctx, lib)
	p.Done()
	if err != nil {
		return err
	}
	return s.emit(report, func(w io.Writer) {
		fmt.Fprintf(w, "\n%s ratings and %s playcounts updated\n",
			humanize.Comma(int64(report.RatingUpdated)),
			humanize.Comma(int64(report.PlaycountUpdated)))
		if report.Unknown > 0 {
			fmt.Fprintln(w, styles.Paused.Render(fmt.Sprintf(
				"%d songs on the server are not in the local library; run library_refresh", report.Unknown)))
		}
		fmt.Fprintln(w)
	})
}

type libraryInfo struct {
	Snapshot *library.SnapshotInfo `json:"snapshot"`
	Songs    int                   `json:"songs"`
	Albums   int                   `json:"albums"`
	Pending  int                   `json:"pending_sync"`
}

func (s *Shell) runLibraryInfo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	lib, err := s.library(ctx)
	if err != nil {
		return err
	}
	snap, err := s.sess.Manager.Store().Info(ctx)
	if err != nil && !errors.Is(err, kerrors.ErrSnapshotNotFound) {
		return err
	}

	info := libraryInfo{
		Snapshot: snap,
		Songs:    lib.TrackCount(),
		Albums:   lib.AlbumCount(),
		Pending:  len(lib.DirtyTracks()),
	}
	return s.emit(info, func(w io.Writer) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Songs:        %s\n", humanize.Comma(int64(info.Songs)))
		fmt.Fprintf(w, "Albums:       %s\n", humanize.Comma(int64(info.Albums)))
		fmt.Fprintf(w, "Pending sync: %s\n", humanize.Comma(int64(info.Pending)))
		if snap != nil {
			fmt.Fprintf(w, "Backend:      %s (%s)\n", snap.Backend, snap.Location)
			if snap.Exists {
				fmt.Fprintf(w, "Saved:        %s, %s\n", humanize.Time(snap.SavedAt), humanize.Bytes(uint64(snap.Bytes)))
			} else {
				fmt.Fprintln(w, "Saved:        never")
			}
		}
		fmt.Fprintln(w)
	})
}

func (s *Shell) runLibraryRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	done := s.trackIngest()
	err := s.sess.RefreshLibrary(ctx)
	done()
	if err != nil {
		return err
	}
	lib, _ := s.sess.RequireLibrary()
	return s.emit(map[string]int{"songs": lib.TrackCount(), "albums": lib.AlbumCount()}, func(w io.Writer) {
		fmt.Fprintf(w, "\nLibrary refreshed: %s songs, %s albums\n\n",
			humanize.Comma(int64(lib.TrackCount())),
			humanize.Comma(int64(lib.AlbumCount())))
	})
}

func (s *Shell) runBrowse(cmd *cobra.Command, _ []string) error {
	if !s.interactive {
		return errors.New("browse needs an interactive terminal")
	}
	queued, err := s.browse(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d song(s) queued\n", len(queued))
	return nil
}

func (s *Shell) runBrowser(ctx context.Context) ([]int, error) {
	lib, err := s.library(ctx)
	if err != nil {
		return nil, err
	}
	return tui.Run(lib, s.sess.Player)
}
