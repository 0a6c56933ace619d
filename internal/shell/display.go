package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/echonest"
	"github.com/tessro/kodictl/internal/tui/styles"
)

// emit prints v as indented JSON in json mode, and calls text otherwise.
func (s *Shell) emit(v any, text func(w io.Writer)) error {
	if s.json {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(s.out)
	return nil
}

func yearSuffix(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%d)", year)
}

func albumLine(i int, a *core.Album) string {
	return fmt.Sprintf("%s %s %s %s%s %s",
		styles.Dim.Render(fmt.Sprintf("%02d.", i+1)),
		styles.Title.Render(a.Title),
		styles.Muted.Render("by"),
		a.Artist,
		styles.Muted.Render(yearSuffix(a.Year)),
		styles.ID.Render(fmt.Sprintf("[%d]", a.ID)))
}

func songLine(i int, t *core.Track) string {
	return fmt.Sprintf("%s %s %s %s%s %s",
		styles.Dim.Render(fmt.Sprintf("%02d.", i+1)),
		styles.Title.Render(t.Title),
		styles.Muted.Render("by"),
		t.Artist,
		styles.Muted.Render(yearSuffix(t.Year)),
		styles.ID.Render(fmt.Sprintf("[%d]", t.ID)))
}

// renderAlbums prints a numbered album list followed by the library total.
func renderAlbums(w io.Writer, albums []*core.Album, total int) {
	fmt.Fprintln(w)
	if len(albums) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No albums"))
	}
	for i, a := range albums {
		fmt.Fprintln(w, albumLine(i, a))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total number of albums: %d\n\n", total)
}

// renderSongs prints a numbered song list.
func renderSongs(w io.Writer, tracks []*core.Track) {
	fmt.Fprintln(w)
	if len(tracks) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No songs"))
	}
	for i, t := range tracks {
		fmt.Fprintln(w, songLine(i, t))
	}
	fmt.Fprintln(w)
}

// renderSongIDs prints songs by id, marking ids the local library lacks.
func renderSongIDs(w io.Writer, lib *core.Library, ids []int) {
	fmt.Fprintln(w)
	if len(ids) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No songs"))
	}
	for i, id := range ids {
		if t, ok := lib.Track(id); ok {
			fmt.Fprintln(w, songLine(i, t))
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n",
			styles.Dim.Render(fmt.Sprintf("%02d.", i+1)),
			styles.Muted.Render("song not in the local library"),
			styles.ID.Render(fmt.Sprintf("[%d]", id)))
	}
	fmt.Fprintln(w)
}

// renderSongDetails prints everything known about one song, including the
// values last sent to the taste profile.
func renderSongDetails(w io.Writer, t *core.Track) {
	label := styles.Label.Width(16)
	row := func(name, value string) {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, "   ", label.Render(name), value))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s %s%s\n",
		styles.Title.Render(t.Title),
		styles.Muted.Render("by"),
		t.Artist,
		styles.Muted.Render(yearSuffix(t.Year)))
	row("Album", t.Album)
	row("Playcount", fmt.Sprintf("%d (%d)", t.Playcount, t.Shadow.Playcount))
	row("Rating", fmt.Sprintf("%s %d (%d)", styles.Stars(t.Rating, core.MaxRating), t.Rating, t.Shadow.Rating))
	if len(t.Genres) > 0 {
		row("Genres", strings.Join(t.Genres, ", "))
	}
	mbid := t.MusicBrainzID
	if mbid == "" {
		mbid = styles.Muted.Render("none")
	}
	row("MusicBrainz ID", mbid)
	if t.Dirty() {
		row("Sync", styles.Paused.Render("pending"))
	}
	fmt.Fprintln(w)
}

func renderProfile(w io.Writer, p *echonest.Profile) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", styles.Title.Render(p.Name), styles.ID.Render("["+p.ID+"]"))
	fmt.Fprintf(w, "   Type:     %s\n", p.Type)
	fmt.Fprintf(w, "   Items:    %d\n", p.Total)
	fmt.Fprintf(w, "   Resolved: %d\n", p.Resolved)
	if n := len(p.PendingTickets); n > 0 {
		fmt.Fprintf(w, "   Pending:  %d update(s)\n", n)
	}
	fmt.Fprintln(w)
}

func renderCatalogItem(w io.Writer, item *echonest.CatalogItem) {
	fmt.Fprintln(w)
	title := item.SongName
	if title == "" {
		title = "item " + item.ItemID
	}
	fmt.Fprintf(w, "%s", styles.Title.Render(title))
	if item.ArtistName != "" {
		fmt.Fprintf(w, " %s %s", styles.Muted.Render("by"), item.ArtistName)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "   Play count: %d\n", item.PlayCount)
	fmt.Fprintf(w, "   Rating:     %d\n", item.Rating)
	fmt.Fprintf(w, "   Favorite:   %t\n", item.Favorite)
	fmt.Fprintf(w, "   Skips:      %d\n", item.SkipCount)
	if item.SongID != "" {
		fmt.Fprintf(w, "   Song id:    %s\n", item.SongID)
	}
	if item.LastModified != "" {
		fmt.Fprintf(w, "   Modified:   %s\n", item.LastModified)
	}
	if item.SongHotttnesss > 0 || item.ArtistFamiliarity > 0 {
		fmt.Fprintf(w, "   Hotttnesss: %.2f  Familiarity: %.2f\n", item.SongHotttnesss, item.ArtistFamiliarity)
	}
	fmt.Fprintln(w)
}
