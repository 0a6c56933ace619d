package delta

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/echonest"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/library"
)

// statsReader serves rating/playcount from a map keyed by position.
type statsReader struct {
	stats []library.Stats
	calls int
}

func (r *statsReader) SongCount(ctx context.Context) (int, error) { return len(r.stats), nil }
func (r *statsReader) Songs(ctx context.Context, w core.Window) ([]*core.Track, error) {
	return nil, nil
}
func (r *statsReader) AlbumCount(ctx context.Context) (int, error) { return 0, nil }
func (r *statsReader) Albums(ctx context.Context, w core.Window) ([]*core.Album, error) {
	return nil, nil
}

func (r *statsReader) SongStats(ctx context.Context, w core.Window) ([]library.Stats, error) {
	r.calls++
	end := min(w.End, len(r.stats))
	if w.Start >= end {
		return nil, nil
	}
	return r.stats[w.Start:end], nil
}

type countingSaver struct{ saves int }

func (s *countingSaver) Save(ctx context.Context, lib *core.Library) error {
	s.saves++
	return nil
}

type fakeProfile struct {
	total   int
	batches [][]echonest.UpdateItem
	// failAt holds 1-based batch numbers to reject.
	failAt map[int]bool
}

func (p *fakeProfile) ProfileInfo(ctx context.Context, id string) (*echonest.Profile, error) {
	return &echonest.Profile{ID: id, Total: p.total}, nil
}

func (p *fakeProfile) Update(ctx context.Context, id string, items []echonest.UpdateItem) (string, error) {
	p.batches = append(p.batches, items)
	if p.failAt[len(p.batches)] {
		return "", &echonest.APIError{Endpoint: "tasteprofile/update", HTTPStatus: 500}
	}
	return fmt.Sprintf("ticket-%d", len(p.batches)), nil
}

type staticResolver string

func (r staticResolver) ID(ctx context.Context) (string, error) { return string(r), nil }
func (r staticResolver) Invalidate() {}

// profileService is an in-memory taste profile service keyed by id. It
// serves both the engine and an echonest.Resolver.
type profileService struct {
	profiles map[string]*echonest.Profile
	creates  int
	updates  map[string]int
}

func newProfileService() *profileService {
	return &profileService{profiles: map[string]*echonest.Profile{}, updates: map[string]int{}}
}

func (s *profileService) ProfileByName(ctx context.Context, name string) (*echonest.Profile, error) {
	for _, p := range s.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, kerrors.ErrProfileNotFound
}

func (s *profileService) CreateProfile(ctx context.Context, name string) (string, error) {
	s.creates++
	id := fmt.Sprintf("CA%d", s.creates)
	s.profiles[id] = &echonest.Profile{ID: id, Name: name}
	return id, nil
}

func (s *profileService) ProfileInfo(ctx context.Context, id string) (*echonest.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, kerrors.ErrProfileNotFound)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, id string, items []echonest.UpdateItem) (string, error) {
	p, ok := s.profiles[id]
	if !ok {
		return "", fmt.Errorf("profile %s: %w", id, kerrors.ErrProfileNotFound)
	}
	p.Total += len(items)
	s.updates[id] += len(items)
	return "ticket", nil
}

func buildLibrary(n int) *core.Library {
	lib := core.NewLibrary()
	for i := 1; i <= n; i++ {
		lib.PutTrack(&core.Track{
			ID:            i,
			MusicBrainzID: fmt.Sprintf("mb-%d", i),
			Rating:        i % 6,
			Playcount:     i,
		})
	}
	return lib
}

func TestPullUpdatesAndIsIdempotent(t *testing.T) {
	lib := buildLibrary(25)
	reader := &statsReader{}
	for _, tr := range lib.Tracks() {
		reader.stats = append(reader.stats, library.Stats{ID: tr.ID, Rating: tr.Rating, Playcount: tr.Playcount})
	}
	reader.stats[3].Rating = 5
	reader.stats[3].Playcount = 100
	reader.stats[21].Playcount = 50
	reader.stats = append(reader.stats, library.Stats{ID: 999, Rating: 1})

	saver := &countingSaver{}
	e := NewEngine(reader, saver, nil, nil, Options{})

	report, err := e.Pull(context.Background(), lib)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if report.RatingUpdated != 1 || report.PlaycountUpdated != 2 {
		t.Errorf("report = %+v, want 1 rating and 2 playcount updates", report)
	}
	if reader.calls != 2 {
		t.Errorf("stat windows = %d, want 2", reader.calls)
	}
	if tr, _ := lib.Track(4); tr.Rating != 5 || tr.Playcount != 100 {
		t.Errorf("track 4 = %+v", tr)
	}
	if saver.saves != 1 {
		t.Errorf("saves = %d, want 1", saver.saves)
	}

	report, err = e.Pull(context.Background(), lib)
	if err != nil {
		t.Fatalf("second Pull() error = %v", err)
	}
	if report.RatingUpdated != 0 || report.PlaycountUpdated != 0 {
		t.Errorf("second pull report = %+v, want no updates", report)
	}
}

func TestPushFirstSyncIsFull(t *testing.T) {
	lib := buildLibrary(45)
	for _, tr := range lib.Tracks() {
		tr.MarkSynced()
	}

	profile := &fakeProfile{total: 0}
	saver := &countingSaver{}
	e := NewEngine(&statsReader{}, saver, profile, staticResolver("CA1"), Options{})

	res, err := e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected batch errors: %v", res.Err())
	}
	if !res.Data.Full || res.Data.Delta != 45 {
		t.Errorf("report = %+v, want full sync of 45", res.Data)
	}
	if len(profile.batches) != 2 || len(profile.batches[0]) != 30 || len(profile.batches[1]) != 15 {
		t.Errorf("batch sizes wrong: %d batches", len(profile.batches))
	}
	if saver.saves != 1 {
		t.Errorf("saves = %d, want 1", saver.saves)
	}
}

func TestPushSendsOnlyDirtyTracks(t *testing.T) {
	lib := buildLibrary(100)
	for _, tr := range lib.Tracks() {
		tr.MarkSynced()
	}
	for id := 1; id <= 45; id++ {
		tr, _ := lib.Track(id * 2)
		tr.Playcount++
	}

	profile := &fakeProfile{total: 100}
	e := NewEngine(&statsReader{}, &countingSaver{}, profile, staticResolver("CA1"), Options{})

	res, err := e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if res.Data.Full {
		t.Error("non-empty profile should get a delta sync")
	}
	if res.Data.Delta != 45 || res.Data.Batches != 2 {
		t.Errorf("report = %+v, want 45 songs in 2 batches", res.Data)
	}

	sent := map[string]bool{}
	for _, b := range profile.batches {
		for _, it := range b {
			sent[it.Item.ItemID] = true
		}
	}
	if len(sent) != 45 {
		t.Errorf("sent %d distinct songs, want 45", len(sent))
	}
	if len(lib.DirtyTracks()) != 0 {
		t.Errorf("%d tracks still dirty after successful push", len(lib.DirtyTracks()))
	}
}

func TestPushRatingScale(t *testing.T) {
	lib := core.NewLibrary()
	lib.PutTrack(&core.Track{ID: 7, MusicBrainzID: "abc", Rating: 4, Playcount: 3})

	profile := &fakeProfile{}
	e := NewEngine(&statsReader{}, &countingSaver{}, profile, staticResolver("CA1"), Options{})
	if _, err := e.Push(context.Background(), lib); err != nil {
		t.Fatal(err)
	}

	item := profile.batches[0][0]
	if item.Action != "update" || item.Item.ItemID != "7" || item.Item.SongID != "musicbrainz:song:abc" ||
		item.Item.Rating != 8 || item.Item.PlayCount != 3 {
		t.Errorf("item = %+v", item)
	}
}

func TestPushFailedBatchStaysDirty(t *testing.T) {
	lib := buildLibrary(60)
	profile := &fakeProfile{failAt: map[int]bool{2: true}}
	saver := &countingSaver{}
	e := NewEngine(&statsReader{}, saver, profile, staticResolver("CA1"), Options{})

	res, err := e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if !res.HasErrors() || len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want one batch error", res.Errors)
	}
	if res.Data.Synced != 30 || res.Data.Failed != 30 {
		t.Errorf("report = %+v", res.Data)
	}
	dirty := lib.DirtyTracks()
	if len(dirty) != 30 || dirty[0].ID != 31 {
		t.Errorf("dirty = %d tracks starting at %d, want 30 from 31", len(dirty), dirty[0].ID)
	}
	if saver.saves != 1 {
		t.Error("snapshot must be saved after a partial failure")
	}
}

func TestPushBreakerFailsFast(t *testing.T) {
	lib := buildLibrary(30 * 6)
	profile := &fakeProfile{failAt: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}}
	e := NewEngine(&statsReader{}, &countingSaver{}, profile, staticResolver("CA1"), Options{})

	res, err := e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if len(profile.batches) != 3 {
		t.Errorf("requests sent = %d, want 3 before the breaker opens", len(profile.batches))
	}
	if len(res.Errors) != 6 || res.Data.FailedBatches != 6 {
		t.Errorf("errors = %d failed batches = %d, want 6", len(res.Errors), res.Data.FailedBatches)
	}
	if !errors.Is(res.Errors[5], gobreaker.ErrOpenState) {
		t.Errorf("last error = %v, want open breaker", res.Errors[5])
	}
}

func TestPushPacesBatches(t *testing.T) {
	lib := buildLibrary(3)
	profile := &fakeProfile{}
	e := NewEngine(&statsReader{}, &countingSaver{}, profile, staticResolver("CA1"), Options{
		BatchSize:     1,
		BatchInterval: 20 * time.Millisecond,
	})

	start := time.Now()
	if _, err := e.Push(context.Background(), lib); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("3 paced batches took %v, want at least 2 intervals", elapsed)
	}
}

func TestPushWithoutProfile(t *testing.T) {
	e := NewEngine(&statsReader{}, &countingSaver{}, nil, nil, Options{})
	if _, err := e.Push(context.Background(), buildLibrary(1)); err == nil {
		t.Error("expected error without a configured profile")
	}
}

func TestDeltaSet(t *testing.T) {
	lib := buildLibrary(10)
	for _, tr := range lib.Tracks() {
		tr.MarkSynced()
	}
	tr, _ := lib.Track(3)
	tr.Rating = 0
	tr.Shadow.Rating = 4

	if got := DeltaSet(lib, true); len(got) != 10 {
		t.Errorf("full delta = %d, want 10", len(got))
	}
	got := DeltaSet(lib, false)
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("delta = %v, want [3]", got)
	}
}

func TestBatches(t *testing.T) {
	batches := Batches(buildLibrary(45).Tracks(), 30, 2)
	if len(batches) != 2 || len(batches[0]) != 30 || len(batches[1]) != 15 {
		t.Errorf("batches = %d", len(batches))
	}
}

func TestPushRecreatesDeletedProfile(t *testing.T) {
	lib := buildLibrary(30)
	service := newProfileService()
	e := NewEngine(&statsReader{}, &countingSaver{}, service, echonest.NewResolver(service, "Kodi library"), Options{})

	res, err := e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("first Push() error = %v", err)
	}
	first := res.Data.ProfileID
	if !res.Data.Full || res.Data.Synced != 30 {
		t.Errorf("first push = %+v, want a full sync of 30 songs", res.Data)
	}

	delete(service.profiles, first)
	tr, _ := lib.Track(1)
	tr.Playcount++

	res, err = e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("Push() after deletion error = %v", err)
	}
	if res.Data.ProfileID == first {
		t.Errorf("profile id = %s, want a new profile", res.Data.ProfileID)
	}
	if !res.Data.Full || res.Data.Delta != 30 || res.Data.Synced != 30 {
		t.Errorf("push after deletion = %+v, want a full resync of 30 songs", res.Data)
	}
	if service.creates != 2 {
		t.Errorf("creates = %d, want 2", service.creates)
	}

	res, err = e.Push(context.Background(), lib)
	if err != nil {
		t.Fatalf("third Push() error = %v", err)
	}
	if res.Data.Full || res.Data.Delta != 0 || service.creates != 2 {
		t.Errorf("third push = %+v creates = %d, want an empty delta on the same profile", res.Data, service.creates)
	}
}

func TestPushProfileReadErrorIsFatal(t *testing.T) {
	e := NewEngine(&statsReader{}, &countingSaver{}, failingInfo{&fakeProfile{}}, staticResolver("CA1"), Options{})
	_, err := e.Push(context.Background(), buildLibrary(3))
	if err == nil || errors.Is(err, kerrors.ErrProfileNotFound) {
		t.Errorf("err = %v, want the read failure", err)
	}
}

type failingInfo struct{ *fakeProfile }

func (failingInfo) ProfileInfo(ctx context.Context, id string) (*echonest.Profile, error) {
	return nil, &echonest.APIError{Endpoint: "tasteprofile/profile", HTTPStatus: 500}
}
