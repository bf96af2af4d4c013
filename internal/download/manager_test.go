package download

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bogem/id3v2"

	"github.com/handiism/spotify-dl/internal/audio"
	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/fetch"
	"github.com/handiism/spotify-dl/internal/model"
	"github.com/handiism/spotify-dl/internal/youtube"
)

type fakeProvider struct {
	collection *model.Collection
	err        error
	calls      int
}

func (f *fakeProvider) Resolve(_ context.Context, _ string) (*model.Collection, error) {
	f.calls++
	return f.collection, f.err
}

type fakeMatcher struct {
	noMatch  map[string]bool
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeMatcher) Match(_ context.Context, track model.TrackMetadata) (youtube.Candidate, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	if f.noMatch[track.Title] {
		return youtube.Candidate{}, model.ErrNoMatch
	}
	id := strings.ReplaceAll(track.Title, " ", "")
	return youtube.Candidate{ID: id, URL: youtube.WatchURL(id)}, nil
}

type fakeDownloader struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (f *fakeDownloader) Download(_ context.Context, url, outputTemplate string) error {
	f.calls.Add(1)
	if f.fail[url] {
		return errors.New("exit status 1")
	}
	path := strings.Replace(outputTemplate, "%(ext)s", "mp3", 1)
	return os.WriteFile(path, []byte("mpeg frames"), 0644)
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []model.Result
}

func (f *fakeRecorder) Record(_ context.Context, _ string, r model.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}

type fakeAssets struct {
	data []byte
	err  error
}

func (f *fakeAssets) DownloadBytes(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

func readTags(path string) (model.TrackMetadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return model.TrackMetadata{}, err
	}
	defer tag.Close()
	return model.TrackMetadata{Title: tag.Title(), Artist: tag.Artist(), Album: tag.Album()}, nil
}

type harness struct {
	provider   *fakeProvider
	matcher    *fakeMatcher
	downloader *fakeDownloader
	deps       Deps
	settings   *config.Settings
}

func newHarness(collection *model.Collection) *harness {
	h := &harness{
		provider:   &fakeProvider{collection: collection},
		matcher:    &fakeMatcher{},
		downloader: &fakeDownloader{},
		settings:   config.DefaultSettings(),
	}
	h.deps = Deps{
		Provider: h.provider,
		Matcher:  h.matcher,
		Fetcher:  fetch.NewFetcher(h.downloader),
		Tagger:   audio.NewTagger(true),
	}
	return h
}

// run executes Process while draining events, and returns the events.
func (h *harness) run(t *testing.T, locator, dir string) (model.Summary, []ProgressEvent, error) {
	t.Helper()

	events := make(chan ProgressEvent)
	var got []ProgressEvent
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range events {
			got = append(got, e)
		}
	}()

	summary, err := NewManager(h.settings, h.deps, events).Process(context.Background(), locator, dir)
	close(events)
	<-done
	return summary, got, err
}

func hasMessage(events []ProgressEvent, substr string) bool {
	for _, e := range events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func single(title, artist, album string) *model.Collection {
	return &model.Collection{
		Kind:   model.KindTrack,
		Name:   model.SingleSongsName,
		Tracks: []model.TrackMetadata{{Title: title, Artist: artist, Album: album}},
	}
}

func TestProcess_SingleTrack(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(single("Song", "Artist", "Album"))

	summary, events, err := h.run(t, "https://open.spotify.com/track/abc", dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	path := filepath.Join(dir, "Song - Artist.mp3")
	tags, err := readTags(path)
	if err != nil {
		t.Fatalf("readTags(%s) failed: %v", path, err)
	}
	want := model.TrackMetadata{Title: "Song", Artist: "Artist", Album: "Album"}
	if tags != want {
		t.Errorf("tags = %+v, want %+v", tags, want)
	}

	if summary.Total != 1 || summary.Downloaded != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !hasMessage(events, "Detected a single song") {
		t.Error("missing detection message")
	}
	if !hasMessage(events, "Downloaded: "+path) || hasMessage(events, "File already exists") {
		t.Error("status message does not follow the fetch result")
	}
	if !hasMessage(events, "Download complete! Files saved in: "+dir) {
		t.Error("missing completion message")
	}
}

func TestProcess_PlaylistWithMissingMatch(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(&model.Collection{
		Kind: model.KindPlaylist,
		Name: "Mix",
		Tracks: []model.TrackMetadata{
			{Title: "Found", Artist: "A", Album: "X"},
			{Title: "Missing", Artist: "B", Album: "Y"},
		},
	})
	h.matcher.noMatch = map[string]bool{"Missing": true}

	summary, events, err := h.run(t, "https://open.spotify.com/playlist/p", dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "Found - A.mp3" {
		t.Errorf("dir entries = %v, want only Found - A.mp3", entries)
	}
	if summary.Downloaded != 1 || summary.NotFound != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !hasMessage(events, "No YouTube video found for Missing by B") {
		t.Error("missing not-found message")
	}
	done := 0
	for _, e := range events {
		if e.Done {
			done++
		}
	}
	if done != 2 {
		t.Errorf("got %d job-done events, want 2", done)
	}
	if !hasMessage(events, "Download complete!") {
		t.Error("run did not report completion")
	}
}

func TestProcess_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Song - Artist.mp3")
	original := []byte("existing audio")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	h := newHarness(single("Song", "Artist", "Album"))
	summary, events, err := h.run(t, "spotify:track:abc", dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if n := h.downloader.calls.Load(); n != 0 {
		t.Errorf("downloader called %d times, want 0", n)
	}
	if summary.Existing != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !hasMessage(events, "File already exists: "+path) {
		t.Error("missing skip message")
	}

	// Tagging still ran, and the original bytes follow the new tag.
	tags, err := readTags(path)
	if err != nil || tags.Title != "Song" {
		t.Errorf("tags = %+v, %v", tags, err)
	}
	data, _ := os.ReadFile(path)
	if !bytes.HasSuffix(data, original) {
		t.Error("existing audio content changed")
	}
}

func TestProcess_InvalidLocator(t *testing.T) {
	h := newHarness(single("Song", "Artist", "Album"))

	_, events, err := h.run(t, "https://example.com/album/1", t.TempDir())
	if !errors.Is(err, model.ErrInvalidLocator) {
		t.Fatalf("err = %v, want ErrInvalidLocator", err)
	}
	if h.provider.calls != 0 {
		t.Error("provider called for invalid locator")
	}
	if h.downloader.calls.Load() != 0 {
		t.Error("downloads started for invalid locator")
	}
	if !hasMessage(events, "Invalid Spotify URL") {
		t.Error("missing invalid-input report")
	}
}

func TestProcess_MetadataFailure(t *testing.T) {
	h := newHarness(nil)
	h.provider.err = model.ErrMetadataFetch

	_, _, err := h.run(t, "https://open.spotify.com/playlist/p", t.TempDir())
	if !errors.Is(err, model.ErrMetadataFetch) {
		t.Fatalf("err = %v, want ErrMetadataFetch", err)
	}
}

func TestProcess_EmptyCollection(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-created")
	h := newHarness(&model.Collection{Kind: model.KindPlaylist, Name: "Empty"})

	summary, events, err := h.run(t, "https://open.spotify.com/playlist/p", dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("summary.Total = %d, want 0", summary.Total)
	}
	if !hasMessage(events, "No tracks found.") {
		t.Error("missing nothing-to-do report")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("output dir created for empty collection")
	}
}

func TestStartDownloads_EmptyCollectionWithoutFolder(t *testing.T) {
	h := newHarness(&model.Collection{Kind: model.KindPlaylist, Name: "Empty"})

	summary, events, err := h.run(t, "https://open.spotify.com/playlist/p", "")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Total != 0 || summary.Collection != "Empty" {
		t.Errorf("summary = %+v", summary)
	}
	if !hasMessage(events, "No tracks found.") {
		t.Error("missing nothing-to-do report")
	}
	if hasMessage(events, "No folder selected.") {
		t.Error("empty collection reported as a missing folder")
	}
}

func TestProcess_NoFolder(t *testing.T) {
	h := newHarness(single("Song", "Artist", "Album"))

	_, _, err := h.run(t, "https://open.spotify.com/track/abc", "")
	if !errors.Is(err, model.ErrNoFolder) {
		t.Fatalf("err = %v, want ErrNoFolder", err)
	}
}

func TestProcess_FetchFailureContinues(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(&model.Collection{
		Kind: model.KindPlaylist,
		Name: "Mix",
		Tracks: []model.TrackMetadata{
			{Title: "Broken", Artist: "A"},
			{Title: "Fine", Artist: "B"},
		},
	})
	h.downloader.fail = map[string]bool{youtube.WatchURL("Broken"): true}

	summary, events, err := h.run(t, "https://open.spotify.com/playlist/p", dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.FetchFailed != 1 || summary.Downloaded != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !hasMessage(events, "Error downloading Broken - A") {
		t.Error("missing fetch failure message")
	}
}

func TestProcess_BoundedConcurrency(t *testing.T) {
	tracks := make([]model.TrackMetadata, 9)
	for i := range tracks {
		tracks[i] = model.TrackMetadata{Title: "T" + string(rune('a'+i)), Artist: "A"}
	}
	h := newHarness(&model.Collection{Kind: model.KindPlaylist, Name: "Big", Tracks: tracks})
	h.matcher.delay = 20 * time.Millisecond

	summary, _, err := h.run(t, "https://open.spotify.com/playlist/p", t.TempDir())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Downloaded != 9 {
		t.Errorf("Downloaded = %d, want 9", summary.Downloaded)
	}
	if peak := h.matcher.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestProcess_PlaylistCoverAndGrouping(t *testing.T) {
	root := t.TempDir()
	h := newHarness(&model.Collection{
		Kind:     model.KindPlaylist,
		Name:     "Road: Trip",
		ImageURL: "https://i.scdn.co/image/cover",
		Tracks: []model.TrackMetadata{
			{Title: "One", Artist: "A"},
			{Title: "Two", Artist: "B"},
			{Title: "Gone", Artist: "C"},
		},
	})
	h.matcher.noMatch = map[string]bool{"Gone": true}
	h.settings.GroupByCollection = true
	h.settings.CreatePlaylist = true
	h.settings.SaveCoverArt = true
	h.settings.CoverArtMaxSize = 32
	h.deps.Assets = &fakeAssets{data: testPNG(t, 64, 64)}

	summary, _, err := h.run(t, "https://open.spotify.com/playlist/p", root)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	dir := filepath.Join(root, "Road Trip")
	if summary.Dir != dir {
		t.Errorf("summary.Dir = %q, want %q", summary.Dir, dir)
	}

	playlist, err := os.ReadFile(filepath.Join(dir, "Road Trip.m3u"))
	if err != nil {
		t.Fatalf("playlist not written: %v", err)
	}
	want := "#EXTM3U\n#EXTINF:-1,A - One\nOne - A.mp3\n#EXTINF:-1,B - Two\nTwo - B.mp3\n"
	if string(playlist) != want {
		t.Errorf("playlist = %q, want %q", playlist, want)
	}

	cover, err := os.ReadFile(filepath.Join(dir, CoverFileName))
	if err != nil {
		t.Fatalf("cover not written: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(cover))
	if err != nil || format != "jpeg" || cfg.Width != 32 {
		t.Errorf("cover = %s %dx%d, %v", format, cfg.Width, cfg.Height, err)
	}
}

func TestProcess_RecordsHistory(t *testing.T) {
	h := newHarness(&model.Collection{
		Kind: model.KindPlaylist,
		Name: "Mix",
		Tracks: []model.TrackMetadata{
			{Title: "One", Artist: "A"},
			{Title: "Two", Artist: "B"},
		},
	})
	h.matcher.noMatch = map[string]bool{"Two": true}
	recorder := &fakeRecorder{}
	h.deps.History = recorder

	if _, _, err := h.run(t, "https://open.spotify.com/playlist/p", t.TempDir()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(recorder.results) != 2 {
		t.Fatalf("recorded %d results, want 2", len(recorder.results))
	}
	outcomes := map[model.Outcome]bool{}
	for _, r := range recorder.results {
		outcomes[r.Outcome] = true
		if r.Job.ID == "" {
			t.Error("result without job ID")
		}
	}
	if !outcomes[model.OutcomeDownloaded] || !outcomes[model.OutcomeNotFound] {
		t.Errorf("outcomes = %v", outcomes)
	}
}

func TestStartDownloads_NotInitialized(t *testing.T) {
	m := NewManager(nil, Deps{}, nil)
	if _, err := m.StartDownloads(context.Background(), t.TempDir()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
