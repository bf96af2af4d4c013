package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/spotify-dl/internal/audio"
	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/http"
	ioutils "github.com/handiism/spotify-dl/internal/io"
	"github.com/handiism/spotify-dl/internal/model"
	"github.com/handiism/spotify-dl/internal/spotify"
	"github.com/handiism/spotify-dl/internal/youtube"
)

// CoverFileName is the name of the saved playlist cover.
const CoverFileName = "cover.jpg"

// ErrNotInitialized is returned by StartDownloads before a successful
// Initialize.
var ErrNotInitialized = errors.New("download manager not initialized")

// Manager coordinates a run: one metadata lookup, then a bounded pool of
// per-track match, fetch and tag chains.
type Manager struct {
	settings     *config.Settings
	deps         Deps
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	locator    string
	collection *model.Collection

	events chan<- ProgressEvent
	mu     sync.RWMutex
}

// NewManager creates a new download Manager.
//
// Status events are sent on events, which may be nil. Sends block until the
// consumer receives or the run's context is cancelled, so the consumer must
// keep draining while a run is active.
func NewManager(settings *config.Settings, deps Deps, events chan<- ProgressEvent) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if deps.Assets == nil {
		deps.Assets = http.NewClient()
	}

	return &Manager{
		settings:     settings,
		deps:         deps,
		playlist:     settings.ToPlaylistCreator(),
		imageService: ioutils.NewImageService(),
		events:       events,
	}
}

// Initialize classifies the locator and fetches its metadata.
//
// Errors wrapping model.ErrInvalidLocator or model.ErrMetadataFetch are
// fatal for the run and are also reported as an error event.
func (m *Manager) Initialize(ctx context.Context, locator string) error {
	kind, err := spotify.Classify(locator)
	if err != nil {
		m.progress(ctx, ProgressEvent{Message: "Invalid Spotify URL.", Level: LevelError})
		return err
	}

	switch kind {
	case model.KindTrack:
		m.progress(ctx, ProgressEvent{Message: "Detected a single song", Level: LevelInfo})
	case model.KindPlaylist:
		m.progress(ctx, ProgressEvent{Message: "Detected a playlist", Level: LevelInfo})
	}

	collection, err := m.deps.Provider.Resolve(ctx, locator)
	if err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error fetching Spotify data: %v", err), Level: LevelError})
		return err
	}

	m.mu.Lock()
	m.locator = locator
	m.collection = collection
	m.mu.Unlock()

	m.progress(ctx, ProgressEvent{
		Message: fmt.Sprintf("Found %s: %s (%d tracks)", collection.Kind, collection.Name, len(collection.Tracks)),
		Level:   LevelVerbose,
	})
	return nil
}

// Collection returns the collection resolved by Initialize, or nil.
func (m *Manager) Collection() *model.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collection
}

// StartDownloads runs every track of the initialized collection into dir.
//
// Per-track failures never abort the run; they are counted in the returned
// Summary and reported as events. Only a missing folder or a directory that
// cannot be created is returned as an error.
func (m *Manager) StartDownloads(ctx context.Context, dir string) (model.Summary, error) {
	collection := m.Collection()
	if collection == nil {
		return model.Summary{}, ErrNotInitialized
	}
	// An empty collection never needs a folder.
	if len(collection.Tracks) == 0 {
		m.progress(ctx, ProgressEvent{Message: "No tracks found.", Level: LevelWarning})
		return model.Summary{Collection: collection.Name, Dir: dir}, nil
	}
	if dir == "" {
		m.progress(ctx, ProgressEvent{Message: "No folder selected.", Level: LevelError})
		return model.Summary{}, model.ErrNoFolder
	}

	if m.settings.GroupByCollection {
		dir = filepath.Join(dir, ioutils.SanitizeFileName(collection.Name))
	}

	summary := model.Summary{Collection: collection.Name, Dir: dir}

	if err := ioutils.EnsureDir(dir); err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return summary, fmt.Errorf("creating %s: %w", dir, err)
	}

	m.progress(ctx, ProgressEvent{
		Message: fmt.Sprintf("Downloading %d songs from '%s'...", len(collection.Tracks), collection.Name),
		Level:   LevelInfo,
	})

	results := m.runPool(ctx, collection, dir)
	for _, r := range results {
		summary.Add(*r)
	}

	if m.settings.SaveCoverArt && collection.ImageURL != "" {
		m.saveCover(ctx, collection, dir)
	}
	if m.settings.CreatePlaylist {
		m.writePlaylist(ctx, collection, dir, results)
	}

	m.progress(ctx, ProgressEvent{
		Message: fmt.Sprintf("Download complete! Files saved in: %s", dir),
		Level:   LevelSuccess,
	})
	slog.Info("run finished",
		"collection", collection.Name,
		"total", summary.Total,
		"downloaded", summary.Downloaded,
		"existing", summary.Existing,
		"not_found", summary.NotFound,
		"fetch_failed", summary.FetchFailed,
		"tag_failed", summary.TagFailed)

	return summary, nil
}

// Process runs Initialize and StartDownloads.
func (m *Manager) Process(ctx context.Context, locator, dir string) (model.Summary, error) {
	if err := m.Initialize(ctx, locator); err != nil {
		return model.Summary{}, err
	}
	return m.StartDownloads(ctx, dir)
}

// runPool processes every track with at most Concurrency() chains in flight.
// The returned results are in collection order. Tracks not started because
// ctx was cancelled are left out.
func (m *Manager) runPool(ctx context.Context, collection *model.Collection, dir string) []*model.Result {
	results := make([]*model.Result, len(collection.Tracks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.Concurrency())

	for i, track := range collection.Tracks {
		if gctx.Err() != nil {
			break
		}
		job := model.NewJob(i, track, dir)
		g.Go(func() error {
			r := m.processJob(gctx, job)
			results[job.Index] = &r
			return nil // Continue with other tracks
		})
	}

	_ = g.Wait()

	return lo.Filter(results, func(r *model.Result, _ int) bool { return r != nil })
}

// processJob runs match, fetch and tag for one track. Each failure ends the
// chain for this track only.
func (m *Manager) processJob(ctx context.Context, job model.Job) model.Result {
	result := m.runChain(ctx, job)

	if m.deps.History != nil {
		if err := m.deps.History.Record(ctx, m.locator, result); err != nil {
			slog.Warn("recording history failed", "job", job.ID, "err", err)
		}
	}
	return result
}

func (m *Manager) runChain(ctx context.Context, job model.Job) model.Result {
	track := job.Track
	result := model.Result{Job: job}

	m.progress(ctx, ProgressEvent{JobID: job.ID, Message: "Searching YouTube: " + youtube.BuildQuery(track), Level: LevelVerbose})

	match, err := m.deps.Matcher.Match(ctx, track)
	if err != nil {
		slog.Debug("no match", "job", job.ID, "err", err)
		m.progress(ctx, ProgressEvent{
			JobID:   job.ID,
			Message: fmt.Sprintf("No YouTube video found for %s by %s", track.Title, track.Artist),
			Level:   LevelWarning,
			Done:    true,
		})
		result.Outcome = model.OutcomeNotFound
		result.Err = err
		return result
	}
	result.MatchURL = match.URL
	m.progress(ctx, ProgressEvent{JobID: job.ID, Message: "Found: " + match.URL, Level: LevelVerbose})

	path, existed, err := m.deps.Fetcher.Fetch(ctx, match.URL, job)
	if err != nil {
		slog.Debug("fetch failed", "job", job.ID, "url", match.URL, "err", err)
		m.progress(ctx, ProgressEvent{
			JobID:   job.ID,
			Message: fmt.Sprintf("Error downloading %s: %v", track, err),
			Level:   LevelError,
			Done:    true,
		})
		result.Outcome = model.OutcomeFetchFailed
		result.Err = err
		return result
	}
	result.Path = path
	result.Outcome = model.OutcomeDownloaded
	if existed {
		result.Outcome = model.OutcomeExisting
		m.progress(ctx, ProgressEvent{
			JobID:   job.ID,
			Message: fmt.Sprintf("File already exists: %s, skipping download", path),
			Level:   LevelInfo,
		})
	} else {
		m.progress(ctx, ProgressEvent{JobID: job.ID, Message: "Downloaded: " + path, Level: LevelInfo})
	}

	if err := m.deps.Tagger.WriteTags(path, track); err != nil {
		slog.Debug("tag write failed", "job", job.ID, "path", path, "err", err)
		m.progress(ctx, ProgressEvent{
			JobID:   job.ID,
			Message: fmt.Sprintf("Error updating metadata for %s: %v", path, err),
			Level:   LevelWarning,
			Done:    true,
		})
		result.Outcome = model.OutcomeTagFailed
		result.Err = err
		return result
	}

	m.progress(ctx, ProgressEvent{JobID: job.ID, Message: "Metadata added: " + path, Level: LevelSuccess, Done: true})
	return result
}

func (m *Manager) saveCover(ctx context.Context, collection *model.Collection, dir string) {
	data, err := m.deps.Assets.DownloadBytes(ctx, collection.ImageURL)
	if err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error downloading cover art: %v", err), Level: LevelWarning})
		return
	}

	data, err = m.imageService.PrepareCover(ctx, data, m.settings.CoverArtMaxSize)
	if err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error converting cover art: %v", err), Level: LevelWarning})
		return
	}

	path := filepath.Join(dir, CoverFileName)
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error saving cover art: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ctx, ProgressEvent{Message: "Saved cover art: " + path, Level: LevelVerbose})
}

// writePlaylist lists, in collection order, every track that has a file.
func (m *Manager) writePlaylist(ctx context.Context, collection *model.Collection, dir string, results []*model.Result) {
	entries := lo.FilterMap(results, func(r *model.Result, _ int) (audio.PlaylistEntry, bool) {
		if !r.Outcome.HasFile() {
			return audio.PlaylistEntry{}, false
		}
		return audio.PlaylistEntry{Path: r.Path, Title: r.Job.Track.Title, Artist: r.Job.Track.Artist}, true
	})
	if len(entries) == 0 {
		return
	}

	name := ioutils.SanitizeFileName(collection.Name)
	path := filepath.Join(dir, name+m.playlist.Format().Extension())
	content := m.playlist.CreatePlaylist(collection.Name, entries)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		m.progress(ctx, ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ctx, ProgressEvent{Message: "Created playlist: " + path, Level: LevelSuccess})
}

func (m *Manager) progress(ctx context.Context, event ProgressEvent) {
	if m.events == nil {
		return
	}
	select {
	case m.events <- event:
	case <-ctx.Done():
	}
}
