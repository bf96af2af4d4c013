package download

import (
	"context"
	"fmt"
	"io"

	"github.com/handiism/spotify-dl/internal/audio"
	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/fetch"
	"github.com/handiism/spotify-dl/internal/history"
	"github.com/handiism/spotify-dl/internal/http"
	"github.com/handiism/spotify-dl/internal/model"
	"github.com/handiism/spotify-dl/internal/spotify"
	"github.com/handiism/spotify-dl/internal/youtube"
)

// MetadataProvider resolves a locator into its tracks.
type MetadataProvider interface {
	Resolve(ctx context.Context, locator string) (*model.Collection, error)
}

// Matcher picks a video for a track.
type Matcher interface {
	Match(ctx context.Context, track model.TrackMetadata) (youtube.Candidate, error)
}

// Fetcher downloads the audio for a job.
type Fetcher interface {
	Fetch(ctx context.Context, url string, job model.Job) (path string, existed bool, err error)
}

// Tagger writes the title, artist and album tags.
type Tagger interface {
	WriteTags(path string, track model.TrackMetadata) error
}

// Recorder stores per-job results.
type Recorder interface {
	Record(ctx context.Context, locator string, r model.Result) error
}

// AssetClient downloads small files such as cover images.
type AssetClient interface {
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Deps are the pipeline stages used by a Manager. History and Assets are
// optional.
type Deps struct {
	Provider MetadataProvider
	Matcher  Matcher
	Fetcher  Fetcher
	Tagger   Tagger
	History  Recorder
	Assets   AssetClient
}

// Close releases resources held by the dependencies.
func (d Deps) Close() error {
	if c, ok := d.History.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewDeps builds the production stages from settings and credentials.
//
// The Spotify token is requested immediately, so bad credentials fail here
// with model.ErrMetadataFetch. Without a YouTube API key the keyless yt-dlp
// search is used.
func NewDeps(ctx context.Context, settings *config.Settings, creds config.Credentials) (Deps, error) {
	if err := creds.Validate(); err != nil {
		return Deps{}, err
	}

	client, err := spotify.NewClient(ctx, creds.SpotifyClientID, creds.SpotifyClientSecret)
	if err != nil {
		return Deps{}, fmt.Errorf("%w: %w", model.ErrMetadataFetch, err)
	}

	var searcher youtube.Searcher
	if creds.YouTubeAPIKey != "" {
		searcher, err = youtube.NewAPISearcher(ctx, creds.YouTubeAPIKey)
		if err != nil {
			return Deps{}, err
		}
	} else {
		// Process-wide; goutubedl has no per-call binary option.
		youtube.SetYTDLPPath(settings.YtDLPPath)
		searcher = youtube.NewYTSearcher()
	}

	deps := Deps{
		Provider: spotify.NewProvider(client),
		Matcher:  youtube.NewMatcher(searcher, settings.SearchMaxResults),
		Fetcher:  fetch.NewFetcher(fetch.NewYTDLP(settings.ToFetchConfig())),
		Tagger:   audio.NewTagger(settings.ModifyTags),
		Assets:   http.NewClient(),
	}

	if settings.HistoryPath != "" {
		store, err := history.Open(settings.HistoryPath)
		if err != nil {
			return Deps{}, err
		}
		deps.History = store
	}

	return deps, nil
}
