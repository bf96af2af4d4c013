package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/handiism/spotify-dl/internal/model"
)

// DefaultMaxResults is the number of candidates requested per search.
const DefaultMaxResults = 3

// Candidate is one search result.
type Candidate struct {
	ID    string
	Title string
	URL   string
}

// Searcher runs a video search and returns candidates in relevance order.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Candidate, error)
}

// WatchURL returns the watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// BuildQuery returns "<title> <artist> <album>", skipping empty fields.
func BuildQuery(track model.TrackMetadata) string {
	var parts []string
	for _, s := range []string{track.Title, track.Artist, track.Album} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Matcher picks a video for a track.
type Matcher struct {
	searcher   Searcher
	maxResults int
}

// NewMatcher creates a Matcher. A maxResults below 1 uses DefaultMaxResults.
func NewMatcher(searcher Searcher, maxResults int) *Matcher {
	if maxResults < 1 {
		maxResults = DefaultMaxResults
	}
	return &Matcher{searcher: searcher, maxResults: maxResults}
}

// Match searches for the track and returns the first candidate.
//
// Both an empty result set and a failed search return an error wrapping
// model.ErrNoMatch; for a failed search the cause is wrapped too.
func (m *Matcher) Match(ctx context.Context, track model.TrackMetadata) (Candidate, error) {
	query := BuildQuery(track)

	candidates, err := m.searcher.Search(ctx, query, m.maxResults)
	if err != nil {
		slog.Debug("search failed", "query", query, "err", err)
		return Candidate{}, fmt.Errorf("%w: search %q: %w", model.ErrNoMatch, query, err)
	}
	if len(candidates) == 0 {
		return Candidate{}, fmt.Errorf("%w: %s by %s", model.ErrNoMatch, track.Title, track.Artist)
	}

	best := candidates[0]
	if best.URL == "" {
		best.URL = WatchURL(best.ID)
	}
	return best, nil
}
