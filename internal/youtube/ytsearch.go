package youtube

import (
	"context"
	"fmt"
	"sync"

	"github.com/wader/goutubedl"
)

var setPathOnce sync.Once

// SetYTDLPPath points goutubedl at a yt-dlp binary. goutubedl only offers a
// package variable for this, so the first non-empty path wins for the life
// of the process.
func SetYTDLPPath(path string) {
	if path == "" {
		return
	}
	setPathOnce.Do(func() {
		goutubedl.Path = path
	})
}

// YTSearcher searches through yt-dlp's "ytsearchN:" pseudo-URL. It needs the
// yt-dlp binary but no API key.
type YTSearcher struct{}

// NewYTSearcher creates a YTSearcher.
func NewYTSearcher() *YTSearcher {
	return &YTSearcher{}
}

// Search resolves the first maxResults search hits.
func (s *YTSearcher) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	result, err := goutubedl.New(ctx, fmt.Sprintf("ytsearch%d:%s", maxResults, query), goutubedl.Options{
		Type: goutubedl.TypePlaylist,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(result.Info.Entries))
	for _, entry := range result.Info.Entries {
		if entry.ID == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:    entry.ID,
			Title: entry.Title,
			URL:   WatchURL(entry.ID),
		})
	}
	return candidates, nil
}
