package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// APISearcher searches through the YouTube Data API v3.
type APISearcher struct {
	svc *youtubeapi.Service
}

// NewAPISearcher creates an APISearcher authenticated with an API key.
// Extra client options are applied after the key (tests use
// option.WithEndpoint).
func NewAPISearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*APISearcher, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &APISearcher{svc: svc}, nil
}

// Search issues one search.list request restricted to videos.
func (s *APISearcher) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		c := Candidate{ID: item.Id.VideoId, URL: WatchURL(item.Id.VideoId)}
		if item.Snippet != nil {
			c.Title = item.Snippet.Title
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
