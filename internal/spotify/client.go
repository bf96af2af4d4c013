package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// API is the subset of the Spotify Web API used by Provider.
// *spotify.Client satisfies it.
type API interface {
	GetTrack(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullTrack, error)
	GetPlaylist(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.FullPlaylist, error)
	GetPlaylistItems(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error)
}

// NewClient returns a Spotify client authenticated with the
// client-credentials flow. The first token is requested eagerly so bad
// credentials fail here rather than on the first lookup.
func NewClient(ctx context.Context, clientID, clientSecret string) (*spotify.Client, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting client credentials token: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, cfg.TokenSource(ctx)))
	return spotify.New(httpClient, spotify.WithRetry(true)), nil
}
