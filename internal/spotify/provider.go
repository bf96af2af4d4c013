package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"

	ioutils "github.com/handiism/spotify-dl/internal/io"
	"github.com/handiism/spotify-dl/internal/model"
)

// maxItemsPerRequest is the Spotify page size limit for playlist items.
const maxItemsPerRequest = 100

// Classify returns the kind of a locator. The "track" marker is checked
// before "playlist".
func Classify(locator string) (model.CollectionKind, error) {
	switch {
	case strings.Contains(locator, "track"):
		return model.KindTrack, nil
	case strings.Contains(locator, "playlist"):
		return model.KindPlaylist, nil
	default:
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidLocator, locator)
	}
}

// ExtractID returns the Spotify ID at the end of a locator. It accepts web
// links ("https://open.spotify.com/track/<id>?si=...") and URIs
// ("spotify:track:<id>").
func ExtractID(locator string) string {
	id := strings.TrimSpace(locator)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndex(id, ":"); i >= 0 {
		id = id[i+1:]
	}
	return id
}

// Provider resolves locators to collections of track metadata.
type Provider struct {
	api API
}

// NewProvider creates a Provider backed by api.
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Resolve classifies the locator and fetches its metadata.
//
// A track locator yields a one-track collection named "Single Songs". A
// playlist locator yields every track of the playlist, in order, under the
// sanitized playlist name. Playlist entries without a track (podcast
// episodes, unavailable items) are left out, so for mixed playlists the
// collection can hold fewer tracks than the playlist's item count.
//
// Errors wrap model.ErrInvalidLocator or model.ErrMetadataFetch; no partial
// collection is returned with an error.
func (p *Provider) Resolve(ctx context.Context, locator string) (*model.Collection, error) {
	kind, err := Classify(locator)
	if err != nil {
		return nil, err
	}

	id := ExtractID(locator)
	if id == "" {
		return nil, fmt.Errorf("%w: no ID in %q", model.ErrInvalidLocator, locator)
	}

	var collection *model.Collection
	switch kind {
	case model.KindTrack:
		collection, err = p.resolveTrack(ctx, spotify.ID(id))
	default:
		collection, err = p.resolvePlaylist(ctx, spotify.ID(id))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMetadataFetch, err)
	}

	collection.Kind = kind
	collection.ID = id
	return collection, nil
}

func (p *Provider) resolveTrack(ctx context.Context, id spotify.ID) (*model.Collection, error) {
	track, err := p.api.GetTrack(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching track %s: %w", id, err)
	}
	if track == nil {
		return nil, fmt.Errorf("no track data returned for %s", id)
	}

	return &model.Collection{
		Name:   model.SingleSongsName,
		Tracks: []model.TrackMetadata{convertTrack(track)},
	}, nil
}

func (p *Provider) resolvePlaylist(ctx context.Context, id spotify.ID) (*model.Collection, error) {
	playlist, err := p.api.GetPlaylist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist %s: %w", id, err)
	}

	collection := &model.Collection{
		Name: ioutils.SanitizeFileName(playlist.Name),
	}
	if len(playlist.Images) > 0 {
		collection.ImageURL = playlist.Images[0].URL
	}

	offset := 0
	for {
		page, err := p.api.GetPlaylistItems(ctx, id, spotify.Limit(maxItemsPerRequest), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("fetching playlist items (offset %d): %w", offset, err)
		}

		collection.Tracks = append(collection.Tracks, lo.FilterMap(page.Items, func(item spotify.PlaylistItem, _ int) (model.TrackMetadata, bool) {
			if item.Track.Track == nil {
				return model.TrackMetadata{}, false
			}
			return convertTrack(item.Track.Track), true
		})...)

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= int(page.Total) {
			break
		}
	}

	slog.Debug("resolved playlist", "id", id, "name", collection.Name, "tracks", len(collection.Tracks))
	return collection, nil
}

// convertTrack keeps the track name, the first credited artist and the
// album name.
func convertTrack(t *spotify.FullTrack) model.TrackMetadata {
	var artist string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return model.TrackMetadata{
		Title:  t.Name,
		Artist: artist,
		Album:  t.Album.Name,
	}
}
