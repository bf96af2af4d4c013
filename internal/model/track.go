package model

import (
	"path/filepath"

	"github.com/google/uuid"

	ioutils "github.com/handiism/spotify-dl/internal/io"
)

// AudioExtension is the extension of every file the fetcher produces.
const AudioExtension = ".mp3"

// SingleSongsName is the collection name reported for single-track locators.
const SingleSongsName = "Single Songs"

// TrackMetadata is the (title, artist, album) triple describing one track.
//
// Only the first credited artist is kept. Values are never modified after the
// lookup; sanitization is applied when deriving file names, not here.
type TrackMetadata struct {
	Title  string
	Artist string
	Album  string
}

// String returns "Title - Artist".
func (t TrackMetadata) String() string {
	return t.Title + " - " + t.Artist
}

// FileBaseName returns the file name, without extension, used for the track:
// the sanitized title and artist joined by " - ".
//
// Two tracks with the same sanitized title and artist map to the same name
// and overwrite each other.
func (t TrackMetadata) FileBaseName() string {
	return ioutils.SanitizeFileName(t.Title) + " - " + ioutils.SanitizeFileName(t.Artist)
}

// CollectionKind tells whether a locator named a single track or a playlist.
type CollectionKind int

const (
	KindTrack CollectionKind = iota
	KindPlaylist
)

func (k CollectionKind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Collection is the resolved content of a locator.
type Collection struct {
	// Kind is the locator classification.
	Kind CollectionKind

	// ID is the Spotify ID extracted from the locator.
	ID string

	// Name is the sanitized playlist name, or SingleSongsName for tracks.
	Name string

	// ImageURL is the largest playlist image, if the service returned one.
	ImageURL string

	// Tracks are the member tracks in playlist order. An empty slice means
	// there is nothing to do.
	Tracks []TrackMetadata
}

// Job is one pass of the match, fetch, tag chain for a single track.
type Job struct {
	// ID identifies the job in progress events and history rows.
	ID string

	// Index is the position of the track in its collection.
	Index int

	// Track is the metadata driving the search and the tags.
	Track TrackMetadata

	// Dir is the target output directory.
	Dir string
}

// NewJob creates a Job with a fresh random ID.
func NewJob(index int, track TrackMetadata, dir string) Job {
	return Job{
		ID:    uuid.NewString(),
		Index: index,
		Track: track,
		Dir:   dir,
	}
}

// OutputPath returns the deterministic file path for the job:
// "<dir>/<sanitized title> - <sanitized artist>.mp3".
func (j Job) OutputPath() string {
	return filepath.Join(j.Dir, j.Track.FileBaseName()+AudioExtension)
}
