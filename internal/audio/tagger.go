package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	"github.com/handiism/spotify-dl/internal/model"
)

// Tagger writes ID3 tags to MP3 files.
//
// Only three frames are written: TIT2 (title), TPE1 (artist) and TALB
// (album). Every other frame already in the file is kept as-is.
//
// Example:
//
//	tagger := audio.NewTagger(true)
//	err := tagger.WriteTags("/music/Song - Artist.mp3", track)
type Tagger struct {
	enabled bool
}

// NewTagger creates a Tagger. When enabled is false WriteTags only checks
// that the file exists.
func NewTagger(enabled bool) *Tagger {
	return &Tagger{enabled: enabled}
}

// WriteTags sets title, artist and album on the file at path.
//
// Writing is idempotent: tagging the same file twice leaves the same three
// values. A missing or unwritable file returns an error wrapping
// model.ErrTagWriteFailed.
func (t *Tagger) WriteTags(path string, track model.TrackMetadata) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrTagWriteFailed, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", model.ErrTagWriteFailed, path)
	}

	if !t.enabled {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", model.ErrTagWriteFailed, path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(track.Title)
	tag.SetArtist(track.Artist)
	tag.SetAlbum(track.Album)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: saving %s: %w", model.ErrTagWriteFailed, path, err)
	}
	return nil
}
