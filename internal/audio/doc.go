// Package audio writes ID3 tags and playlist files for downloaded tracks.
//
// # ID3 Tagging
//
// The Tagger sets exactly three frames on an MP3 file:
//
//	tagger := audio.NewTagger(true)
//	err := tagger.WriteTags(path, model.TrackMetadata{Title: "Song", Artist: "Artist", Album: "Album"})
//
// Tags are written as UTF-8. Other frames in the file are preserved.
//
// # Playlist Generation
//
// Generate a playlist from the files a run produced, in collection order:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("Road Trip", entries)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
