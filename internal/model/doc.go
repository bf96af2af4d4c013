// Package model defines the core data structures used throughout
// spotify-dl.
//
// # TrackMetadata
//
// TrackMetadata is the (title, artist, album) triple for one track, as
// returned by the Spotify lookup:
//
//	meta := model.TrackMetadata{Title: "Song", Artist: "Artist", Album: "Album"}
//
// # Collection
//
// Collection is the result of resolving a locator: a display name plus the
// ordered tracks. A single track resolves to a one-element collection named
// "Single Songs".
//
// # Job
//
// Job drives one pass of the match, fetch, tag chain for a single track:
//
//	job := model.NewJob(0, meta, "/music")
//	fmt.Println(job.OutputPath()) // "/music/Song - Artist.mp3"
//
// # Results
//
// Every job ends in a Result with an Outcome. Stage failures wrap one of the
// sentinel errors (ErrNoMatch, ErrFetchFailed, ErrTagWriteFailed) so callers
// can branch with errors.Is.
package model
