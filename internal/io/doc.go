// Package ioutils provides file system and image helpers shared by the
// fetch, download and audio packages.
//
// # Filename Sanitization
//
// SanitizeFileName deletes characters that are not allowed in file names:
//
//	safe := ioutils.SanitizeFileName(`AC/DC: "Live"`) // Returns "ACDC Live"
//
// The result never contains any of / \ : * ? " < > | or an ASCII control
// character, and sanitizing twice gives the same result as sanitizing once.
//
// # File Operations
//
//	ok := ioutils.FileExists("/music/Song - Artist.mp3")
//	err := ioutils.EnsureDir("/music/My Playlist")
//	err = ioutils.WriteFile(ctx, "/music/My Playlist/My Playlist.m3u", content)
//
// # Cover Art
//
// ImageService prepares playlist cover art before it is written next to the
// downloaded tracks:
//
//	svc := ioutils.NewImageService()
//	jpeg, err := svc.PrepareCover(ctx, imageData, 1000)
package ioutils
