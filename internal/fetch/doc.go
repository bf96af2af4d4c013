// Package fetch downloads the audio of a matched video as an MP3.
//
// The actual download and transcode is done by an external yt-dlp process
// (with ffmpeg) behind the Downloader interface. The Fetcher decides the
// output path, skips the download when the file already exists, and checks
// that the expected file is present afterwards.
//
// # Output naming
//
// yt-dlp is given the template "<dir>/<Title> - <Artist>.%(ext)s". After the
// MP3 post-processor runs the file lands at "<dir>/<Title> - <Artist>.mp3",
// which is the path reported to the caller.
package fetch
