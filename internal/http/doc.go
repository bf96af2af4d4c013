// Package http provides a small HTTP client for fetching image assets.
//
// Spotify API traffic goes through the spotify package's OAuth client and
// media downloads go through yt-dlp. This client only handles plain GETs
// such as playlist cover art.
//
// # Basic Usage
//
//	client := http.NewClient()
//	data, err := client.DownloadBytes(ctx, imageURL)
package http
