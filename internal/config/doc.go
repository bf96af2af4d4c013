// Package config provides configuration management for spotify-dl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Reading service credentials from a .env file and the environment
//   - Conversion to fetch.Config and playlist writers for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/Spotify
//	// 3 concurrent tracks, MP3 at 192K
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Credentials
//
// Credentials are never stored in the settings file:
//
//	creds, err := config.LoadCredentials(".env")
//	if err := creds.Validate(); err != nil {
//	    // errors.Is(err, config.ErrMissingSpotifyCredentials)
//	}
//
// SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, YOUTUBE_API_KEY and FFMPEG_PATH
// in the process environment take precedence over the file.
package config
