package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// ErrMissingSpotifyCredentials is returned when no Spotify client ID or
// secret could be found.
var ErrMissingSpotifyCredentials = errors.New("missing Spotify credentials: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")

// Environment variable names. The same keys are read from the .env file.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvYouTubeAPIKey       = "YOUTUBE_API_KEY"
	EnvFFmpegPath          = "FFMPEG_PATH"
)

// Credentials holds the external service secrets.
type Credentials struct {
	SpotifyClientID     string
	SpotifyClientSecret string

	// YouTubeAPIKey is optional. Without it the keyless yt-dlp search is used.
	YouTubeAPIKey string

	// FFmpegPath overrides Settings.FFmpegLocation when set.
	FFmpegPath string
}

// LoadCredentials reads KEY=VALUE pairs from the .env file at envPath (if it
// exists) and then lets process environment variables override them.
// An empty envPath skips the file.
func LoadCredentials(envPath string) (Credentials, error) {
	var c Credentials

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			cfg, err := ini.Load(envPath)
			if err != nil {
				return c, fmt.Errorf("reading %s: %w", envPath, err)
			}
			sec := cfg.Section("")
			c.SpotifyClientID = sec.Key(EnvSpotifyClientID).String()
			c.SpotifyClientSecret = sec.Key(EnvSpotifyClientSecret).String()
			c.YouTubeAPIKey = sec.Key(EnvYouTubeAPIKey).String()
			c.FFmpegPath = sec.Key(EnvFFmpegPath).String()
		} else if !os.IsNotExist(err) {
			return c, fmt.Errorf("reading %s: %w", envPath, err)
		}
	}

	override(&c.SpotifyClientID, EnvSpotifyClientID)
	override(&c.SpotifyClientSecret, EnvSpotifyClientSecret)
	override(&c.YouTubeAPIKey, EnvYouTubeAPIKey)
	override(&c.FFmpegPath, EnvFFmpegPath)

	return c, nil
}

func override(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// Validate reports ErrMissingSpotifyCredentials when either Spotify value
// is empty.
func (c Credentials) Validate() error {
	if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
		return ErrMissingSpotifyCredentials
	}
	return nil
}
