package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/handiism/spotify-dl/internal/audio"
	"github.com/handiism/spotify-dl/internal/fetch"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath       string `json:"downloads_path"`
	MaxConcurrentTracks int    `json:"max_concurrent_tracks"`
	GroupByCollection   bool   `json:"group_by_collection"`

	// Search settings
	SearchMaxResults int `json:"search_max_results"`

	// Media tool settings
	AudioFormat    string `json:"audio_format"`
	AudioQuality   string `json:"audio_quality"`
	FFmpegLocation string `json:"ffmpeg_location"`
	YtDLPPath      string `json:"ytdlp_path"`

	// Cover art settings
	SaveCoverArt    bool `json:"save_cover_art"`
	CoverArtMaxSize int  `json:"cover_art_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`

	// History and logging
	HistoryPath string `json:"history_path"`
	LogLevel    string `json:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:       filepath.Join(homeDir, "Music", "Spotify"),
		MaxConcurrentTracks: 3,
		GroupByCollection:   false,

		SearchMaxResults: 3,

		AudioFormat:  "mp3",
		AudioQuality: "192K",

		SaveCoverArt:    false,
		CoverArtMaxSize: 1000,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,

		LogLevel: "info",
	}
}

// DefaultPath returns the default settings file location,
// <user config dir>/spotify-dl/config.json.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "spotify-dl", "config.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyCredentials copies tool overrides from the environment-backed
// credentials into the settings.
func (s *Settings) ApplyCredentials(c Credentials) {
	if c.FFmpegPath != "" {
		s.FFmpegLocation = c.FFmpegPath
	}
}

// ToFetchConfig converts settings to the yt-dlp configuration.
func (s *Settings) ToFetchConfig() fetch.Config {
	cfg := fetch.DefaultConfig()
	if s.AudioFormat != "" {
		cfg.AudioFormat = s.AudioFormat
	}
	if s.AudioQuality != "" {
		cfg.AudioQuality = s.AudioQuality
	}
	cfg.FFmpegLocation = s.FFmpegLocation
	cfg.Executable = s.YtDLPPath
	return cfg
}

// ToPlaylistCreator returns the playlist writer for these settings.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	return audio.NewPlaylistCreator(audio.ParsePlaylistFormat(s.PlaylistFormat), s.M3UExtended)
}

// Concurrency returns MaxConcurrentTracks, or 3 when it is not positive.
func (s *Settings) Concurrency() int {
	if s.MaxConcurrentTracks < 1 {
		return 3
	}
	return s.MaxConcurrentTracks
}
