package fetch

import (
	"context"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Config holds the yt-dlp options for audio extraction.
type Config struct {
	// Format is the yt-dlp format selector.
	Format string

	// AudioFormat is the codec passed to --audio-format.
	AudioFormat string

	// AudioQuality is passed to --audio-quality, e.g. "192K".
	AudioQuality string

	// FFmpegLocation points yt-dlp at an ffmpeg binary or its directory.
	// Empty means ffmpeg is looked up on PATH.
	FFmpegLocation string

	// Executable overrides the yt-dlp binary. Empty means PATH lookup.
	Executable string
}

// DefaultConfig returns bestaudio at 192 kbps MP3.
func DefaultConfig() Config {
	return Config{
		Format:       "bestaudio/best",
		AudioFormat:  "mp3",
		AudioQuality: "192K",
	}
}

// Downloader retrieves the audio for a URL using an output template.
type Downloader interface {
	Download(ctx context.Context, url, outputTemplate string) error
}

// YTDLP runs yt-dlp through go-ytdlp.
type YTDLP struct {
	config Config
}

// NewYTDLP creates a YTDLP downloader.
func NewYTDLP(config Config) *YTDLP {
	return &YTDLP{config: config}
}

// Download extracts the audio of url into outputTemplate.
func (y *YTDLP) Download(ctx context.Context, url, outputTemplate string) error {
	cmd := ytdlp.New().
		Format(y.config.Format).
		ExtractAudio().
		AudioFormat(y.config.AudioFormat).
		AudioQuality(y.config.AudioQuality).
		NoPlaylist().
		Output(outputTemplate)

	if y.config.FFmpegLocation != "" {
		cmd = cmd.FFmpegLocation(y.config.FFmpegLocation)
	}
	if y.config.Executable != "" {
		cmd = cmd.SetExecutable(y.config.Executable)
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		if res != nil && res.Stderr != "" {
			return &ToolError{Err: err, Stderr: strings.TrimSpace(res.Stderr)}
		}
		return err
	}
	return nil
}

// ToolError carries the stderr of a failed yt-dlp run.
type ToolError struct {
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	return e.Err.Error() + ": " + lastLine(e.Stderr)
}

func (e *ToolError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
