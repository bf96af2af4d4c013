package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/spotify-dl/internal/io"
	"github.com/handiism/spotify-dl/internal/model"
)

// Fetcher produces one MP3 per job.
type Fetcher struct {
	downloader Downloader
}

// NewFetcher creates a Fetcher over the given Downloader.
func NewFetcher(downloader Downloader) *Fetcher {
	return &Fetcher{downloader: downloader}
}

// OutputTemplate returns the yt-dlp template for a job: the job's output
// path with the extension replaced by "%(ext)s".
func OutputTemplate(job model.Job) string {
	path := job.OutputPath()
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".%(ext)s"
}

// Fetch downloads the audio at url to job.OutputPath().
//
// If the output file already exists no download is attempted and existed is
// true. Otherwise the downloader runs and the file must exist afterwards.
// Failures wrap model.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string, job model.Job) (path string, existed bool, err error) {
	path = job.OutputPath()

	if ioutils.FileExists(path) {
		slog.Debug("output exists, skipping download", "path", path)
		return path, true, nil
	}

	if err := f.downloader.Download(ctx, url, OutputTemplate(job)); err != nil {
		return "", false, fmt.Errorf("%w: %s: %w", model.ErrFetchFailed, url, err)
	}

	if !ioutils.FileExists(path) {
		return "", false, fmt.Errorf("%w: %s: no file at %s", model.ErrFetchFailed, url, path)
	}

	return path, false, nil
}
