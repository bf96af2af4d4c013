package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps in-memory downloads. Cover images are well below this.
const maxBodySize = 20 << 20

// Client wraps HTTP GETs for small assets such as playlist cover images.
//
// Example usage:
//
//	client := NewClient()
//	jpeg, err := client.DownloadBytes(ctx, collection.ImageURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with a 60 second timeout and a
// "spotify-dl" User-Agent header.
func NewClient() *Client {
	return NewClientWith(&http.Client{Timeout: 60 * time.Second})
}

// NewClientWith wraps an existing *http.Client.
func NewClientWith(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  "spotify-dl",
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - The body is larger than 20 MiB
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxBodySize)
	}
	return body, nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
