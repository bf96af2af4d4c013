// Package youtube finds a YouTube video for a track.
//
// The Matcher builds a free-text query from the title, artist and album,
// runs one search capped at a few results, and takes the first candidate.
// No ranking or duration check is applied beyond the search provider's own
// relevance order, so covers and live versions can be picked.
//
// Two search backends are available:
//   - APISearcher uses the YouTube Data API v3 and needs an API key.
//   - YTSearcher uses yt-dlp's "ytsearchN:" extractor and needs no key.
package youtube
