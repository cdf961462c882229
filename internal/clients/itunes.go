package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// ITunesClient queries the iTunes Search API for album artwork.
type ITunesClient struct {
	log     *logger.Logger
	baseURL string
	http    *http.Client
}

func NewITunesClient(log *logger.Logger) *ITunesClient {
	return &ITunesClient{
		log:     log.With("client", "itunes"),
		baseURL: envutil.Str("ITUNES_BASE_URL", "https://itunes.apple.com"),
		http:    &http.Client{Timeout: envutil.Dur("UPSTREAM_TIMEOUT", 8*time.Second)},
	}
}

type itunesSearchResponse struct {
	Results []struct {
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

// AlbumArtwork returns artwork URLs for the album, upscaled to 600x600.
func (c *ITunesClient) AlbumArtwork(ctx context.Context, artist, title string) ([]string, error) {
	start := time.Now()
	urls, err := c.albumArtwork(ctx, artist, title)
	observability.Current().ObserveUpstreamRequest("itunes", outcome(err), time.Since(start))
	return urls, err
}

func (c *ITunesClient) albumArtwork(ctx context.Context, artist, title string) ([]string, error) {
	q := url.Values{}
	q.Set("term", artist+" "+title)
	q.Set("entity", "album")
	q.Set("limit", "5")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("itunes search: status %d", resp.StatusCode)
	}
	var body itunesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("itunes decode: %w", err)
	}
	urls := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		if r.ArtworkURL100 == "" {
			continue
		}
		// iTunes serves any square size by URL rewrite.
		urls = append(urls, strings.Replace(r.ArtworkURL100, "100x100", "600x600", 1))
	}
	return urls, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
