package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// LrclibClient talks to lrclib.net, a free lyrics database with plain and
// LRC-synced text. No API key; a descriptive User-Agent is requested by the
// service's usage guidelines.
type LrclibClient struct {
	log       *logger.Logger
	baseURL   string
	userAgent string
	http      *http.Client
}

// LyricsRecord is one lrclib hit. Either field may be empty.
type LyricsRecord struct {
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

func NewLrclibClient(log *logger.Logger) *LrclibClient {
	return &LrclibClient{
		log:       log.With("client", "lrclib"),
		baseURL:   envutil.Str("LRCLIB_BASE_URL", "https://lrclib.net"),
		userAgent: envutil.Str("LRCLIB_USER_AGENT", "spinshelf/1.0 (support@spinshelf.app)"),
		http:      &http.Client{Timeout: envutil.Dur("UPSTREAM_TIMEOUT", 8*time.Second)},
	}
}

// Get hits the exact-match endpoint. A 404 means no record and returns
// (nil, nil); that is the common case, not an error.
func (c *LrclibClient) Get(ctx context.Context, artist, track string) (*LyricsRecord, error) {
	start := time.Now()
	rec, err := c.get(ctx, artist, track)
	observability.Current().ObserveUpstreamRequest("lrclib_get", outcome(err), time.Since(start))
	return rec, err
}

func (c *LrclibClient) get(ctx context.Context, artist, track string) (*LyricsRecord, error) {
	q := url.Values{}
	q.Set("artist_name", artist)
	q.Set("track_name", track)
	var rec LyricsRecord
	found, err := c.getJSON(ctx, "/api/get?"+q.Encode(), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// Search hits the fuzzy search endpoint and returns the first usable hit.
func (c *LrclibClient) Search(ctx context.Context, artist, track string) (*LyricsRecord, error) {
	start := time.Now()
	rec, err := c.search(ctx, artist, track)
	observability.Current().ObserveUpstreamRequest("lrclib_search", outcome(err), time.Since(start))
	return rec, err
}

func (c *LrclibClient) search(ctx context.Context, artist, track string) (*LyricsRecord, error) {
	q := url.Values{}
	q.Set("artist_name", artist)
	q.Set("track_name", track)
	var hits []LyricsRecord
	found, err := c.getJSON(ctx, "/api/search?"+q.Encode(), &hits)
	if err != nil || !found {
		return nil, err
	}
	for i := range hits {
		if hits[i].PlainLyrics != "" || hits[i].SyncedLyrics != "" {
			return &hits[i], nil
		}
	}
	return nil, nil
}

func (c *LrclibClient) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("lrclib request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("lrclib: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("lrclib decode: %w", err)
	}
	return true, nil
}
