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

// CoverArtClient resolves cover art through MusicBrainz release-group search
// plus the Cover Art Archive's stable front-image URLs.
type CoverArtClient struct {
	log       *logger.Logger
	mbBaseURL string
	caBaseURL string
	userAgent string
	http      *http.Client
}

func NewCoverArtClient(log *logger.Logger) *CoverArtClient {
	return &CoverArtClient{
		log:       log.With("client", "coverartarchive"),
		mbBaseURL: envutil.Str("MUSICBRAINZ_BASE_URL", "https://musicbrainz.org"),
		caBaseURL: envutil.Str("COVERARTARCHIVE_BASE_URL", "https://coverartarchive.org"),
		userAgent: envutil.Str("MUSICBRAINZ_USER_AGENT", "spinshelf/1.0 (support@spinshelf.app)"),
		http:      &http.Client{Timeout: envutil.Dur("UPSTREAM_TIMEOUT", 8*time.Second)},
	}
}

type mbSearchResponse struct {
	ReleaseGroups []struct {
		ID string `json:"id"`
	} `json:"release-groups"`
}

// FrontCovers returns Cover Art Archive front-image URLs for the album.
func (c *CoverArtClient) FrontCovers(ctx context.Context, artist, title string) ([]string, error) {
	start := time.Now()
	urls, err := c.frontCovers(ctx, artist, title)
	observability.Current().ObserveUpstreamRequest("coverartarchive", outcome(err), time.Since(start))
	return urls, err
}

func (c *CoverArtClient) frontCovers(ctx context.Context, artist, title string) ([]string, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf(`artist:%q AND releasegroup:%q`, artist, title))
	q.Set("fmt", "json")
	q.Set("limit", "3")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.mbBaseURL+"/ws/2/release-group/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// MusicBrainz rejects requests without a descriptive User-Agent.
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("musicbrainz search: status %d", resp.StatusCode)
	}
	var body mbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("musicbrainz decode: %w", err)
	}
	urls := make([]string, 0, len(body.ReleaseGroups))
	for _, rg := range body.ReleaseGroups {
		if rg.ID == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("%s/release-group/%s/front-500", c.caBaseURL, rg.ID))
	}
	return urls, nil
}
