package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// DiscogsClient looks up marketplace price suggestions for a record. It
// searches for the release, then reads the price-suggestion endpoint.
type DiscogsClient struct {
	log     *logger.Logger
	baseURL string
	token   string
	http    *http.Client
}

// PriceSpread summarizes marketplace asking prices across conditions.
type PriceSpread struct {
	Currency string
	Low      float64
	Median   float64
	High     float64
}

func NewDiscogsClient(log *logger.Logger) *DiscogsClient {
	return &DiscogsClient{
		log:     log.With("client", "discogs"),
		baseURL: envutil.Str("DISCOGS_BASE_URL", "https://api.discogs.com"),
		token:   envutil.Str("DISCOGS_TOKEN", ""),
		http:    &http.Client{Timeout: envutil.Dur("UPSTREAM_TIMEOUT", 8*time.Second)},
	}
}

func (c *DiscogsClient) Enabled() bool { return c.token != "" }

type discogsSearchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type discogsPriceSuggestion struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

// PriceFor searches for the release and aggregates its price suggestions
// into a low/median/high spread.
func (c *DiscogsClient) PriceFor(ctx context.Context, artist, title string) (*PriceSpread, error) {
	start := time.Now()
	spread, err := c.priceFor(ctx, artist, title)
	observability.Current().ObserveUpstreamRequest("discogs", outcome(err), time.Since(start))
	return spread, err
}

func (c *DiscogsClient) priceFor(ctx context.Context, artist, title string) (*PriceSpread, error) {
	if c.token == "" {
		return nil, fmt.Errorf("discogs token not configured")
	}
	q := url.Values{}
	q.Set("artist", artist)
	q.Set("release_title", title)
	q.Set("type", "release")
	q.Set("format", "Vinyl")
	q.Set("per_page", "1")
	var search discogsSearchResponse
	if err := c.getJSON(ctx, "/database/search?"+q.Encode(), &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	var suggestions map[string]discogsPriceSuggestion
	path := "/marketplace/price_suggestions/" + strconv.Itoa(search.Results[0].ID)
	if err := c.getJSON(ctx, path, &suggestions); err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, nil
	}

	values := make([]float64, 0, len(suggestions))
	currency := ""
	for _, s := range suggestions {
		values = append(values, s.Value)
		if currency == "" {
			currency = s.Currency
		}
	}
	sort.Float64s(values)
	return &PriceSpread{
		Currency: currency,
		Low:      values[0],
		Median:   values[len(values)/2],
		High:     values[len(values)-1],
	}, nil
}

func (c *DiscogsClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", "spinshelf/1.0")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discogs request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("discogs %s: status %d", strings.SplitN(path, "?", 2)[0], resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("discogs decode: %w", err)
	}
	return nil
}
