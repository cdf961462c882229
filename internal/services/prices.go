package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// PriceSource is the marketplace lookup PriceService depends on; satisfied
// by clients.DiscogsClient and by test fakes.
type PriceSource interface {
	PriceFor(ctx context.Context, artist, title string) (*clients.PriceSpread, error)
}

// PriceService proxies marketplace price lookups behind a short-TTL Redis
// cache. Without Redis it degrades to uncached lookups.
type PriceService struct {
	log    *logger.Logger
	source PriceSource
	rdb    *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewPriceService(log *logger.Logger, source PriceSource, rdb *redis.Client) *PriceService {
	return &PriceService{
		log:    log.With("service", "prices"),
		source: source,
		rdb:    rdb,
		ttl:    envutil.Dur("PRICE_CACHE_TTL", 6*time.Hour),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func priceCacheKey(artist, title string) string {
	return "price:" + strings.ToLower(artist) + "|" + strings.ToLower(title)
}

// Estimate returns a cached or fresh price spread. cached reports a cache
// hit so the handler can surface it.
func (s *PriceService) Estimate(ctx context.Context, artist, title string) (*domain.PriceEstimate, bool, error) {
	artist = sanitize.Clean(artist, maxNameChars)
	title = sanitize.Clean(title, maxNameChars)
	if artist == "" || title == "" {
		return nil, false, apierr.BadRequest("missing_fields", fmt.Errorf("artist and title are required"))
	}

	key := priceCacheKey(artist, title)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var est domain.PriceEstimate
			if json.Unmarshal(raw, &est) == nil {
				return &est, true, nil
			}
		}
	}

	spread, err := s.source.PriceFor(ctx, artist, title)
	if err != nil {
		return nil, false, apierr.BadGateway("price_unavailable", err)
	}
	if spread == nil {
		return nil, false, apierr.New(404, "price_not_found", fmt.Errorf("no price data for this record"))
	}

	est := &domain.PriceEstimate{
		Artist:    artist,
		Title:     title,
		Currency:  spread.Currency,
		Low:       spread.Low,
		Median:    spread.Median,
		High:      spread.High,
		FetchedAt: s.now(),
	}
	if s.rdb != nil {
		if raw, err := json.Marshal(est); err == nil {
			if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.log.Warn("price cache write failed", "err", err.Error())
			}
		}
	}
	return est, false, nil
}
