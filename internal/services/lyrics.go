package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// LyricsProvider is the lrclib surface LyricsService needs; satisfied by
// clients.LrclibClient and by test fakes.
type LyricsProvider interface {
	Get(ctx context.Context, artist, track string) (*clients.LyricsRecord, error)
	Search(ctx context.Context, artist, track string) (*clients.LyricsRecord, error)
}

// LyricsService looks up lyrics without any model involvement. The exact and
// fuzzy endpoints are queried concurrently; an exact hit wins.
type LyricsService struct {
	log    *logger.Logger
	lrclib LyricsProvider
}

func NewLyricsService(log *logger.Logger, lrclib LyricsProvider) *LyricsService {
	return &LyricsService{log: log.With("service", "lyrics"), lrclib: lrclib}
}

// Lookup returns lyrics for artist/track. No match from either endpoint is a
// success with all fields null.
func (s *LyricsService) Lookup(ctx context.Context, artist, track string) (*domain.LyricsResult, error) {
	artist = sanitize.Clean(artist, maxNameChars)
	track = sanitize.Clean(track, maxNameChars)
	if artist == "" || track == "" {
		return nil, apierr.BadRequest("missing_fields", fmt.Errorf("artist and title are required"))
	}

	var exact, fuzzy *clients.LyricsRecord
	var exactErr, fuzzyErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exact, exactErr = s.lrclib.Get(gctx, artist, track)
		return nil
	})
	g.Go(func() error {
		fuzzy, fuzzyErr = s.lrclib.Search(gctx, artist, track)
		return nil
	})
	_ = g.Wait()

	// Both endpoints down is an upstream failure; one down degrades to the
	// other's answer.
	if exactErr != nil && fuzzyErr != nil {
		s.log.Error("lyrics lookup failed", "exact_err", exactErr.Error(), "search_err", fuzzyErr.Error())
		return nil, apierr.BadGateway("lyrics_unavailable", exactErr)
	}

	rec := exact
	source := "lrclib"
	if rec == nil {
		rec = fuzzy
	}
	if rec == nil || (rec.PlainLyrics == "" && rec.SyncedLyrics == "") {
		return &domain.LyricsResult{}, nil
	}

	res := &domain.LyricsResult{Source: &source}
	if rec.PlainLyrics != "" {
		v := rec.PlainLyrics
		res.Lyrics = &v
	}
	if rec.SyncedLyrics != "" {
		v := rec.SyncedLyrics
		res.SyncedLyrics = &v
	}
	return res, nil
}
