package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// Covers aggregates cover art candidates from the model plus the iTunes and
// Cover Art Archive upstreams, concurrently. A failing source contributes
// zero results; the response is deduplicated in first-seen order and capped.
func (s *AIService) Covers(ctx context.Context, artist, title string) (*domain.CoversResult, error) {
	artist = sanitize.Clean(artist, maxNameChars)
	title = sanitize.Clean(title, maxNameChars)
	if artist == "" || title == "" {
		return nil, apierr.BadRequest("missing_fields", fmt.Errorf("artist and title are required"))
	}

	var modelURLs, itunesURLs, caaURLs []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		urls, err := s.coversFromModel(gctx, artist, title)
		if err != nil {
			s.log.Warn("cover search model source failed", "err", err.Error())
			return nil
		}
		modelURLs = urls
		return nil
	})
	g.Go(func() error {
		urls, err := s.itunes.AlbumArtwork(gctx, artist, title)
		if err != nil {
			s.log.Warn("cover search itunes source failed", "err", err.Error())
			return nil
		}
		itunesURLs = urls
		return nil
	})
	g.Go(func() error {
		urls, err := s.caa.FrontCovers(gctx, artist, title)
		if err != nil {
			s.log.Warn("cover search coverartarchive source failed", "err", err.Error())
			return nil
		}
		caaURLs = urls
		return nil
	})
	_ = g.Wait()

	covers := make([]domain.CoverCandidate, 0, prompts.MaxCoverResults)
	seen := make(map[string]bool)
	add := func(urls []string, source string) {
		for _, u := range urls {
			if u == "" || seen[u] || len(covers) >= prompts.MaxCoverResults {
				continue
			}
			seen[u] = true
			covers = append(covers, domain.CoverCandidate{URL: u, Source: source})
		}
	}
	add(modelURLs, "model")
	add(itunesURLs, "itunes")
	add(caaURLs, "coverartarchive")

	return &domain.CoversResult{Covers: covers}, nil
}

func (s *AIService) coversFromModel(ctx context.Context, artist, title string) ([]string, error) {
	p, err := prompts.Build(prompts.PromptCoverSearch, prompts.Input{Artist: artist, Title: title})
	if err != nil {
		return nil, err
	}
	raw, err := s.light.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return nil, err
	}
	obj, _ := repair.Object(raw, p.Schema)
	return repair.StringsOf(obj, "covers"), nil
}
