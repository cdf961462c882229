package services

import (
	"context"
	"fmt"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// Metadata enriches a known artist/title with year, label, genres and a
// short description.
func (s *AIService) Metadata(ctx context.Context, artist, title string) (*domain.MetadataResult, error) {
	artist = sanitize.Clean(artist, maxNameChars)
	title = sanitize.Clean(title, maxNameChars)
	if artist == "" || title == "" {
		return nil, apierr.BadRequest("missing_fields", fmt.Errorf("artist and title are required"))
	}

	p, err := prompts.Build(prompts.PromptAlbumMetadata, prompts.Input{Artist: artist, Title: title})
	if err != nil {
		return nil, apierr.Internal("prompt_build", err)
	}
	raw, err := s.light.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return nil, apierr.BadGateway("model_unavailable", err)
	}

	obj, repaired := repair.Object(raw, p.Schema)
	if repaired {
		s.log.Warn("metadata response repaired", "prompt", p.Name)
	}
	return &domain.MetadataResult{
		Year:        repair.IntPtrOf(obj, "year"),
		Label:       repair.StringPtrOf(obj, "label"),
		Genres:      repair.StringsOf(obj, "genres"),
		Description: repair.StringOf(obj, "description"),
	}, nil
}
