package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/openai"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// Identify recognizes an album from a base64-encoded cover photo. A photo
// the model cannot place is a match:false result, not an error.
func (s *AIService) Identify(ctx context.Context, imageB64 string) (*domain.IdentifyResult, error) {
	if imageB64 == "" {
		return nil, apierr.BadRequest("missing_image", fmt.Errorf("image is required"))
	}
	if msg := sanitize.Base64Size(imageB64, maxImageMB, "image"); msg != nil {
		return nil, apierr.BadRequest("image_too_large", msg)
	}

	p, err := prompts.Build(prompts.PromptIdentifyAlbum, prompts.Input{})
	if err != nil {
		return nil, apierr.Internal("prompt_build", err)
	}
	imageURL := imageB64
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/jpeg;base64," + imageURL
	}
	raw, err := s.light.GenerateJSONWithImages(ctx, p.System, p.User,
		[]openai.ImageInput{{ImageURL: imageURL, Detail: "low"}},
		p.SchemaName, p.Schema)
	if err != nil {
		return nil, apierr.BadGateway("model_unavailable", err)
	}

	obj, repaired := repair.Object(raw, p.Schema)
	if repaired {
		s.log.Warn("identify response repaired", "prompt", p.Name)
	}
	res := &domain.IdentifyResult{
		Match:      repair.BoolOf(obj, "match"),
		Artist:     repair.StringPtrOf(obj, "artist"),
		Title:      repair.StringPtrOf(obj, "title"),
		Confidence: repair.StringOf(obj, "confidence"),
	}
	// A match needs both names; otherwise fall back to the no-match sentinel.
	if res.Match && (res.Artist == nil || res.Title == nil) {
		res.Match = false
		res.Artist = nil
		res.Title = nil
	}
	return res, nil
}
