package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/openai"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// Manual finds a user manual for a piece of gear using web search tool
// access. search_url is computed locally so the caller always gets a usable
// link, even when the model returns nothing parseable.
func (s *AIService) Manual(ctx context.Context, brand, model string) (*domain.ManualResult, error) {
	brand = sanitize.Clean(brand, maxNameChars)
	model = sanitize.Clean(model, maxNameChars)
	if brand == "" || model == "" {
		return nil, apierr.BadRequest("missing_fields", fmt.Errorf("brand and model are required"))
	}

	searchURL := "https://www.google.com/search?q=" +
		url.QueryEscape(brand+" "+model+" user manual pdf")

	p, err := prompts.Build(prompts.PromptManualLookup, prompts.Input{Brand: brand, Model: model})
	if err != nil {
		return nil, apierr.Internal("prompt_build", err)
	}
	raw, err := s.tools.GenerateJSONWithTools(ctx, p.System, p.User,
		openai.WebSearchTool(), p.SchemaName, p.Schema)
	if err != nil {
		return nil, apierr.BadGateway("model_unavailable", err)
	}

	obj, repaired := repair.Object(raw, p.Schema)
	if repaired {
		s.log.Warn("manual response repaired", "prompt", p.Name)
	}
	return &domain.ManualResult{
		ManualURL:       repair.StringPtrOf(obj, "manual_url"),
		Source:          repair.StringPtrOf(obj, "source"),
		Confidence:      repair.StringOf(obj, "confidence"),
		AlternativeURLs: repair.StringsOf(obj, "alternative_urls"),
		SearchURL:       searchURL,
	}, nil
}
