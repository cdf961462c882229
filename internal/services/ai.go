package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/platform/openai"
)

// Per-field sanitization caps shared by the AI task dispatchers.
const (
	maxNameChars       = 200
	maxPromptChars     = 1000
	maxImageMB         = 10.0
	maxPlaylistName    = 100
	maxCollectionItems = 200
	maxGearItems       = 10
)

// ArtworkSource is the iTunes artwork lookup; satisfied by
// clients.ITunesClient and by test fakes.
type ArtworkSource interface {
	AlbumArtwork(ctx context.Context, artist, title string) ([]string, error)
}

// FrontCoverSource is the Cover Art Archive lookup; satisfied by
// clients.CoverArtClient and by test fakes.
type FrontCoverSource interface {
	FrontCovers(ctx context.Context, artist, title string) ([]string, error)
}

// AIService runs the model-backed tasks. Each task picks a model variant:
// the light model for identification and lookup tasks, the heavy model for
// curation and guide generation, and the tool-enabled default for manual
// search.
type AIService struct {
	log    *logger.Logger
	light  openai.Client
	heavy  openai.Client
	tools  openai.Client
	itunes ArtworkSource
	caa    FrontCoverSource
}

func NewAIService(log *logger.Logger, base openai.Client, itunes ArtworkSource, caa FrontCoverSource) *AIService {
	return &AIService{
		log:    log.With("service", "ai"),
		light:  openai.WithModel(base, envutil.Str("OPENAI_MODEL_LIGHT", "")),
		heavy:  openai.WithModel(base, envutil.Str("OPENAI_MODEL_HEAVY", "")),
		tools:  base,
		itunes: itunes,
		caa:    caa,
	}
}

// marshalCollection serializes collection context for a prompt, capped to
// keep the prompt bounded regardless of collection size.
func marshalCollection(items []domain.CollectionItem) (string, error) {
	if len(items) > maxCollectionItems {
		items = items[:maxCollectionItems]
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal collection: %w", err)
	}
	return string(b), nil
}

func marshalGear(items []domain.GearItem) (string, error) {
	if len(items) > maxGearItems {
		items = items[:maxGearItems]
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal gear: %w", err)
	}
	return string(b), nil
}
