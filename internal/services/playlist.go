package services

import (
	"context"
	"fmt"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// Playlist curates a themed playlist strictly from the caller's collection.
// Items referencing ids outside the collection are dropped; a result with no
// surviving items at all is a processing failure.
func (s *AIService) Playlist(ctx context.Context, theme string, collection []domain.CollectionItem) (*domain.PlaylistResult, error) {
	theme = sanitize.Clean(theme, maxPromptChars)
	if theme == "" {
		return nil, apierr.BadRequest("missing_prompt", fmt.Errorf("prompt is required"))
	}
	if len(collection) == 0 {
		return nil, apierr.BadRequest("empty_collection", fmt.Errorf("collection is empty"))
	}

	// GroundTruthSet: the only album ids the result may reference.
	known := make(map[string]bool, len(collection))
	for i := range collection {
		collection[i].Artist = sanitize.Clean(collection[i].Artist, maxNameChars)
		collection[i].Title = sanitize.Clean(collection[i].Title, maxNameChars)
		if collection[i].ID != "" {
			known[collection[i].ID] = true
		}
	}

	collectionJSON, err := marshalCollection(collection)
	if err != nil {
		return nil, apierr.Internal("collection_context", err)
	}
	p, err := prompts.Build(prompts.PromptPlaylistCurate, prompts.Input{
		Theme:          theme,
		CollectionJSON: collectionJSON,
	})
	if err != nil {
		return nil, apierr.Internal("prompt_build", err)
	}
	raw, err := s.heavy.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return nil, apierr.BadGateway("model_unavailable", err)
	}

	obj, repaired := repair.Object(raw, p.Schema)
	if repaired {
		s.log.Warn("playlist response repaired", "prompt", p.Name)
	}

	name := repair.StringOf(obj, "playlist_name")
	if runes := []rune(name); len(runes) > maxPlaylistName {
		name = string(runes[:maxPlaylistName])
	}

	items := make([]domain.PlaylistItem, 0)
	for _, it := range repair.ObjectsOf(obj, "items") {
		id := repair.StringOf(it, "album_id")
		if !known[id] {
			observability.Current().IncRepairEvent("playlist", "unknown_album_id")
			continue
		}
		items = append(items, domain.PlaylistItem{
			AlbumID: id,
			Artist:  repair.StringOf(it, "artist"),
			Title:   repair.StringOf(it, "title"),
			Reason:  repair.StringOf(it, "reason"),
		})
	}
	if len(items) == 0 {
		return nil, apierr.Internal("empty_playlist",
			fmt.Errorf("AI returned an empty playlist. Please try again."))
	}
	if name == "" {
		name = "Untitled Playlist"
	}
	return &domain.PlaylistResult{PlaylistName: name, Items: items}, nil
}
