package prompts

import (
	"strings"
	"testing"
)

func TestRegisterAllBuilds(t *testing.T) {
	RegisterAll()

	in := Input{
		Artist:         "Alice Coltrane",
		Title:          "Journey in Satchidananda",
		Theme:          "late night",
		CollectionJSON: `[{"id":"r1","artist":"Alice Coltrane","title":"Journey in Satchidananda"}]`,
		GearJSON:       `[{"type":"turntable","brand":"Rega","model":"Planar 3"}]`,
		Brand:          "Rega",
		Model:          "Planar 3",
	}
	for _, name := range []PromptName{
		PromptIdentifyAlbum,
		PromptAlbumMetadata,
		PromptCoverSearch,
		PromptPlaylistCurate,
		PromptManualLookup,
		PromptSetupGuide,
	} {
		p, err := Build(name, in)
		if err != nil {
			t.Fatalf("Build(%s): %v", name, err)
		}
		if p.System == "" || p.User == "" {
			t.Fatalf("%s: empty rendered prompt", name)
		}
		if p.SchemaName == "" || p.Schema == nil {
			t.Fatalf("%s: missing schema", name)
		}
		if strings.HasPrefix(p.System, "\n") || strings.HasSuffix(p.User, "\n") {
			t.Fatalf("%s: rendered prompt not trimmed", name)
		}
	}
}

func TestBuildSubstitutesInput(t *testing.T) {
	RegisterAll()

	p, err := Build(PromptAlbumMetadata, Input{Artist: "Can", Title: "Tago Mago"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "artist: Can") || !strings.Contains(p.User, "title: Tago Mago") {
		t.Fatalf("input not substituted:\n%s", p.User)
	}
}

func TestBuildValidatorRejectsMissingInput(t *testing.T) {
	RegisterAll()

	if _, err := Build(PromptAlbumMetadata, Input{Artist: "Can"}); err == nil {
		t.Fatalf("expected validator error for missing Title")
	}
	if _, err := Build(PromptPlaylistCurate, Input{Theme: "x"}); err == nil {
		t.Fatalf("expected validator error for missing CollectionJSON")
	}
}

func TestBuildUnknownPrompt(t *testing.T) {
	if _, err := Build(PromptName("nope"), Input{}); err == nil {
		t.Fatalf("expected error for unknown prompt")
	}
}
