package repair

import (
	"reflect"
	"testing"

	"github.com/spinshelf/spinshelf-backend/internal/prompts"
)

func TestParseTolerant(t *testing.T) {
	obj, ok := Parse("```json\n{\"a\": 1}\n```")
	if !ok {
		t.Fatalf("expected parse of fenced json")
	}
	if obj["a"] != float64(1) {
		t.Fatalf("a = %v", obj["a"])
	}

	obj, ok = Parse("Here is the result: {\"b\": true} hope it helps")
	if !ok || obj["b"] != true {
		t.Fatalf("expected embedded object parse, got %v ok=%v", obj, ok)
	}

	if _, ok := Parse("not json at all"); ok {
		t.Fatalf("expected parse failure")
	}
	if _, ok := Parse(""); ok {
		t.Fatalf("expected parse failure for empty input")
	}
}

func TestObjectFillsMissingFields(t *testing.T) {
	out, repaired := Object(map[string]any{}, prompts.IdentifyAlbumSchema())
	if !repaired {
		t.Fatalf("expected repaired=true")
	}
	if out["match"] != false {
		t.Fatalf("match = %v", out["match"])
	}
	if out["artist"] != nil || out["title"] != nil {
		t.Fatalf("nullable fields should default to nil: %v / %v", out["artist"], out["title"])
	}
	if out["confidence"] != "low" {
		t.Fatalf("confidence = %v", out["confidence"])
	}
}

func TestObjectNilInput(t *testing.T) {
	out, repaired := Object(nil, prompts.CoverSearchSchema())
	if !repaired {
		t.Fatalf("expected repaired=true")
	}
	covers, ok := out["covers"].([]any)
	if !ok || len(covers) != 0 {
		t.Fatalf("covers = %v", out["covers"])
	}
}

func TestEnumFallsBackToFirstValue(t *testing.T) {
	out, repaired := Object(map[string]any{
		"match":      true,
		"artist":     "Nina Simone",
		"title":      "Pastel Blues",
		"confidence": "extremely high",
	}, prompts.IdentifyAlbumSchema())
	if !repaired {
		t.Fatalf("expected repaired=true")
	}
	if out["confidence"] != "low" {
		t.Fatalf("confidence = %v", out["confidence"])
	}
	if out["artist"] != "Nina Simone" {
		t.Fatalf("valid fields must survive repair: %v", out["artist"])
	}
}

func TestStringArrayDropsNonStrings(t *testing.T) {
	out, repaired := Object(map[string]any{
		"covers": []any{"https://a.example/x.jpg", float64(3), map[string]any{}, "https://b.example/y.jpg", "  "},
	}, prompts.CoverSearchSchema())
	if !repaired {
		t.Fatalf("expected repaired=true")
	}
	got := StringsOf(out, "covers")
	want := []string{"https://a.example/x.jpg", "https://b.example/y.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("covers = %v", got)
	}
}

func TestArrayCapFromSchema(t *testing.T) {
	covers := make([]any, 0, prompts.MaxCoverResults+5)
	for i := 0; i < prompts.MaxCoverResults+5; i++ {
		covers = append(covers, "https://example.com/c.jpg")
	}
	out, _ := Object(map[string]any{"covers": covers}, prompts.CoverSearchSchema())
	if got := len(StringsOf(out, "covers")); got != prompts.MaxCoverResults {
		t.Fatalf("len = %d, want %d", got, prompts.MaxCoverResults)
	}
}

func TestObjectArrayDropsIncompleteElements(t *testing.T) {
	out, _ := Object(map[string]any{
		"playlist_name": " Late Night ",
		"items": []any{
			map[string]any{"album_id": "r1", "artist": "Can", "title": "Future Days", "reason": "hypnotic"},
			map[string]any{"artist": "Neu!", "title": "Neu! 75"},
			map[string]any{"album_id": "", "artist": "Faust", "title": "IV"},
			"not an object",
			map[string]any{"album_id": "r2", "artist": "Cluster", "title": "Zuckerzeit"},
		},
	}, prompts.PlaylistCurateSchema())
	if out["playlist_name"] != "Late Night" {
		t.Fatalf("playlist_name = %q", out["playlist_name"])
	}
	items := ObjectsOf(out, "items")
	if len(items) != 2 {
		t.Fatalf("items = %v", items)
	}
	if items[0]["album_id"] != "r1" || items[1]["album_id"] != "r2" {
		t.Fatalf("kept wrong items: %v", items)
	}
	if items[0]["reason"] != "hypnotic" {
		t.Fatalf("optional field lost: %v", items[0])
	}
}

func TestIntAndNullableCoercion(t *testing.T) {
	out, _ := Object(map[string]any{
		"year":        float64(1973),
		"label":       nil,
		"genres":      []any{"jazz", "soul"},
		"description": "A record.",
	}, prompts.AlbumMetadataSchema())
	if out["year"] != 1973 {
		t.Fatalf("year = %v (%T)", out["year"], out["year"])
	}
	if out["label"] != nil {
		t.Fatalf("label = %v", out["label"])
	}

	out, repaired := Object(map[string]any{
		"year":        "nineteen seventy three",
		"label":       "",
		"genres":      "jazz",
		"description": nil,
	}, prompts.AlbumMetadataSchema())
	if !repaired {
		t.Fatalf("expected repaired=true")
	}
	if out["year"] != nil {
		t.Fatalf("unparseable nullable int should become nil, got %v", out["year"])
	}
	if out["label"] != nil {
		t.Fatalf("empty nullable string should become nil, got %v", out["label"])
	}
	if got := StringsOf(out, "genres"); len(got) != 0 {
		t.Fatalf("non-array should become empty array, got %v", got)
	}
	if out["description"] != "" {
		t.Fatalf("description = %v", out["description"])
	}
}

func TestSetupGuideChainCoercion(t *testing.T) {
	out, _ := Object(map[string]any{
		"signal_chain": []any{
			map[string]any{"position": float64(1), "item": "Technics SL-1200", "role": "turntable"},
			map[string]any{"position": float64(2), "item": "Schiit Mani"},
			map[string]any{"role": "amp"},
		},
		"connections": []any{
			map[string]any{"from": "Technics SL-1200", "to": "Schiit Mani", "cable": "RCA with ground"},
		},
		"settings": []any{},
		"tips":     []any{"Level the plinth."},
		"warnings": []any{},
	}, prompts.SetupGuideSchema())
	chain := ObjectsOf(out, "signal_chain")
	if len(chain) != 2 {
		t.Fatalf("signal_chain = %v", chain)
	}
	if chain[0]["position"] != 1 {
		t.Fatalf("position = %v (%T)", chain[0]["position"], chain[0]["position"])
	}
	if chain[1]["role"] != "" {
		t.Fatalf("missing optional role should default empty, got %v", chain[1]["role"])
	}
	conns := ObjectsOf(out, "connections")
	if len(conns) != 1 || conns[0]["cable"] != "RCA with ground" {
		t.Fatalf("connections = %v", conns)
	}
}

func TestAccessors(t *testing.T) {
	obj := map[string]any{
		"s":  "x",
		"n":  float64(7),
		"b":  true,
		"nl": nil,
	}
	if StringOf(obj, "s") != "x" || StringOf(obj, "nl") != "" {
		t.Fatalf("StringOf mismatch")
	}
	if !BoolOf(obj, "b") || BoolOf(obj, "missing") {
		t.Fatalf("BoolOf mismatch")
	}
	if p := IntPtrOf(obj, "n"); p == nil || *p != 7 {
		t.Fatalf("IntPtrOf = %v", p)
	}
	if IntPtrOf(obj, "nl") != nil {
		t.Fatalf("IntPtrOf(nil) should be nil")
	}
	if p := StringPtrOf(obj, "s"); p == nil || *p != "x" {
		t.Fatalf("StringPtrOf = %v", p)
	}
	if StringPtrOf(obj, "nl") != nil {
		t.Fatalf("StringPtrOf(nil) should be nil")
	}
}
