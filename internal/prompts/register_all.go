package prompts

// RegisterAll registers every prompt in the registry using
// RegisterSpec(Spec{...}). Instruction blocks always spell out what to emit
// in the ambiguous case; the model is never left to pick a format.

func RegisterAll() {
	// ---------- Collection ----------

	RegisterSpec(Spec{
		Name:       PromptIdentifyAlbum,
		Version:    1,
		SchemaName: "identify_album",
		Schema:     IdentifyAlbumSchema,
		System: `
You identify vinyl record albums from a photo of the cover or label.
Only use what is visible in the image. Do not guess from partial text.
Return JSON only.`,
		User: `
Identify the album shown in the attached photo.

Rules:
1. Read artist and album title from the cover art, spine or center label.
2. Prefer the original artist/title over reissue or compilation branding.
3. If you cannot identify the album with reasonable certainty, set match to
   false and set artist and title to null.
4. confidence: high only when both artist and title are clearly legible;
   medium when inferred from distinctive artwork; low otherwise.`,
	})

	RegisterSpec(Spec{
		Name:       PromptAlbumMetadata,
		Version:    1,
		SchemaName: "album_metadata",
		Schema:     AlbumMetadataSchema,
		System: `
You enrich vinyl record metadata for a collection app.
Answer from general discography knowledge. Never invent a year or label.
Return JSON only.`,
		User: `
Album:
artist: {{.Artist}}
title: {{.Title}}

Rules:
1. year: original release year of the album, or null if unsure.
2. label: original record label, or null if unsure.
3. genres: 1-5 short lowercase genre tags.
4. description: 2-4 sentence factual description. No marketing language.`,
		Validators: []Validator{
			RequireNonEmpty("Artist", func(in Input) string { return in.Artist }),
			RequireNonEmpty("Title", func(in Input) string { return in.Title }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptCoverSearch,
		Version:    1,
		SchemaName: "cover_search",
		Schema:     CoverSearchSchema,
		System: `
You find direct image URLs for album cover art.
Only emit URLs you are confident resolve to the actual cover image.
Return JSON only.`,
		User: `
Album:
artist: {{.Artist}}
title: {{.Title}}

Rules:
1. covers: up to 10 direct image URLs (jpg/png/webp), best candidates first.
2. Prefer well-known stable hosts (archive.org, wikimedia, label sites).
3. Never emit search-result page URLs, only direct image URLs.
4. If you know no reliable URL, return an empty covers array.`,
		Validators: []Validator{
			RequireNonEmpty("Artist", func(in Input) string { return in.Artist }),
			RequireNonEmpty("Title", func(in Input) string { return in.Title }),
		},
	})

	// ---------- Curation ----------

	RegisterSpec(Spec{
		Name:       PromptPlaylistCurate,
		Version:    1,
		SchemaName: "playlist_curate",
		Schema:     PlaylistCurateSchema,
		System: `
You curate listening playlists strictly from the user's own record collection.
Every item you pick must come from COLLECTION_JSON, referenced by its id.
Never invent albums and never reference ids that are not in COLLECTION_JSON.
Return JSON only.`,
		User: `
THEME:
{{.Theme}}

COLLECTION_JSON (the user's records; pick only from these, by "id"):
{{.CollectionJSON}}

Rules:
1. playlist_name: a short evocative name for the playlist, max 100 characters.
2. items: albums from COLLECTION_JSON that fit the theme, in listening order.
3. album_id must be the exact "id" value from COLLECTION_JSON.
4. reason: one sentence on why the album fits. Optional but preferred.
5. If few albums fit, return fewer items; never pad with weak fits.
6. If nothing fits at all, return an empty items array.`,
		Validators: []Validator{
			RequireNonEmpty("Theme", func(in Input) string { return in.Theme }),
			RequireNonEmpty("CollectionJSON", func(in Input) string { return in.CollectionJSON }),
		},
	})

	// ---------- Gear ----------

	RegisterSpec(Spec{
		Name:       PromptManualLookup,
		Version:    1,
		SchemaName: "manual_lookup",
		Schema:     ManualLookupSchema,
		System: `
You locate official user manuals for turntables and hifi gear.
Use web search to verify URLs before emitting them.
Return JSON only.`,
		User: `
Gear:
brand: {{.Brand}}
model: {{.Model}}

Rules:
1. manual_url: a direct link to the manual (PDF preferred), manufacturer site
   first, then reputable archives (vinylengine, manualslib). Null if none found.
2. source: short name of the site the manual_url points at, or null.
3. confidence: high only for a manufacturer-hosted manual for this exact
   model; medium for archives; low when unsure.
4. alternative_urls: up to 3 further candidate links, best first.
5. If you find nothing, set manual_url and source to null, confidence to low,
   and alternative_urls to an empty array.`,
		Validators: []Validator{
			RequireNonEmpty("Brand", func(in Input) string { return in.Brand }),
			RequireNonEmpty("Model", func(in Input) string { return in.Model }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptSetupGuide,
		Version:    1,
		SchemaName: "setup_guide",
		Schema:     SetupGuideSchema,
		System: `
You write practical setup guides for vinyl playback systems.
Work only with the gear in GEAR_JSON plus unavoidable accessories (cables).
Return JSON only.`,
		User: `
GEAR_JSON (the user's equipment):
{{.GearJSON}}

Rules:
1. signal_chain: every item in GEAR_JSON in signal order, position starting
   at 1. Include a phono stage position if one is needed and present.
2. connections: each physical connection as from/to with the cable type.
3. settings: concrete initial values (tracking force, anti-skate, gain, etc.)
   per item where applicable.
4. tips: up to 10 short, actionable tips specific to this gear.
5. warnings: real hazards or common mistakes for this combination only.
6. Do not return empty signal_chain and connections; if gear is unidentifiable,
   describe the generic chain for the listed item types instead.`,
		Validators: []Validator{
			RequireNonEmpty("GearJSON", func(in Input) string { return in.GearJSON }),
		},
	})
}
