package prompts

// Per-task response schemas. Every array carries its truncation cap as
// maxItems; the repairer reads the same value, so prompt declaration and
// repair policy cannot drift apart.

const (
	MaxCoverResults     = 10
	MaxPlaylistItems    = 50
	MaxGenres           = 5
	MaxAlternativeURLs  = 3
	MaxSignalChainItems = 20
	MaxConnections      = 30
	MaxSettings         = 20
	MaxTips             = 10
	MaxWarnings         = 10
)

func IdentifyAlbumSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"match":      BoolSchema(),
		"artist":     StringOrNullSchema(),
		"title":      StringOrNullSchema(),
		"confidence": EnumSchema("low", "medium", "high"),
	}, []string{"match", "artist", "title", "confidence"})
}

func AlbumMetadataSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"year":        IntOrNullSchema(),
		"label":       StringOrNullSchema(),
		"genres":      StringArraySchema(MaxGenres),
		"description": StringSchema(),
	}, []string{"year", "label", "genres", "description"})
}

func CoverSearchSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"covers": StringArraySchema(MaxCoverResults),
	}, []string{"covers"})
}

func PlaylistCurateSchema() map[string]any {
	item := ObjectSchema(map[string]any{
		"album_id": StringSchema(),
		"artist":   StringSchema(),
		"title":    StringSchema(),
		"reason":   StringSchema(),
	}, []string{"album_id", "artist", "title"})
	return ObjectSchema(map[string]any{
		"playlist_name": StringSchema(),
		"items":         ArraySchema(item, MaxPlaylistItems),
	}, []string{"playlist_name", "items"})
}

func ManualLookupSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"manual_url":       StringOrNullSchema(),
		"source":           StringOrNullSchema(),
		"confidence":       EnumSchema("low", "medium", "high"),
		"alternative_urls": StringArraySchema(MaxAlternativeURLs),
	}, []string{"manual_url", "source", "confidence", "alternative_urls"})
}

func SetupGuideSchema() map[string]any {
	chainItem := ObjectSchema(map[string]any{
		"position": IntSchema(),
		"item":     StringSchema(),
		"role":     StringSchema(),
	}, []string{"position", "item"})
	connection := ObjectSchema(map[string]any{
		"from":  StringSchema(),
		"to":    StringSchema(),
		"cable": StringSchema(),
	}, []string{"from", "to"})
	setting := ObjectSchema(map[string]any{
		"item":    StringSchema(),
		"setting": StringSchema(),
		"value":   StringSchema(),
	}, []string{"item", "setting", "value"})
	return ObjectSchema(map[string]any{
		"signal_chain": ArraySchema(chainItem, MaxSignalChainItems),
		"connections":  ArraySchema(connection, MaxConnections),
		"settings":     ArraySchema(setting, MaxSettings),
		"tips":         StringArraySchema(MaxTips),
		"warnings":     StringArraySchema(MaxWarnings),
	}, []string{"signal_chain", "connections", "settings", "tips", "warnings"})
}
