package prompts

type PromptName string

const (
	// Collection
	PromptIdentifyAlbum PromptName = "identify_album"
	PromptAlbumMetadata PromptName = "album_metadata"
	PromptCoverSearch   PromptName = "cover_search"

	// Curation
	PromptPlaylistCurate PromptName = "playlist_curate"

	// Gear
	PromptManualLookup PromptName = "manual_lookup"
	PromptSetupGuide   PromptName = "setup_guide"
)
