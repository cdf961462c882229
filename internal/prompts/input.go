package prompts

// Input is a superset of all fields any prompt might need. Missing fields
// render empty strings (templates use missingkey=zero). Every string field
// must already be sanitized by the caller; nothing here re-checks.
type Input struct {
	// Record fields
	Artist string
	Title  string

	// Free-text playlist theme
	Theme string

	// Serialized context (JSON built by the task service, element-capped)
	CollectionJSON string
	GearJSON       string

	// Gear fields
	Brand string
	Model string
}
