package sanitize

import "fmt"

// StringLength fails when value is a string longer than maxLength runes.
// Non-string values are not this check's business and pass.
func StringLength(value any, maxLength int, field string) error {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	if len([]rune(s)) > maxLength {
		return fmt.Errorf("%s must be at most %d characters", field, maxLength)
	}
	return nil
}

// Base64Size fails when the estimated decoded size of a base64 string exceeds
// maxMB. The estimate is the standard 3/4 expansion ratio and ignores
// padding; callers needing exactness must not rely on it alone. Exactly at
// the cap passes.
func Base64Size(value any, maxMB float64, field string) error {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	decodedBytes := float64(len(s)) * 3.0 / 4.0
	sizeMB := decodedBytes / (1024 * 1024)
	if sizeMB > maxMB {
		return fmt.Errorf("%s exceeds the maximum size of %gMB", field, maxMB)
	}
	return nil
}
