package sanitize

import (
	"regexp"
	"strings"
)

type scrubRule struct {
	Label string
	Re    *regexp.Regexp
}

// Rules are removal (not escape) rules: any match is deleted outright. A user
// field that trips one of these was trying to leave its slot in the prompt,
// so nothing of the match is worth keeping.
var promptScrubRules = []scrubRule{
	{Label: "ignore instructions", Re: regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|above|prior)\s+instructions?`)},
	{Label: "disregard previous", Re: regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|above|prior)(?:\s+instructions?)?`)},
	{Label: "you are now", Re: regexp.MustCompile(`(?i)you\s+are\s+now`)},
	{Label: "new instructions", Re: regexp.MustCompile(`(?i)new\s+instructions?\s*:`)},
	{Label: "role label", Re: regexp.MustCompile(`(?im)^\s*(?:system|assistant|user|human)\s*:`)},
}

var (
	fenceRE   = regexp.MustCompile("`{3,}|`")
	newlineRE = regexp.MustCompile(`\n{3,}`)
)

const maxScrubPasses = 5

// Clean strips prompt-structural characters and known instruction-override
// patterns from user-supplied text, then truncates to maxLength runes.
// Truncation happens last so the final string respects the cap exactly.
// Never fails; always returns a string (possibly empty).
func Clean(text string, maxLength int) string {
	s := fenceRE.ReplaceAllString(text, "")

	// Deleting one match can splice a new one together, so scrub to a fixed
	// point (bounded).
	for i := 0; i < maxScrubPasses; i++ {
		before := s
		for _, r := range promptScrubRules {
			s = r.Re.ReplaceAllString(s, "")
		}
		if s == before {
			break
		}
	}

	// A field padded with blank lines can visually detach itself from the
	// instructions that follow it.
	s = newlineRE.ReplaceAllString(s, "\n\n")

	if maxLength >= 0 {
		runes := []rune(s)
		if len(runes) > maxLength {
			s = string(runes[:maxLength])
		}
	}

	return strings.TrimSpace(s)
}
