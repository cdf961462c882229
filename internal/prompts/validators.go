package prompts

import (
	"fmt"
	"strings"
)

// Validator rejects an Input before template rendering. Build runs all of a
// Spec's validators and fails on the first error.
type Validator func(Input) error

// RequireNonEmpty fails Build when the selected field is blank, so a prompt
// never reaches the model with a hole where its subject should be.
func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if get == nil {
			return fmt.Errorf("validator for %s: getter is nil", field)
		}
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}
