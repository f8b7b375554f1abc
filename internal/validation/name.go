package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxNameLength = 100

// ValidateName checks a profile display name: required, at most 100
// characters (not bytes, names are often accented), no control characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return errors.New("name is too long (max 100 characters)")
	}

	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return errors.New("name must not contain control characters")
	}

	return nil
}
