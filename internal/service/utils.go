package service

import (
	"strings"
	"unicode/utf8"

	"expense-tracker/internal/models"
)

// sanitizeUTF8 drops invalid UTF-8 bytes so the text can be stored in a
// UTF-8 encoded column.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

// normalizeDescription sanitizes d and checks its length. Nil stays nil.
func normalizeDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}
	clean := sanitizeUTF8(*d)
	if utf8.RuneCountInString(clean) > models.MaxDescriptionLength {
		return nil, newValidationError("Description must be at most %d characters", models.MaxDescriptionLength)
	}
	return &clean, nil
}

func validateYearMonth(year, month int) error {
	if year < 2000 {
		return newValidationError("Year must be 2000 or later")
	}
	if month < 1 || month > 12 {
		return newValidationError("Month must be between 1 and 12")
	}
	return nil
}
