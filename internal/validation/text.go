package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxDescriptionLength = 500
	MaxEvidenceLength    = 2000
)

var (
	ErrRequired = errors.New("is required")
	ErrTooLong  = errors.New("is too long")
	ErrEncoding = errors.New("is not valid UTF-8")
)

// Text trims s and checks it is valid UTF-8, non-empty and at most max
// characters. Invalid UTF-8 would not survive a JSON round trip.
func Text(field, s string, max int) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%s %w", field, ErrEncoding)
	}

	trimmed := strings.TrimSpace(s)

	if trimmed == "" {
		return "", fmt.Errorf("%s %w", field, ErrRequired)
	}

	if utf8.RuneCountInString(trimmed) > max {
		return "", fmt.Errorf("%s %w (max %d characters)", field, ErrTooLong, max)
	}

	return trimmed, nil
}
