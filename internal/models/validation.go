package models

import (
	"fmt"
	"strings"
	"time"

	apperr "linkhut/internal/pkg/errors"
)

const maxTagLength = 50

// isoLayouts are the ISO-8601 forms accepted for dates, tried in order.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ValidateTagName checks that name is 1-50 characters of letters, digits,
// hyphens and underscores.
func ValidateTagName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: tag name cannot be empty", apperr.ErrInvalidTagFormat)
	}
	if len(name) > maxTagLength {
		return "", fmt.Errorf("%w: tag %q exceeds maximum length of %d characters", apperr.ErrInvalidTagFormat, name, maxTagLength)
	}
	for _, r := range name {
		if !isTagRune(r) {
			return "", fmt.Errorf("%w: invalid characters present in tag name: %s", apperr.ErrInvalidTagFormat, name)
		}
	}
	return name, nil
}

func isTagRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

// ValidateDate accepts a time.Time or an ISO-8601 string.
func ValidateDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", apperr.ErrInvalidDateFormat)
		}
		return *d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: invalid date string format: %q", apperr.ErrInvalidDateFormat, d)
	default:
		return time.Time{}, fmt.Errorf("%w: date must be a time or an ISO formatted string, got %T", apperr.ErrInvalidDateFormat, v)
	}
}
