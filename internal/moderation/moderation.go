// Package moderation validates user-supplied wallpaper text.
package moderation

import (
	"strings"
	"unicode/utf8"

	"linewall/internal/pkg/errors"
)

// MaxTextRunes is the longest text that fits the template layouts.
const MaxTextRunes = 10

// blocklist covers English and Thai; matching is case-insensitive
// substring, mirroring how users smuggle words past word-boundary
// filters.
var blocklist = []string{
	// English
	"fuck", "shit", "bitch", "bastard", "dick", "pussy", "cock",
	// Thai
	"ควย", "หี", "เหี้ย", "ไอ้สัส", "เชี่ย", "แม่ง", "สัส", "เย็ด",
}

// ContainsProfanity reports whether text matches the blocklist.
func ContainsProfanity(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range blocklist {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ValidateText checks the custom wallpaper text. Returns a typed
// validation error describing the first rule violated.
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.ValidationField("text", "text cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxTextRunes {
		return errors.ValidationField("text", "text cannot exceed 10 characters")
	}
	if ContainsProfanity(trimmed) {
		return errors.ValidationField("text", "text contains inappropriate words")
	}
	return nil
}
