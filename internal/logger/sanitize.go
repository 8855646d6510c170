package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxUserIDLength is the maximum length for user IDs in logs; provider
	// ids are caller-controlled strings, not fixed-width values
	MaxUserIDLength = 128
)

// SanitizePath sanitizes a URL path for safe logging.
// Removes control characters, truncates to MaxPathLength, and validates UTF-8.
func SanitizePath(path string) string {
	return sanitize(path, MaxPathLength)
}

// SanitizeUserID sanitizes a provider-supplied user id for safe logging.
func SanitizeUserID(userID string) string {
	return sanitize(userID, MaxUserIDLength)
}

// sanitize validates UTF-8, removes control characters (keeps printable,
// space, tab, newline, CR) and truncates to maxLength.
func sanitize(s string, maxLength int) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}

	return s
}
