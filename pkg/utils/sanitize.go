package utils

import (
	"regexp"
	"strings"
)

// --- Title Sanitization ---
var nonWordRuns = regexp.MustCompile(`\W+`) // Runs of anything outside [A-Za-z0-9_]
const maxTitleLength = 100                  // Max length for sanitized title components

// SafeTitle cleans a wallpaper group title for use as a filename prefix.
// Non-word runs collapse to a single underscore.
func SafeTitle(title string) string {
	sanitized := nonWordRuns.ReplaceAllString(title, "_")
	sanitized = strings.Trim(sanitized, "_")

	if len(sanitized) > maxTitleLength {
		sanitized = sanitized[:maxTitleLength]
		sanitized = strings.Trim(sanitized, "_")
	}

	if sanitized == "" {
		sanitized = "untitled"
	}
	return sanitized
}
