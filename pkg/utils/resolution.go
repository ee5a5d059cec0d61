package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// UnknownResolution is the bucket name used when no resolution could be
// derived from either the filename or the image bytes.
const UnknownResolution = "unknown_resolution"

var (
	resolutionPattern = regexp.MustCompile(`(\d+)x(\d+)`)
	exactResolution   = regexp.MustCompile(`^(\d+)x(\d+)$`)
)

// Resolution is an image width/height pair. The zero value means unknown.
type Resolution struct {
	Width  int
	Height int
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool { return r.Width == 0 && r.Height == 0 }

// Bucket returns the output directory name for the resolution,
// e.g. "1920x1080", or UnknownResolution for the zero value.
func (r Resolution) Bucket() string {
	if r.IsZero() {
		return UnknownResolution
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses a strict "WxH" string such as "1920x1080".
// Used for validating the --resolution flag.
func ParseResolution(s string) (Resolution, error) {
	m := exactResolution.FindStringSubmatch(s)
	if m == nil {
		return Resolution{}, fmt.Errorf("%w: resolution must be WxH (e.g. 1920x1080), got %q", ErrConfigValidation, s)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return Resolution{Width: w, Height: h}, nil
}

// ResolutionFromName extracts a provisional WxH resolution embedded in a
// filename (e.g. "wallpaper_1920x1080.jpg"). Returns the zero Resolution
// and false when the filename carries no such hint.
func ResolutionFromName(name string) (Resolution, bool) {
	m := resolutionPattern.FindStringSubmatch(name)
	if m == nil {
		return Resolution{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return Resolution{Width: w, Height: h}, true
}
