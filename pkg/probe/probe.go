// Package probe reads image dimensions from raw bytes.
package probe

import (
	"bytes"
	"image"

	// Register the decoders for the wallpaper formats the extractor accepts.
	_ "image/jpeg"
	_ "image/png"

	"wallpaper-scraper/pkg/utils"
)

// Dimensions decodes just enough of the image header to return its size.
// Returns false when the bytes are not a decodable image.
func Dimensions(data []byte) (utils.Resolution, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return utils.Resolution{}, false
	}
	return utils.Resolution{Width: cfg.Width, Height: cfg.Height}, true
}
