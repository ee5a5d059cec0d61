package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wallpaper-scraper/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// Required: Theme
	if strings.TrimSpace(c.Theme) == "" {
		return nil, fmt.Errorf("%w: theme is required", utils.ErrConfigValidation)
	}

	// Mode
	switch c.Mode {
	case "":
		warnings = append(warnings, "mode not specified, defaulting to 'month'")
		c.Mode = "month"
	case "month", "category":
	default:
		return nil, fmt.Errorf("%w: mode must be 'month' or 'category', got %q", utils.ErrConfigValidation, c.Mode)
	}

	// Month (month mode only)
	if c.Mode == "month" {
		if c.Month == "" {
			return nil, fmt.Errorf("%w: month (MMYYYY) is required in month mode", utils.ErrConfigValidation)
		}
		if _, _, merr := c.TargetMonth(); merr != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrConfigValidation, merr)
		}
	}

	// Resolution filter
	if c.Resolution != "" {
		if _, rerr := utils.ParseResolution(c.Resolution); rerr != nil {
			return nil, rerr
		}
	}

	// BaseURL
	if c.BaseURL == "" {
		c.BaseURL = "https://www.smashingmagazine.com"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	// CategoryPath
	if c.CategoryPath == "" {
		c.CategoryPath = "/category/wallpapers/"
	}
	if !strings.HasPrefix(c.CategoryPath, "/") {
		c.CategoryPath = "/" + c.CategoryPath
	}

	// ArticleSlugMarker
	if c.ArticleSlugMarker == "" {
		c.ArticleSlugMarker = "desktop-wallpaper-calendars"
	}

	// UserAgent
	if c.UserAgent == "" {
		c.UserAgent = "wallpaper-scraper/1.0"
	}

	// OutputDir
	if c.OutputDir == "" {
		warnings = append(warnings, "output_dir is empty, defaulting to './wallpapers'")
		c.OutputDir = "wallpapers"
	}

	// ScratchDir: shared temp area outside the resolution tree so partial
	// downloads never look like completed ones. Kept under the output dir
	// so the final move stays a same-filesystem rename.
	if c.ScratchDir == "" {
		c.ScratchDir = filepath.Join(c.OutputDir, ".scratch")
	}

	// Threads
	if c.Threads <= 0 {
		warnings = append(warnings, "threads should be > 0, defaulting to 4")
		c.Threads = 4
	}

	// Delay
	if c.Delay < 0 {
		warnings = append(warnings, "delay cannot be negative, setting to 0")
		c.Delay = 0
	}
	if c.Delay == 0 {
		warnings = append(warnings, "no politeness delay configured, defaulting to 1s")
		c.Delay = 1 * time.Second
	}

	// Cooldown after a 429 response
	if c.Cooldown <= 0 {
		c.Cooldown = 60 * time.Second
	}

	// MaxInFlight
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = c.Threads
	}

	c.validateHTTPClientSettings()

	return warnings, nil
}

// TargetResolution returns the parsed resolution filter, or the zero
// Resolution when no filter is configured. Call after Validate.
func (c *AppConfig) TargetResolution() utils.Resolution {
	if c.Resolution == "" {
		return utils.Resolution{}
	}
	res, err := utils.ParseResolution(c.Resolution)
	if err != nil {
		return utils.Resolution{}
	}
	return res
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = 45 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}
