package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the full application configuration. Values come from an
// optional YAML file and are overridden by CLI flags before validation.
type AppConfig struct {
	// Site settings
	BaseURL           string `yaml:"base_url,omitempty"`
	CategoryPath      string `yaml:"category_path,omitempty"`
	ArticleSlugMarker string `yaml:"article_slug_marker,omitempty"`
	UserAgent         string `yaml:"user_agent,omitempty"`

	// Run settings (usually from flags)
	Theme      string `yaml:"theme,omitempty"`
	Mode       string `yaml:"mode,omitempty"`       // "month" or "category"
	Month      string `yaml:"month,omitempty"`      // MMYYYY, month mode only
	Resolution string `yaml:"resolution,omitempty"` // optional WxH filter

	// Output
	OutputDir  string `yaml:"output_dir,omitempty"`
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	// Concurrency and politeness
	Threads       int           `yaml:"threads,omitempty"`
	Delay         time.Duration `yaml:"delay,omitempty"`           // min gap between requests
	Cooldown      time.Duration `yaml:"cooldown,omitempty"`        // pause after a 429
	MaxInFlight   int           `yaml:"max_in_flight,omitempty"`   // cap on concurrent requests
	Quiet         bool          `yaml:"quiet,omitempty"`

	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout             time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns        int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	DialerTimeout       time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive     time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Load reads an AppConfig from a YAML file. A missing file is not an
// error; flags alone can carry a full configuration.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// TargetMonth parses the MMYYYY month setting into its parts.
func (c *AppConfig) TargetMonth() (year int, month time.Month, err error) {
	t, err := time.Parse("012006", c.Month)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be MMYYYY (e.g. 072024), got %q", c.Month)
	}
	return t.Year(), t.Month(), nil
}
