package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wallpaper-scraper/pkg/config"
	"wallpaper-scraper/pkg/crawler"
	"wallpaper-scraper/pkg/download"
	"wallpaper-scraper/pkg/fetch"
	"wallpaper-scraper/pkg/report"
)

const version = "1.0.0"

var (
	configFile   string
	theme        string
	month        string
	resolution   string
	mode         string
	threads      int
	delaySeconds int
	outputDir    string
	logLevel     string
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:     "wallpaper-scraper",
	Short:   "Download themed wallpapers from Smashing Magazine's monthly calendars",
	Version: version,
	Long: `wallpaper-scraper crawls Smashing Magazine's desktop wallpaper calendar
articles, extracts wallpaper links matching a theme, and downloads them
into resolution-bucketed directories.

Examples:
  wallpaper-scraper --theme nature --month 072024
  wallpaper-scraper --theme cats --month 012025 --resolution 1920x1080
  wallpaper-scraper --theme space --mode category --threads 8 --delay 2`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "config.yaml", "Path to optional YAML config file")
	flags.StringVar(&theme, "theme", "", "Theme to match against wallpaper headings (required)")
	flags.StringVar(&month, "month", "", "Target month as MMYYYY, e.g. 072024")
	flags.StringVar(&resolution, "resolution", "", "Only keep wallpapers of exactly this WxH, e.g. 1920x1080")
	flags.StringVar(&mode, "mode", "", "Crawl mode: 'month' (single article) or 'category' (full listing)")
	flags.IntVar(&threads, "threads", 0, "Number of concurrent workers per phase")
	flags.IntVar(&delaySeconds, "delay", 0, "Minimum seconds between any two requests")
	flags.StringVar(&outputDir, "output", "", "Directory for downloaded wallpapers")
	flags.StringVar(&logLevel, "loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	flags.BoolVar(&quiet, "quiet", false, "Suppress the progress bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevel, err)
	} else {
		log.SetLevel(level)
	}

	// --- Load Configuration (flags override file values) ---
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	warnings, err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, w := range warnings {
		log.Warnf("Config: %s", w)
	}

	// --- Signal handling ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Wiring ---
	client := fetch.NewClient(cfg.HTTPClientSettings, log)
	limiter := fetch.NewRateLimiter(cfg.Delay, log)
	policy := fetch.NewRobotsPolicy(client, limiter, cfg.UserAgent, log.WithField("component", "robots"))
	gate := fetch.NewAccessGate(policy, limiter, cfg.MaxInFlight, log.WithField("component", "gate"))
	fetcher := fetch.NewFetcher(client, gate, cfg.UserAgent, cfg.Cooldown, log)
	downloader := download.NewDownloader(fetcher, cfg.OutputDir, cfg.ScratchDir, cfg.TargetResolution(), log)
	agg := report.NewAggregator(log.WithField("component", "report"))

	c, err := crawler.New(cfg, fetcher, downloader, agg, log)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"theme":   cfg.Theme,
		"mode":    cfg.Mode,
		"threads": cfg.Threads,
		"delay":   cfg.Delay,
	}).Info("Starting wallpaper scrape")

	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	return nil
}

// applyFlags overlays explicitly set CLI flags onto the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.AppConfig) {
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("month") {
		cfg.Month = month
	}
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("delay") {
		cfg.Delay = time.Duration(delaySeconds) * time.Second
	}
	if flags.Changed("output") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("quiet") {
		cfg.Quiet = quiet
	}
}
