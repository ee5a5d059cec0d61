// Package crawler drives the two-phase pipeline: discover article pages
// and extract wallpaper groups, then download every collected link. The
// phases run sequentially; the page pool fully joins before the download
// pool starts, keeping the total in-flight request count easy to reason
// about.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"

	"wallpaper-scraper/pkg/config"
	"wallpaper-scraper/pkg/download"
	"wallpaper-scraper/pkg/extract"
	"wallpaper-scraper/pkg/fetch"
	"wallpaper-scraper/pkg/models"
	"wallpaper-scraper/pkg/pool"
	"wallpaper-scraper/pkg/queue"
	"wallpaper-scraper/pkg/report"
)

// Crawler owns one scraping run.
type Crawler struct {
	cfg        *config.AppConfig
	fetcher    *fetch.Fetcher
	downloader *download.Downloader
	agg        *report.Aggregator
	base       *url.URL
	log        *logrus.Logger
}

// New creates a Crawler. The configured base URL must parse.
func New(cfg *config.AppConfig, fetcher *fetch.Fetcher, downloader *download.Downloader, agg *report.Aggregator, log *logrus.Logger) (*Crawler, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	return &Crawler{
		cfg:        cfg,
		fetcher:    fetcher,
		downloader: downloader,
		agg:        agg,
		base:       base,
		log:        log,
	}, nil
}

// MonthArticleURL builds the article URL for a target wallpaper month.
// The article is published the month before the wallpapers apply, so a
// July 2024 target lives under /2024/06/ with a july-2024 slug.
func MonthArticleURL(baseURL string, year int, month time.Month, slugMarker string) string {
	pub := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	slug := fmt.Sprintf("%s-%s-%d", slugMarker, strings.ToLower(month.String()), year)
	return fmt.Sprintf("%s/%d/%02d/%s/", strings.TrimRight(baseURL, "/"), pub.Year(), int(pub.Month()), slug)
}

// Run executes the full pipeline and logs the final summary. Top-level
// page fetch failures abort the run; download failures are item-local.
func (c *Crawler) Run(ctx context.Context) error {
	pageURLs, err := c.discoverPages(ctx)
	if err != nil {
		return err
	}
	if len(pageURLs) == 0 {
		c.log.Warn("No article pages found, nothing to do")
		return nil
	}
	c.log.WithField("pages", len(pageURLs)).Info("Starting page fetch phase")

	if err := c.runPagePhase(ctx, pageURLs); err != nil {
		return err
	}

	tasks := models.Tasks(c.agg.Groups())
	if len(tasks) == 0 {
		c.log.WithField("theme", c.cfg.Theme).Warn("No wallpaper links matched the theme")
		return nil
	}
	c.log.WithField("tasks", len(tasks)).Info("Starting download phase")

	if err := c.runDownloadPhase(ctx, tasks); err != nil {
		return err
	}

	c.agg.LogSummary()
	return nil
}

// discoverPages resolves the article URLs for the configured mode: the
// single constructed URL in month mode, or the paginated category listing
// in category mode.
func (c *Crawler) discoverPages(ctx context.Context) ([]string, error) {
	if c.cfg.Mode == "month" {
		year, month, err := c.cfg.TargetMonth()
		if err != nil {
			return nil, err
		}
		articleURL := MonthArticleURL(c.cfg.BaseURL, year, month, c.cfg.ArticleSlugMarker)
		c.log.WithField("url", articleURL).Info("Targeting month article")
		return []string{articleURL}, nil
	}

	startURL := c.cfg.BaseURL + c.cfg.CategoryPath
	docs, err := c.Paginate(ctx, startURL)
	if err != nil {
		return nil, err
	}
	links := c.CollectArticleLinks(docs)
	c.log.WithFields(logrus.Fields{"listing_pages": len(docs), "articles": len(links)}).Info("Category crawl complete")
	return links, nil
}

// Paginate fetches the listing page at startURL and follows "next" links
// until a page is denied by policy, exhausted, or revisited. Fetch
// failures here are fatal for the run.
func (c *Crawler) Paginate(ctx context.Context, startURL string) ([]*goquery.Document, error) {
	var docs []*goquery.Document
	visited := make(map[string]bool)

	current := startURL
	for current != "" && !visited[current] {
		visited[current] = true

		html, err := c.fetcher.FetchPage(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("fetching listing page '%s': %w", current, err)
		}
		if html == "" {
			// Policy denial ends pagination quietly.
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("parsing listing page '%s': %w", current, err)
		}
		docs = append(docs, doc)

		current = extract.NextPageLink(doc, c.base)
	}

	return docs, nil
}

// CollectArticleLinks scans listing pages for article links matching the
// configured slug marker, de-duplicated in first-seen order.
func (c *Crawler) CollectArticleLinks(docs []*goquery.Document) []string {
	var links []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, link := range extract.ArticleLinks(doc, c.cfg.ArticleSlugMarker, c.base) {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}
	return links
}

// runPagePhase fetches each article page and feeds extracted groups into
// the aggregator. A fetch failure on any page aborts the phase.
func (c *Crawler) runPagePhase(ctx context.Context, pageURLs []string) error {
	items := make([]models.WorkItem, 0, len(pageURLs))
	for _, u := range pageURLs {
		items = append(items, models.WorkItem{URL: u, Kind: models.KindPage})
	}
	q := queue.New(items...)
	phaseLog := c.log.WithField("phase", "pages")

	return pool.Run(ctx, c.cfg.Threads, q, phaseLog, func(ctx context.Context, item models.WorkItem) error {
		html, err := c.fetcher.FetchPage(ctx, item.URL)
		if err != nil {
			return fmt.Errorf("fetching article page '%s': %w", item.URL, err)
		}
		if html == "" {
			phaseLog.WithField("url", item.URL).Warn("Article page denied by access policy, skipping")
			return nil
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("parsing article page '%s': %w", item.URL, err)
		}

		groups := extract.Groups(doc, c.cfg.Theme, c.base)
		phaseLog.WithFields(logrus.Fields{"url": item.URL, "groups": len(groups)}).Debug("Page extracted")
		c.agg.AddGroups(groups)
		return nil
	})
}

// runDownloadPhase drains the task queue through the downloader, recording
// every outcome. Only context cancellation escapes; per-task failures are
// terminal for the task, not the run.
func (c *Crawler) runDownloadPhase(ctx context.Context, tasks []models.DownloadTask) error {
	q := queue.New(tasks...)
	phaseLog := c.log.WithField("phase", "download")

	var bar *pb.ProgressBar
	if !c.cfg.Quiet {
		bar = pb.StartNew(len(tasks))
		defer bar.Finish()
	}

	return pool.Run(ctx, c.cfg.Threads, q, phaseLog, func(ctx context.Context, task models.DownloadTask) error {
		outcome := c.downloader.Download(ctx, task)
		c.agg.Record(outcome)
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
}
