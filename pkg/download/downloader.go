// Package download places fetched wallpapers into resolution-bucketed
// directories. Placement is a two-stage resolve-then-confirm algorithm:
// a cheap existence pre-check on the filename-derived path happens before
// any network I/O, and the authoritative check plus atomic move happen
// under a single lock after the real resolution is known.
package download

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"wallpaper-scraper/pkg/fetch"
	"wallpaper-scraper/pkg/models"
	"wallpaper-scraper/pkg/probe"
	"wallpaper-scraper/pkg/utils"
)

// Skip reasons reported in outcomes.
const (
	ReasonAlreadyExists      = "already exists"
	ReasonResolutionMismatch = "resolution mismatch"
	ReasonPolicyDenied       = "denied by access policy"
)

// Downloader fetches one image per task, probes its resolution, applies
// the optional resolution filter, and atomically places the file. Safe for
// concurrent invocation across workers.
type Downloader struct {
	fetcher    *fetch.Fetcher
	outputDir  string
	scratchDir string
	filter     utils.Resolution // zero value = no filter

	// placeMu guards the only sequence needing cross-worker atomicity:
	// ensure directory exists -> check existence -> move into place.
	placeMu sync.Mutex

	log *logrus.Logger
}

// NewDownloader creates a Downloader. filter may be the zero Resolution to
// disable resolution filtering.
func NewDownloader(fetcher *fetch.Fetcher, outputDir, scratchDir string, filter utils.Resolution, log *logrus.Logger) *Downloader {
	return &Downloader{
		fetcher:    fetcher,
		outputDir:  outputDir,
		scratchDir: scratchDir,
		filter:     filter,
		log:        log,
	}
}

// Download processes one task to a terminal outcome. Network, HTTP, and
// filesystem failures are item-local: they are recorded and the run
// continues with the next task.
func (d *Downloader) Download(ctx context.Context, task models.DownloadTask) models.Outcome {
	taskLog := d.log.WithFields(logrus.Fields{"title": task.Title, "link": task.Link})

	parsed, err := url.Parse(task.Link)
	if err != nil {
		return models.Failed(task, "Parsing", fmt.Sprintf("invalid link: %v", err))
	}
	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" || filename == "" {
		return models.Failed(task, "Parsing", "link has no file basename")
	}
	safeTitle := utils.SafeTitle(task.Title)
	localName := safeTitle + "_" + filename

	// Provisional resolution from the filename. The probe result, when
	// available, overrides this later.
	guess, hasGuess := utils.ResolutionFromName(filename)

	// Cheap pre-check: if the provisional path already exists, skip before
	// spending any politeness budget.
	provisionalPath := d.bucketPath(guess, localName)
	if fileExists(provisionalPath) {
		taskLog.WithField("path", provisionalPath).Debug("Already downloaded, skipping")
		return models.Skipped(task, ReasonAlreadyExists)
	}

	// Fetch into the scratch area, never directly into the final tree.
	data, err := d.fetcher.FetchBytes(ctx, task.Link)
	if err != nil {
		return models.Failed(task, utils.CategorizeError(err), err.Error())
	}
	if data == nil {
		return models.Skipped(task, ReasonPolicyDenied)
	}

	tempPath := filepath.Join(d.scratchDir, localName)
	if err := os.MkdirAll(d.scratchDir, 0755); err != nil {
		return models.Failed(task, "Filesystem", fmt.Sprintf("creating scratch dir: %v", err))
	}
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		os.Remove(tempPath)
		return models.Failed(task, "Filesystem", fmt.Sprintf("writing temp file: %v", err))
	}

	// Resolve the authoritative resolution: probed dimensions win over the
	// filename-derived guess.
	resolved := guess
	if actual, ok := probe.Dimensions(data); ok {
		resolved = actual
	} else if hasGuess {
		taskLog.Warnf("Could not probe image dimensions, falling back to filename resolution %s", guess.Bucket())
	} else {
		taskLog.Warn("Could not probe image dimensions and filename has no hint, using unknown bucket")
	}

	if !d.filter.IsZero() && resolved != d.filter {
		os.Remove(tempPath)
		taskLog.WithFields(logrus.Fields{"resolved": resolved.Bucket(), "wanted": d.filter.Bucket()}).
			Debug("Resolution filter mismatch")
		return models.Skipped(task, ReasonResolutionMismatch)
	}

	// Authoritative placement with the corrected resolution. A second
	// worker may have produced the same corrected path concurrently, so
	// existence is re-checked under the lock before the move.
	finalPath := d.bucketPath(resolved, localName)
	placed, err := d.place(tempPath, finalPath)
	if err != nil {
		os.Remove(tempPath)
		return models.Failed(task, "Filesystem", err.Error())
	}
	if !placed {
		taskLog.WithField("path", finalPath).Debug("Final path appeared concurrently, skipping")
		return models.Skipped(task, ReasonAlreadyExists)
	}

	return models.Success(task, finalPath)
}

// place moves the temp file to finalPath under the placement lock.
// Returns false when finalPath already exists (temp removed).
func (d *Downloader) place(tempPath, finalPath string) (bool, error) {
	d.placeMu.Lock()
	defer d.placeMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return false, fmt.Errorf("creating bucket dir: %v", err)
	}
	if fileExists(finalPath) {
		os.Remove(tempPath)
		return false, nil
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return false, fmt.Errorf("moving into place: %v", err)
	}
	return true, nil
}

// bucketPath builds "{outputDir}/{WxH|unknown_resolution}/{name}".
func (d *Downloader) bucketPath(res utils.Resolution, name string) string {
	return filepath.Join(d.outputDir, res.Bucket(), name)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
