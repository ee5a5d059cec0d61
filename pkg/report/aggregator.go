// Package report accumulates extraction results and download outcomes
// across workers.
package report

import (
	"sync"

	"github.com/sirupsen/logrus"

	"wallpaper-scraper/pkg/models"
)

// Aggregator is the thread-safe collection point for wallpaper groups and
// per-task outcomes. Groups and outcomes are guarded by their own locks,
// distinct from any file-placement lock, so unrelated resources never
// contend.
type Aggregator struct {
	groupsMu sync.Mutex
	groups   []models.WallpaperGroup

	outcomesMu sync.Mutex
	outcomes   []models.Outcome

	log *logrus.Entry
}

// Summary is the final tally of a download phase.
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// NewAggregator creates an Aggregator.
func NewAggregator(log *logrus.Entry) *Aggregator {
	return &Aggregator{log: log}
}

// AddGroups appends extracted wallpaper groups.
func (a *Aggregator) AddGroups(groups []models.WallpaperGroup) {
	if len(groups) == 0 {
		return
	}
	a.groupsMu.Lock()
	a.groups = append(a.groups, groups...)
	a.groupsMu.Unlock()
}

// Groups returns a copy of the collected groups.
func (a *Aggregator) Groups() []models.WallpaperGroup {
	a.groupsMu.Lock()
	defer a.groupsMu.Unlock()
	out := make([]models.WallpaperGroup, len(a.groups))
	copy(out, a.groups)
	return out
}

// Record stores one download outcome and logs it at the appropriate level.
func (a *Aggregator) Record(outcome models.Outcome) {
	a.outcomesMu.Lock()
	a.outcomes = append(a.outcomes, outcome)
	a.outcomesMu.Unlock()

	outcomeLog := a.log.WithFields(logrus.Fields{"title": outcome.Task.Title, "link": outcome.Task.Link})
	switch outcome.Status {
	case models.OutcomeSuccess:
		outcomeLog.WithField("path", outcome.Path).Info("Downloaded")
	case models.OutcomeSkipped:
		outcomeLog.WithField("reason", outcome.Reason).Info("Skipped")
	case models.OutcomeFailed:
		outcomeLog.WithFields(logrus.Fields{"category": outcome.Kind, "detail": outcome.Detail}).Warn("Download failed")
	}
}

// Outcomes returns a copy of the recorded outcomes.
func (a *Aggregator) Outcomes() []models.Outcome {
	a.outcomesMu.Lock()
	defer a.outcomesMu.Unlock()
	out := make([]models.Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

// Summarize tallies recorded outcomes.
func (a *Aggregator) Summarize() Summary {
	a.outcomesMu.Lock()
	defer a.outcomesMu.Unlock()

	var s Summary
	for _, o := range a.outcomes {
		switch o.Status {
		case models.OutcomeSuccess:
			s.Succeeded++
		case models.OutcomeSkipped:
			s.Skipped++
		case models.OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

// LogSummary emits the end-of-run summary.
func (a *Aggregator) LogSummary() {
	s := a.Summarize()
	a.log.WithFields(logrus.Fields{
		"succeeded": s.Succeeded,
		"skipped":   s.Skipped,
		"failed":    s.Failed,
	}).Info("Download phase finished")
}
