package models

// ItemKind distinguishes the two phases of work placed on a queue
type ItemKind string

const (
	KindPage  ItemKind = "page"
	KindImage ItemKind = "image"
)

// WorkItem represents one unit of crawl or download work.
// Immutable once enqueued; owned by the queue until a worker pops it.
type WorkItem struct {
	URL  string
	Kind ItemKind
}

// WallpaperGroup is the set of image links collected under one matching
// heading. Links are absolute URLs, de-duplicated, in insertion order.
// Never mutated after creation.
type WallpaperGroup struct {
	Title string
	Links []string
}

// DownloadTask is one image to download, derived 1:1 from a
// (WallpaperGroup, link) pair.
type DownloadTask struct {
	Title string
	Link  string
}

// Tasks flattens wallpaper groups into per-image download tasks,
// preserving group order and link order within each group.
func Tasks(groups []WallpaperGroup) []DownloadTask {
	var tasks []DownloadTask
	for _, g := range groups {
		for _, link := range g.Links {
			tasks = append(tasks, DownloadTask{Title: g.Title, Link: link})
		}
	}
	return tasks
}
