// Package extract pulls theme-matching wallpaper groups and article links
// out of parsed pages. All functions are pure over the goquery document.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wallpaper-scraper/pkg/models"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Wallpaper links must end in exactly these extensions. The match is
// case-sensitive: .JPG/.jpeg links are excluded, which mirrors the site's
// naming convention and keeps output stable.
var imageExtensions = []string{".jpg", ".png"}

// Groups extracts wallpaper groups from a page. A heading matches when the
// lower-cased theme is a substring of its normalized text; the group then
// collects every image anchor among the heading's following siblings, up to
// the next heading of the same or higher level. Links are resolved against
// base, de-duplicated preserving insertion order. Headings that yield no
// links are dropped silently.
func Groups(doc *goquery.Document, theme string, base *url.URL) []models.WallpaperGroup {
	theme = strings.ToLower(strings.TrimSpace(theme))
	var groups []models.WallpaperGroup

	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		title := normalizeHeading(heading.Text())
		if theme != "" && !strings.Contains(title, theme) {
			return
		}

		links := collectSiblingImageLinks(heading, base)
		if len(links) == 0 {
			return
		}
		groups = append(groups, models.WallpaperGroup{Title: title, Links: links})
	})

	return groups
}

// ArticleLinks scans a listing page for heading-level anchors whose path
// contains the article slug marker, resolving each to an absolute URL.
// Returns the de-duplicated links in first-seen order.
func ArticleLinks(doc *goquery.Document, slugMarker string, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		heading.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
			href, _ := anchor.Attr("href")
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			if !strings.Contains(resolved.Path, slugMarker) {
				return
			}
			abs := resolved.String()
			if !seen[abs] {
				seen[abs] = true
				links = append(links, abs)
			}
		})
	})

	return links
}

// NextPageLink finds the pagination "next" link on a listing page and
// resolves it against base. Returns "" when the page has no next link.
func NextPageLink(doc *goquery.Document, base *url.URL) string {
	href, ok := doc.Find(`a[rel="next"], a.next, link[rel="next"]`).First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return ""
	}
	return resolved.String()
}

// collectSiblingImageLinks walks the heading's following siblings until the
// next heading of the same or higher structural level, collecting image
// anchors in order.
func collectSiblingImageLinks(heading *goquery.Selection, base *url.URL) []string {
	level := headingLevel(goquery.NodeName(heading))
	var links []string
	seen := make(map[string]bool)

	for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
		if l := headingLevel(goquery.NodeName(sib)); l > 0 && l <= level {
			break
		}

		appendLink := func(anchor *goquery.Selection) {
			href, ok := anchor.Attr("href")
			if !ok || !hasImageExtension(href) {
				return
			}
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			abs := resolved.String()
			if !seen[abs] {
				seen[abs] = true
				links = append(links, abs)
			}
		}

		if goquery.NodeName(sib) == "a" {
			appendLink(sib)
		}
		sib.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
			appendLink(anchor)
		})
	}

	return links
}

// hasImageExtension reports whether the href ends in a wallpaper image
// extension. Case-sensitive on purpose.
func hasImageExtension(href string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(href, ext) {
			return true
		}
	}
	return false
}

// normalizeHeading trims and lower-cases heading text for matching and for
// use as the group title.
func normalizeHeading(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// headingLevel maps h1..h6 tag names to their level, or 0 for non-headings.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
