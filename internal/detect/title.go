package detect

import (
	"strings"

	"github.com/go-rod/rod"

	"entradalert/internal/browser"
	"entradalert/internal/urlhandler"
)

// ExtractTitle resolves a human-readable event title for the page, trying
// Open Graph metadata, the document title, the first visible heading, and
// finally a prettified URL slug.
func ExtractTitle(page *rod.Page, pageURL string) string {
	if title := ogTitle(page); title != "" {
		return title
	}
	if info, err := page.Info(); err == nil {
		if title := cleanTitle(info.Title); title != "" {
			return title
		}
	}
	if heading := browser.FirstVisible(page, probeTimeout, "h1", "h2"); heading != nil {
		if title := cleanTitle(browser.VisibleText(heading)); title != "" {
			return title
		}
	}
	return urlhandler.PrettifyFromSlug(pageURL)
}

func ogTitle(page *rod.Page) string {
	meta, err := page.Timeout(probeTimeout).Element(`meta[property="og:title"]`)
	if err != nil {
		return ""
	}
	content, err := meta.Attribute("content")
	if err != nil || content == nil {
		return ""
	}
	return cleanTitle(*content)
}

// cleanTitle trims vendor suffixes like " | Ticketera" or " - Entradas".
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for _, sep := range []string{" | ", " — ", " – ", " - "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
			break
		}
	}
	return strings.TrimSpace(title)
}
