package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"

	"entradalert/internal/browser"
)

// pageVisibleText snapshots the rendered DOM and returns its text content
// with script/style noise stripped. Used for the page-wide soldout scan and
// for the whole-page date fallback when no region was found.
func pageVisibleText(page *rod.Page) string {
	html := browser.PageHTML(page)
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()
	return normalizeWhitespace(doc.Text())
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
