package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// legendItemSelectors covers the markup vendors use for availability legends
// next to a venue map.
const legendItemSelectors = "[class*='legend'] li, [class*='referencia'] li, [class*='sector-list'] li, [class*='zona'] li, [class*='sector']"

// parenCountRegex captures a trailing "(N)" availability count.
var parenCountRegex = regexp.MustCompile(`\((\d+)\)\s*$`)

// legendSectors parses legend rows out of a document. Rows carrying soldout
// wording are skipped; rows without an explicit count report 1.
func legendSectors(doc *goquery.Document, soldoutKeywords []string) []SectorAvailability {
	var sectors []SectorAvailability
	doc.Find(legendItemSelectors).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" || ContainsAnyKeyword(text, soldoutKeywords) {
			return
		}

		count := 1
		name := text
		if m := parenCountRegex.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				count = n
			}
			name = strings.TrimSpace(text[:len(text)-len(m[0])])
		}
		if name == "" || count <= 0 {
			return
		}
		sectors = append(sectors, SectorAvailability{Name: name, AvailableCount: count})
	})
	return sectors
}

var rgbFillRegex = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)

// isAvailableFill classifies a computed CSS fill color. Vendors mark
// unavailable zones with light gray fills, so a bright near-neutral color
// reads as unavailable; anything saturated reads as available.
func isAvailableFill(fill string) bool {
	fill = strings.TrimSpace(strings.ToLower(fill))
	if fill == "" || fill == "none" || fill == "transparent" {
		return false
	}

	m := rgbFillRegex.FindStringSubmatch(fill)
	if m == nil {
		// Non-rgb fills (named colors, gradients) cannot be judged, assume
		// the zone is live.
		return true
	}
	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])

	spread := maxInt(r, g, b) - minInt(r, g, b)
	brightness := (r + g + b) / 3
	grayish := spread <= 18 && brightness >= 120
	return !grayish
}

func maxInt(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
