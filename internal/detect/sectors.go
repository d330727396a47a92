package detect

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"entradalert/internal/browser"
	"entradalert/internal/config"
	"entradalert/internal/dates"
)

// sectorURLHints marks background requests likely to carry seat-map data.
var sectorURLHints = []string{
	"seat", "zone", "section", "sector", "map", "inventory", "availability", "disponibilidad",
}

// seatMapTriggerRegex matches the CTAs that reveal a venue map.
const seatMapTriggerRegex = `/(ver|abrir)\s+mapa|mapa\s+de\s+(asientos|ubicaciones)|eleg[íi]\s+(tu\s+)?ubicaci[óo]n|seleccionar\s+ubicaci[óo]n/i`

// seatMapMountSelectors are the containers a seat map renders into.
var seatMapMountSelectors = []string{
	"svg", "canvas", "[class*='seat-map']", "[class*='seatmap']", "[class*='mapa']", "[class*='legend']",
}

// SectorExtractor drills into a single function's seat map and reads per-zone
// availability. Three channels, in decreasing order of confidence: sniffed
// background JSON, a DOM legend, and SVG shape coloring.
type SectorExtractor struct {
	logger zerolog.Logger
	cfg    config.DetectionConfig
	region *RegionLocator
	dates  *dates.Extractor
}

// NewSectorExtractor creates a new sector extractor
func NewSectorExtractor(cfg config.DetectionConfig, logger zerolog.Logger) *SectorExtractor {
	return &SectorExtractor{
		logger: logger.With().Str("component", "SectorExtractor").Logger(),
		cfg:    cfg,
		region: NewRegionLocator(cfg, logger),
		dates:  dates.NewExtractor(cfg.MaxFutureDateDays),
	}
}

// Extract selects the function matching dateToken on an already-loaded page,
// opens its seat map, and returns the zones with availability. An empty slice
// means no channel produced usable data, not that everything is sold out.
func (se *SectorExtractor) Extract(page *rod.Page, dateToken string, profile Profile) []SectorAvailability {
	sniffer := browser.StartSniffer(page, sectorURLHints, se.logger)

	active, openedPopup := se.selectFunction(page, dateToken, profile)
	var payloads []browser.SniffedResponse
	if openedPopup {
		// Seat-map traffic flows on the page the click landed on, so the
		// sniffer has to move there with us.
		defer active.Close()
		payloads = sniffer.Stop()
		sniffer = browser.StartSniffer(active, sectorURLHints, se.logger)
	}

	se.openSeatMap(active)
	time.Sleep(time.Duration(se.cfg.SniffWindowSecs) * time.Second)
	payloads = append(payloads, sniffer.Stop()...)

	sectors := se.fromSniffedPayloads(payloads)
	channel := "network"

	if len(sectors) == 0 {
		sectors = se.fromDOMLegend(active, profile)
		channel = "dom_legend"
	}
	if len(sectors) == 0 {
		sectors = se.fromSVGColors(active)
		channel = "svg_colors"
	}
	if len(sectors) == 0 {
		channel = "none"
	}

	if limit := se.cfg.MaxSectorsPerDate; limit > 0 && len(sectors) > limit {
		sectors = sectors[:limit]
	}

	se.logger.Debug().
		Str("date", dateToken).
		Str("channel", channel).
		Int("sectors", len(sectors)).
		Msg("Sector extraction finished")
	return sectors
}

// selectFunction clicks the option whose text carries dateToken and returns
// the page to keep probing, plus whether the click opened a popup the caller
// must close. With no matching option (single-function events often render
// the map directly) the original page is returned untouched.
func (se *SectorExtractor) selectFunction(page *rod.Page, dateToken string, profile Profile) (*rod.Page, bool) {
	region := se.region.Find(page, profile)
	if region == nil {
		return page, false
	}

	options, err := region.Timeout(probeTimeout).Elements(optionLikeSelectors)
	if err != nil {
		return page, false
	}

	settle := time.Duration(se.cfg.DropdownSettleMs) * time.Millisecond
	for _, option := range options {
		text := browser.VisibleText(option)
		if text == "" || ContainsAnyKeyword(text, profile.SoldoutKeywords) {
			continue
		}
		if !se.mentionsDate(text, dateToken) {
			continue
		}
		result := browser.ClickThrough(page, option, settle)
		return result.Page, result.OpenedPopup
	}
	return page, false
}

func (se *SectorExtractor) mentionsDate(text, dateToken string) bool {
	for _, token := range se.dates.Extract(text) {
		if token == dateToken {
			return true
		}
	}
	return false
}

// openSeatMap clicks a map-reveal CTA if one exists, then waits for a map
// container to mount. Both steps are best effort.
func (se *SectorExtractor) openSeatMap(page *rod.Page) {
	if trigger := browser.FindTextMatch(page, probeTimeout, "button, a, [role='button']", seatMapTriggerRegex); trigger != nil {
		_ = trigger.ScrollIntoView()
		_ = trigger.Click(browser.LeftButton, 1)
	}
	browser.FirstVisible(page, 4*time.Second, seatMapMountSelectors...)
}

func (se *SectorExtractor) fromSniffedPayloads(payloads []browser.SniffedResponse) []SectorAvailability {
	var all []SectorAvailability
	for _, payload := range payloads {
		all = append(all, ParseSectorPayload(payload.Body)...)
	}
	return MergeSectors(all)
}

// fromDOMLegend reads a rendered availability legend. A trailing "(N)" is the
// count; without one the zone counts as available with unknown quantity.
func (se *SectorExtractor) fromDOMLegend(page *rod.Page, profile Profile) []SectorAvailability {
	html := browser.PageHTML(page)
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return MergeSectors(legendSectors(doc, profile.SoldoutKeywords))
}

// fromSVGColors reads zone shapes from an inline SVG map. Vendors gray out
// unavailable zones, so a grayish computed fill marks a zone as gone.
func (se *SectorExtractor) fromSVGColors(page *rod.Page) []SectorAvailability {
	shapes := browser.Eval(page, probeTimeout, svgShapesJS)
	var sectors []SectorAvailability
	for _, shape := range shapes.Arr() {
		label := strings.TrimSpace(shape.Get("label").Str())
		fill := shape.Get("fill").Str()
		if label == "" || !isAvailableFill(fill) {
			continue
		}
		sectors = append(sectors, SectorAvailability{Name: label, AvailableCount: 1})
	}
	return MergeSectors(sectors)
}

// svgShapesJS collects seat-map shapes with a resolvable label and their
// computed fill color.
const svgShapesJS = `() => {
	const shapes = document.querySelectorAll('svg path, svg polygon, svg rect, svg circle, svg g[id]');
	return Array.from(shapes).map(el => {
		let label = el.getAttribute('aria-label') || el.getAttribute('data-name') || '';
		if (!label && el.parentElement) {
			const t = el.parentElement.querySelector('text');
			if (t) label = t.textContent.trim();
		}
		if (!label) label = el.id || '';
		return { label: label, fill: getComputedStyle(el).fill };
	}).filter(s => s.label);
}`
