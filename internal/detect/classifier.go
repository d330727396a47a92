package detect

import (
	"sort"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"entradalert/internal/browser"
	"entradalert/internal/config"
	"entradalert/internal/dates"
	"entradalert/internal/urlhandler"
)

// optionLikeSelectors covers the ways vendors segment individual functions:
// ARIA options, native <option>s, menu items, plain list items.
const optionLikeSelectors = "[role='option'], option, [role='menuitem'], li"

// Classification is the outcome of one availability pass over a page.
type Classification struct {
	Status AvailabilityStatus
	Dates  []string
	Title  string
}

// Classifier combines region location, date extraction, and the
// buy/soldout signals into an availability verdict.
type Classifier struct {
	logger   zerolog.Logger
	cfg      config.DetectionConfig
	profiles *ProfileTable
	region   *RegionLocator
	dates    *dates.Extractor
}

// NewClassifier creates a new availability classifier
func NewClassifier(cfg config.DetectionConfig, profiles *ProfileTable, logger zerolog.Logger) *Classifier {
	return &Classifier{
		logger:   logger.With().Str("component", "AvailabilityClassifier").Logger(),
		cfg:      cfg,
		profiles: profiles,
		region:   NewRegionLocator(cfg, logger),
		dates:    dates.NewExtractor(cfg.MaxFutureDateDays),
	}
}

// DateExtractor exposes the classifier's extractor so diagnostics reuse the
// same horizon settings.
func (c *Classifier) DateExtractor() *dates.Extractor {
	return c.dates
}

// ProfileFor resolves the vendor profile for a target URL.
func (c *Classifier) ProfileFor(targetURL string) Profile {
	hostname, err := urlhandler.ExtractHostname(targetURL)
	if err != nil {
		return c.profiles.For("")
	}
	return c.profiles.For(hostname)
}

// Classify runs one full availability pass over an already-loaded page.
func (c *Classifier) Classify(page *rod.Page, targetURL string) Classification {
	profile := c.ProfileFor(targetURL)
	title := ExtractTitle(page, targetURL)

	region := c.region.Find(page, profile)
	pageText := pageVisibleText(page)

	foundDates := c.collectDates(region, pageText, profile)
	buyControl := c.findBuyControl(region, profile)

	sig := Signals{
		DatesFound:    len(foundDates) > 0,
		BuyInRegion:   buyControl != nil,
		SoldOutOnPage: c.soldOutSignal(page, pageText, profile),
	}

	status := DecideStatus(sig)
	if status == StatusAvailableNoDates && buyControl != nil {
		// One exploratory click-through: the CTA may lead to the page that
		// actually lists functions.
		if escalated := c.escalate(page, buyControl, profile); len(escalated) > 0 {
			foundDates = escalated
			status = StatusAvailableWithDates
		}
	}

	c.logger.Debug().
		Str("url", targetURL).
		Str("status", string(status)).
		Int("dates", len(foundDates)).
		Bool("buy_in_region", sig.BuyInRegion).
		Bool("soldout_on_page", sig.SoldOutOnPage).
		Msg("Classification complete")

	return Classification{Status: status, Dates: foundDates, Title: title}
}

// collectDates gathers show dates from the region, or from the whole page
// when no region was found and the vendor profile permits the low-confidence
// global scan.
func (c *Classifier) collectDates(region *rod.Element, pageText string, profile Profile) []string {
	if region == nil {
		if !profile.AllowGlobalScan {
			return nil
		}
		return c.dates.Extract(pageText)
	}

	union := make(map[string]struct{})

	// First pass: option-like elements one by one, skipping any marked sold
	// out so an "14/11 - AGOTADO" row doesn't count as availability.
	if options, err := region.Timeout(probeTimeout).Elements(optionLikeSelectors); err == nil {
		for _, option := range options {
			text := browser.VisibleText(option)
			if text == "" || ContainsAnyKeyword(text, profile.SoldoutKeywords) {
				continue
			}
			for _, token := range c.dates.Extract(text) {
				union[token] = struct{}{}
			}
		}
	}

	// Second pass: the raw region text catches dates not segmented into
	// discrete items.
	for _, token := range c.dates.Extract(browser.VisibleText(region)) {
		union[token] = struct{}{}
	}

	tokens := make([]string, 0, len(union))
	for token := range union {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return dates.ParseToken(tokens[i]).Before(dates.ParseToken(tokens[j]))
	})
	return tokens
}

// findBuyControl looks for a buy-labeled control inside the region. The
// region scope matters: buy wording elsewhere on the page proves nothing.
func (c *Classifier) findBuyControl(region *rod.Element, profile Profile) *rod.Element {
	if region == nil {
		return nil
	}

	scoped := region.Timeout(probeTimeout)
	if el, err := scoped.ElementR("button, a, [role='button'], input[type='submit']",
		keywordJSRegex(profile.BuyKeywords)); err == nil {
		if visible, err := el.Visible(); err == nil && visible {
			return el
		}
	}

	for _, selector := range profile.BuySelectors {
		el, err := scoped.Element(selector)
		if err != nil {
			continue
		}
		if visible, err := el.Visible(); err == nil && visible {
			return el
		}
	}
	return nil
}

// soldOutSignal checks the whole page for soldout wording or vendor-specific
// soldout selectors.
func (c *Classifier) soldOutSignal(page *rod.Page, pageText string, profile Profile) bool {
	if ContainsAnyKeyword(pageText, profile.SoldoutKeywords) {
		return true
	}
	for _, selector := range profile.SoldoutSelectors {
		if el := browser.FirstVisible(page, probeTimeout, selector); el != nil {
			return true
		}
	}
	return false
}

// escalate performs the single exploratory click-through on the buy control
// and re-probes the destination for dates. Handles in-page navigation, a
// popup target, and SPA view swaps alike.
func (c *Classifier) escalate(page *rod.Page, buyControl *rod.Element, profile Profile) []string {
	settle := time.Duration(c.cfg.DropdownSettleMs) * time.Millisecond
	result := browser.ClickThrough(page, buyControl, settle)

	dest := result.Page
	if result.OpenedPopup {
		defer dest.Close()
	}

	destRegion := c.region.Find(dest, profile)
	destText := pageVisibleText(dest)
	found := c.collectDates(destRegion, destText, profile)

	c.logger.Debug().
		Bool("opened_popup", result.OpenedPopup).
		Int("dates", len(found)).
		Msg("Click-through escalation finished")
	return found
}
