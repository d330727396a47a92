package detect

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"entradalert/internal/browser"
	"entradalert/internal/config"
)

const (
	// regionMinTextLen is the smallest rendered-text length an ancestor must
	// have to count as the enclosing block of a matched node.
	regionMinTextLen = 10
	// probeTimeout bounds each individual DOM lookup.
	probeTimeout = 3 * time.Second
)

// functionLabelRegex matches the locale phrases vendors put above the
// function selector ("Seleccioná la función", "Elegí tu fecha", ...).
const functionLabelRegex = `/(seleccion|eleg[íi]|elij[ae])\w*\s+(la\s+|tu\s+|una\s+)?(funci[óo]n|fecha|d[íi]a)/i`

// Selectors for closed dropdown triggers and for the floating containers
// portals mount them into.
var (
	dropdownTriggerSelectors = []string{
		"[aria-haspopup='listbox']",
		"[role='combobox']",
		"button[class*='select']",
		"[class*='dropdown'] button",
	}
	floatingContainerSelectors = []string{
		"[role='listbox']",
		"[role='menu']",
		"select",
		"[class*='popover']",
		"[class*='MuiPopover']",
		"[class*='dropdown-menu']",
	}
)

// RegionLocator finds the DOM subtree that holds the function/date selector.
type RegionLocator struct {
	logger zerolog.Logger
	cfg    config.DetectionConfig
}

// NewRegionLocator creates a new region locator
func NewRegionLocator(cfg config.DetectionConfig, logger zerolog.Logger) *RegionLocator {
	return &RegionLocator{
		logger: logger.With().Str("component", "RegionLocator").Logger(),
		cfg:    cfg,
	}
}

// regionStrategy is one heuristic in the priority chain. Returns nil when it
// found nothing; the first non-nil result wins.
type regionStrategy struct {
	name string
	find func(page *rod.Page, profile Profile) *rod.Element
}

// Find locates the functions region, or returns nil when no heuristic
// matched. Callers must treat nil as "no structured region": the whole-page
// fallback is a lower-confidence path, not a silent equivalent.
func (rl *RegionLocator) Find(page *rod.Page, profile Profile) *rod.Element {
	rl.openDropdownIfAny(page)

	strategies := []regionStrategy{
		{name: "function_label", find: rl.byFunctionLabel},
		{name: "buy_cta", find: rl.byBuyCTA},
		{name: "listbox_semantics", find: rl.byListboxSemantics},
	}

	for _, strategy := range strategies {
		if region := strategy.find(page, profile); region != nil {
			rl.logger.Debug().Str("strategy", strategy.name).Msg("Functions region located")
			return region
		}
	}

	rl.logger.Debug().Msg("No functions region found by any strategy")
	return nil
}

// openDropdownIfAny clicks known dropdown triggers so a closed function
// selector gets a chance to mount its options before probing. Portals render
// the popover outside the trigger's ancestry, hence the floating-container
// selectors in the listbox strategy.
func (rl *RegionLocator) openDropdownIfAny(page *rod.Page) {
	trigger := browser.FirstVisible(page, probeTimeout, dropdownTriggerSelectors...)
	if trigger == nil {
		return
	}
	if err := trigger.ScrollIntoView(); err != nil {
		return
	}
	if err := trigger.Click(browser.LeftButton, 1); err != nil {
		rl.logger.Debug().Err(err).Msg("Dropdown trigger click failed")
		return
	}
	settle := time.Duration(rl.cfg.DropdownSettleMs) * time.Millisecond
	time.Sleep(settle)
}

// byFunctionLabel anchors on the "pick your function/date" label and climbs
// to its enclosing block.
func (rl *RegionLocator) byFunctionLabel(page *rod.Page, _ Profile) *rod.Element {
	label := browser.FindTextMatch(page, probeTimeout,
		"label, legend, span, p, h1, h2, h3, h4, h5, button", functionLabelRegex)
	if label == nil {
		return nil
	}
	return browser.ClimbToBlock(label, rl.cfg.AncestorClimbLimit, regionMinTextLen)
}

// byBuyCTA anchors on a "view tickets"/buy call-to-action and climbs.
func (rl *RegionLocator) byBuyCTA(page *rod.Page, profile Profile) *rod.Element {
	cta := browser.FindTextMatch(page, probeTimeout,
		"button, a, [role='button']", keywordJSRegex(profile.BuyKeywords))
	if cta == nil {
		return nil
	}
	return browser.ClimbToBlock(cta, rl.cfg.AncestorClimbLimit, regionMinTextLen)
}

// byListboxSemantics takes the first visible element exposing listbox
// semantics, including popover containers mounted into portals.
func (rl *RegionLocator) byListboxSemantics(page *rod.Page, _ Profile) *rod.Element {
	return browser.FirstVisible(page, probeTimeout, floatingContainerSelectors...)
}
