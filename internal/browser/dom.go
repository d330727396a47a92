package browser

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Third-party markup changes constantly, so every helper here degrades to a
// negative result instead of returning an error.

// LeftButton re-exports the left mouse button so callers don't need the
// proto package for plain clicks.
const LeftButton = proto.InputMouseButtonLeft

// VisibleText returns the rendered text of an element, or "" when the
// element is gone or hidden.
func VisibleText(el *rod.Element) string {
	if el == nil {
		return ""
	}
	if visible, err := el.Visible(); err != nil || !visible {
		return ""
	}
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// HasBox reports whether the element occupies actual screen space. Elements
// under display:none render no content quads.
func HasBox(el *rod.Element) bool {
	if el == nil {
		return false
	}
	shape, err := el.Shape()
	if err != nil || shape == nil {
		return false
	}
	return len(shape.Quads) > 0
}

// ClimbToBlock walks up from el looking for the nearest ancestor that reads
// like a content block: rendered, with more than minTextLen characters of
// text. Climbs at most maxDepth levels; returns nil when nothing qualifies.
func ClimbToBlock(el *rod.Element, maxDepth, minTextLen int) *rod.Element {
	current := el
	for depth := 0; depth < maxDepth && current != nil; depth++ {
		if text := VisibleText(current); len(text) > minTextLen && HasBox(current) {
			return current
		}
		parent, err := current.Parent()
		if err != nil {
			return nil
		}
		current = parent
	}
	return nil
}

// FirstVisible tries each selector in order and returns the first element
// that is actually rendered, or nil.
func FirstVisible(page *rod.Page, timeout time.Duration, selectors ...string) *rod.Element {
	scoped := page.Timeout(timeout)
	for _, selector := range selectors {
		elements, err := scoped.Elements(selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if visible, err := el.Visible(); err == nil && visible {
				return el
			}
		}
	}
	return nil
}

// FindTextMatch returns the first element under selector whose text matches
// the given JS regex (e.g. "/comprar/i"), or nil. Bounded by timeout.
func FindTextMatch(page *rod.Page, timeout time.Duration, selector, jsRegex string) *rod.Element {
	el, err := page.Timeout(timeout).ElementR(selector, jsRegex)
	if err != nil {
		return nil
	}
	return el
}

// ClickResult describes where a click-through landed.
type ClickResult struct {
	// Page is the context to keep probing: the popup when one opened,
	// otherwise the original page after it settled.
	Page *rod.Page
	// OpenedPopup is true when the click spawned a new browser target.
	OpenedPopup bool
}

// ClickThrough clicks an element and resolves the three ways a vendor CTA can
// react: opening a popup, navigating in place, or mutating the SPA view.
// settle bounds how long to wait for a popup before assuming an in-place
// update.
func ClickThrough(page *rod.Page, el *rod.Element, settle time.Duration) ClickResult {
	if el == nil {
		return ClickResult{Page: page}
	}

	_ = el.ScrollIntoView()
	popupWait := page.Timeout(settle).WaitOpen()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return ClickResult{Page: page}
	}

	if popup, err := popupWait(); err == nil && popup != nil {
		if err := popup.Timeout(settle * 4).WaitLoad(); err == nil {
			return ClickResult{Page: popup, OpenedPopup: true}
		}
		return ClickResult{Page: popup, OpenedPopup: true}
	}

	// In-place navigation or SPA update: wait out the load if one started,
	// then give the view a moment to re-render.
	_ = page.Timeout(settle * 4).WaitLoad()
	time.Sleep(settle)
	return ClickResult{Page: page}
}

// Eval runs a script on the page and returns its JSON value. Errors collapse
// to a null value.
func Eval(page *rod.Page, timeout time.Duration, js string) gson.JSON {
	obj, err := page.Timeout(timeout).Eval(js)
	if err != nil || obj == nil {
		return gson.New(nil)
	}
	return obj.Value
}

// PageHTML snapshots the rendered DOM as HTML, or "" on failure.
func PageHTML(page *rod.Page) string {
	html, err := page.HTML()
	if err != nil {
		return ""
	}
	return html
}
