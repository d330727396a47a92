package detect

// AvailabilityStatus is the classifier's verdict for one page.
type AvailabilityStatus string

const (
	StatusAvailableWithDates AvailabilityStatus = "available_with_dates"
	StatusAvailableNoDates   AvailabilityStatus = "available_no_dates"
	StatusSoldOut            AvailabilityStatus = "sold_out"
	StatusUnknown            AvailabilityStatus = "unknown"
)

// CollapsedStatus folds the two available flavors together. Transitions are
// tracked at this granularity; the date detail rides along separately.
type CollapsedStatus string

const (
	CollapsedAvailable CollapsedStatus = "available"
	CollapsedSoldOut   CollapsedStatus = "sold_out"
	CollapsedUnknown   CollapsedStatus = "unknown"
)

// Collapse maps a status onto its transition-tracking form.
func (s AvailabilityStatus) Collapse() CollapsedStatus {
	switch s {
	case StatusAvailableWithDates, StatusAvailableNoDates:
		return CollapsedAvailable
	case StatusSoldOut:
		return CollapsedSoldOut
	default:
		return CollapsedUnknown
	}
}

// Signals are the raw observations the classifier gathers from a page before
// deciding. Kept separate from the DOM probing so the tie-break rules are a
// pure function.
type Signals struct {
	// DatesFound is true when the region (or the permitted whole-page
	// fallback) yielded at least one show date.
	DatesFound bool
	// BuyInRegion is true when a buy-labeled control sits inside the
	// functions region. Page-wide buy text does not count.
	BuyInRegion bool
	// SoldOutOnPage is true when soldout wording appears anywhere on the page.
	SoldOutOnPage bool
}

// DecideStatus applies the tie-break rules:
//
//   - any dates win outright;
//   - soldout wording only wins when no buy control sits in the region,
//     because vendors keep stale "agotado" banners in footers while the
//     widget happily sells;
//   - a buy control with no dates is "available, dates unknown";
//   - nothing at all is unknown.
func DecideStatus(sig Signals) AvailabilityStatus {
	switch {
	case sig.DatesFound:
		return StatusAvailableWithDates
	case sig.SoldOutOnPage && !sig.BuyInRegion:
		return StatusSoldOut
	case sig.BuyInRegion:
		return StatusAvailableNoDates
	default:
		return StatusUnknown
	}
}
