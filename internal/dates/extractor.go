package dates

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Token is a normalized calendar date in dd/mm/yyyy form.
const tokenLayout = "02/01/2006"

// The three families of date spellings seen on vendor pages: plain numerics,
// long-form Spanish ("14 de noviembre de 2025"), and abbreviated month names.
var (
	numericDateRegex = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
	longMonthRegex   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)(?:\s+(?:de\s+)?(\d{4}))?\b`)
	abbrevMonthRegex = regexp.MustCompile(`(?i)\b(\d{1,2})[-/ ](ene|feb|mar|abr|may|jun|jul|ago|sep|set|oct|nov|dic)[a-záé]*\.?(?:[-/ ](\d{2,4}))?\b`)

	// Dates near these words are logistics dates (ticket pickup, voucher
	// exchange), not show dates. A recurring source of false positives.
	logisticsKeywordRegex = regexp.MustCompile(`(?i)retiro|retir[áa]|canje|canjear|pick[- ]?up`)
)

// logisticsWindow is how many characters around a logistics keyword taint a
// date match on either side.
const logisticsWindow = 160

var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
	"ene": 1, "feb": 2, "mar": 3, "abr": 4, "may": 5, "jun": 6,
	"jul": 7, "ago": 8, "sep": 9, "set": 9, "oct": 10, "nov": 11, "dic": 12,
}

// Extractor parses free text for calendar dates and normalizes them to
// dd/mm/yyyy tokens. Pure except for the injected clock.
type Extractor struct {
	horizonDays int
	now         func() time.Time
}

// NewExtractor creates an extractor that keeps only dates within
// (now, now+horizonDays].
func NewExtractor(horizonDays int) *Extractor {
	return &Extractor{
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

type candidate struct {
	day, month, year int // year 0 means not recoverable from the text
	offset           int
}

// Extract returns the deduplicated, ascending list of dd/mm/yyyy tokens found
// in text. Yearless matches are resolved to their nearest future occurrence
// before emission, so callers never see a reduced-precision token. Matches
// with an impossible day or month are dropped silently, as are dates outside
// the future window and dates sitting next to pickup/exchange wording.
func (e *Extractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	suppressed := logisticsSpans(text)
	now := e.now()
	seen := make(map[string]time.Time)

	for _, c := range e.collectCandidates(text) {
		if c.day < 1 || c.day > 31 || c.month < 1 || c.month > 12 {
			continue
		}
		if suppressed.contains(c.offset) {
			continue
		}

		resolved := e.resolveYear(c, now)
		// time.Date normalizes impossible dates (31/04 becomes 01/05), so the
		// components must round-trip or the match was never a real date.
		if resolved.Day() != c.day || int(resolved.Month()) != c.month {
			continue
		}
		if !e.withinHorizon(resolved, now) {
			continue
		}

		token := resolved.Format(tokenLayout)
		if _, dup := seen[token]; !dup {
			seen[token] = resolved
		}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return seen[tokens[i]].Before(seen[tokens[j]])
	})
	return tokens
}

// collectCandidates runs the three regex families and unions their matches.
func (e *Extractor) collectCandidates(text string) []candidate {
	var out []candidate

	for _, m := range numericDateRegex.FindAllStringSubmatchIndex(text, -1) {
		c := candidate{offset: m[0]}
		c.day = atoiGroup(text, m, 1)
		c.month = atoiGroup(text, m, 2)
		c.year = expandYear(atoiGroup(text, m, 3))
		out = append(out, c)
	}

	for _, m := range longMonthRegex.FindAllStringSubmatchIndex(text, -1) {
		c := candidate{offset: m[0]}
		c.day = atoiGroup(text, m, 1)
		c.month = monthByName(group(text, m, 2))
		c.year = atoiGroup(text, m, 3)
		out = append(out, c)
	}

	for _, m := range abbrevMonthRegex.FindAllStringSubmatchIndex(text, -1) {
		c := candidate{offset: m[0]}
		c.day = atoiGroup(text, m, 1)
		c.month = monthByName(group(text, m, 2))
		c.year = expandYear(atoiGroup(text, m, 3))
		out = append(out, c)
	}

	return out
}

// resolveYear turns a candidate into a concrete date. A yearless candidate is
// pinned to its nearest future occurrence relative to now.
func (e *Extractor) resolveYear(c candidate, now time.Time) time.Time {
	if c.year != 0 {
		return time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, now.Location())
	}
	candidate := time.Date(now.Year(), time.Month(c.month), c.day, 0, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}

// withinHorizon keeps dates in (now, now+horizonDays]. Past dates and
// far-future noise (footer legal text, copyright years) fall out here.
func (e *Extractor) withinHorizon(d, now time.Time) bool {
	if !d.After(now) {
		return false
	}
	limit := now.AddDate(0, 0, e.horizonDays)
	return !d.After(limit)
}

// spanSet is a list of tainted half-open intervals over the input text.
type spanSet [][2]int

func (s spanSet) contains(offset int) bool {
	for _, span := range s {
		if offset >= span[0] && offset < span[1] {
			return true
		}
	}
	return false
}

func logisticsSpans(text string) spanSet {
	var spans spanSet
	for _, m := range logisticsKeywordRegex.FindAllStringIndex(text, -1) {
		start := m[0] - logisticsWindow
		if start < 0 {
			start = 0
		}
		spans = append(spans, [2]int{start, m[1] + logisticsWindow})
	}
	return spans
}

func group(text string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func atoiGroup(text string, m []int, i int) int {
	s := group(text, m, i)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// expandYear widens two-digit years with a 20xx assumption.
func expandYear(year int) int {
	if year == 0 {
		return 0
	}
	if year < 100 {
		return 2000 + year
	}
	return year
}

func monthByName(name string) int {
	return spanishMonths[strings.ToLower(name)]
}

// ParseToken converts a dd/mm/yyyy token back to a time.Time. The zero time
// is returned for malformed tokens.
func ParseToken(token string) time.Time {
	t, err := time.Parse(tokenLayout, token)
	if err != nil {
		return time.Time{}
	}
	return t
}
