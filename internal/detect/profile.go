package detect

import (
	"strings"

	"entradalert/internal/config"
)

// Profile is the resolved per-vendor detection behavior: built-in defaults
// merged with any configured override for the hostname.
type Profile struct {
	Hostname         string
	SoldoutKeywords  []string
	SoldoutSelectors []string
	BuyKeywords      []string
	BuySelectors     []string
	AllowGlobalScan  bool
}

func defaultSoldoutKeywords() []string {
	return []string{
		"agotado", "agotada", "agotadas", "localidades agotadas",
		"sold out", "sin disponibilidad", "no disponible", "entradas agotadas",
	}
}

func defaultBuyKeywords() []string {
	return []string{
		"comprar", "comprá", "buy tickets", "ver entradas",
		"conseguir entradas", "adquirir", "comprar entradas",
	}
}

func defaultBuySelectors() []string {
	return []string{
		"[data-testid*='buy']", "[class*='comprar']", "[class*='buy-button']",
	}
}

// ProfileTable resolves vendor profiles by hostname with a default fallback.
// A plain data-driven lookup; configured entries extend the defaults rather
// than replace them, except for the global-scan switch which the override
// controls outright.
type ProfileTable struct {
	overrides map[string]config.VendorProfile
}

// NewProfileTable builds the lookup from configured overrides.
func NewProfileTable(overrides []config.VendorProfile) *ProfileTable {
	table := make(map[string]config.VendorProfile, len(overrides))
	for _, o := range overrides {
		key := strings.ToLower(strings.TrimPrefix(o.Hostname, "www."))
		table[key] = o
	}
	return &ProfileTable{overrides: table}
}

// For returns the effective profile for a hostname.
func (t *ProfileTable) For(hostname string) Profile {
	profile := Profile{
		Hostname:        strings.ToLower(hostname),
		SoldoutKeywords: defaultSoldoutKeywords(),
		BuyKeywords:     defaultBuyKeywords(),
		BuySelectors:    defaultBuySelectors(),
		AllowGlobalScan: true,
	}

	override, ok := t.overrides[profile.Hostname]
	if !ok {
		return profile
	}

	profile.SoldoutKeywords = append(profile.SoldoutKeywords, override.SoldoutKeywords...)
	profile.SoldoutSelectors = append(profile.SoldoutSelectors, override.SoldoutSelectors...)
	profile.BuyKeywords = append(profile.BuyKeywords, override.BuyKeywords...)
	profile.BuySelectors = append(profile.BuySelectors, override.BuySelectors...)
	profile.AllowGlobalScan = !override.DisableGlobalScan
	return profile
}

// ContainsAnyKeyword reports whether text contains one of the keywords,
// case-insensitively.
func ContainsAnyKeyword(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// keywordJSRegex builds a case-insensitive JS regex alternation over the
// keywords, for text-matching element lookups.
func keywordJSRegex(keywords []string) string {
	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		escaped = append(escaped, jsRegexEscape(kw))
	}
	return "/" + strings.Join(escaped, "|") + "/i"
}

var jsRegexEscaper = strings.NewReplacer(
	`\`, `\\`, `/`, `\/`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
	`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`^`, `\^`, `$`, `\$`, `|`, `\|`,
)

func jsRegexEscape(s string) string {
	return jsRegexEscaper.Replace(s)
}
