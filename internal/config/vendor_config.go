package config

// VendorProfile overrides detection behavior for a specific vendor hostname.
// Hostnames are matched without the www. prefix. Keyword and selector lists
// extend the built-in defaults; DisableGlobalScan turns off the whole-page
// text fallback for vendors whose footers carry unrelated dates.
type VendorProfile struct {
	Hostname          string   `json:"hostname" yaml:"hostname" validate:"required,hostname_rfc1123"`
	SoldoutKeywords   []string `json:"soldout_keywords,omitempty" yaml:"soldout_keywords,omitempty"`
	SoldoutSelectors  []string `json:"soldout_selectors,omitempty" yaml:"soldout_selectors,omitempty"`
	BuyKeywords       []string `json:"buy_keywords,omitempty" yaml:"buy_keywords,omitempty"`
	BuySelectors      []string `json:"buy_selectors,omitempty" yaml:"buy_selectors,omitempty"`
	DisableGlobalScan bool     `json:"disable_global_scan" yaml:"disable_global_scan"`
}
