package urlhandler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	slugSeparatorRegex  = regexp.MustCompile(`[-_+]+`)
	slugTrailingIDRegex = regexp.MustCompile(`\s+\d{3,}$`)
)

// NormalizeURL normalizes a URL string, ensuring it has a scheme, and strips
// whitespace. Targets are keyed by the normalized form.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("URL is empty or only whitespace")
	}

	if !strings.Contains(trimmed, "://") && !strings.HasPrefix(trimmed, "//") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmed, err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL lacks a valid hostname")
	}

	parsed.Fragment = ""
	return parsed.String(), nil
}

// ExtractHostname returns the lowercase hostname of a URL, without port.
// Vendor profiles are keyed by this value.
func ExtractHostname(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", rawURL, err)
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("URL has no hostname component: %s", rawURL)
	}
	return strings.ToLower(strings.TrimPrefix(hostname, "www.")), nil
}

// ValidateURLFormat validates URL format using net/url parsing (for config validation)
func ValidateURLFormat(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return fmt.Errorf("URL is empty")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmed, err)
	}
	return nil
}

// PrettifyFromSlug derives a human-readable event title from the last path
// segment of a URL. Used as the last-resort title when the page exposes
// neither Open Graph metadata, a document title, nor a visible heading.
func PrettifyFromSlug(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.EscapedPath(), "/")
	segments := strings.Split(path, "/")
	slug := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			slug = segments[i]
			break
		}
	}
	if slug == "" {
		return parsed.Hostname()
	}

	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	if i := strings.LastIndex(slug, "."); i > 0 {
		slug = slug[:i]
	}

	pretty := slugSeparatorRegex.ReplaceAllString(slug, " ")
	pretty = slugTrailingIDRegex.ReplaceAllString(pretty, "")
	pretty = strings.TrimSpace(pretty)
	if pretty == "" {
		return parsed.Hostname()
	}
	return titleCase(pretty)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) > 0 {
			words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
		}
	}
	return strings.Join(words, " ")
}
