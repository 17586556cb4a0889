package gyazo

import (
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is where Gyazo serves image pages
	DefaultBaseURL = "https://gyazo.com"
	// DefaultAPIURL hosts the oEmbed endpoint
	DefaultAPIURL = "https://api.gyazo.com"
)

// MatchURL reports whether reference is a Gyazo page or image URL for the
// given base, e.g. https://gyazo.com/<hash> or https://i.gyazo.com/<hash>.png.
func MatchURL(reference, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return false
	}
	u, err := url.Parse(reference)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if strings.Trim(u.Path, "/") == "" {
		return false
	}

	if strings.EqualFold(u.Host, base.Host) {
		return true
	}
	// Subdomains such as i.gyazo.com, on the same port as the base.
	return u.Port() == base.Port() &&
		strings.HasSuffix(strings.ToLower(u.Hostname()), "."+strings.ToLower(base.Hostname()))
}

// OEmbedEndpoint returns the oEmbed endpoint under apiURL.
func OEmbedEndpoint(apiURL string) string {
	return strings.TrimRight(apiURL, "/") + "/api/oembed"
}
