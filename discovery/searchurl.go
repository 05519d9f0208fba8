package discovery

import (
	"net/url"
	"strings"
)

// DefaultSearchPaths maps a platform domain (without "www.") to the path and
// query prefix of its search page. The topic is appended encoded.
func DefaultSearchPaths() map[string]string {
	return map[string]string{
		"udemy.com":          "/courses/search/?q=",
		"coursera.org":       "/search?query=",
		"skillshare.com":     "/en/search?query=",
		"linkedin.com":       "/learning/search?keywords=",
		"edx.org":            "/search?q=",
		"domestika.org":      "/en/search?query=",
		"futurelearn.com":    "/search?q=",
		"openclassrooms.com": "/fr/search?query=",
		"springest.nl":       "/zoeken?q=",
		"springest.be":       "/zoeken?q=",
		"ncoi.nl":            "/zoeken?query=",
		"goodhabitz.com":     "/nl-nl/zoeken?q=",
		"open.hpi.de":        "/courses?q=",
		"fun-mooc.fr":        "/fr/cours/?q=",
		"crehana.com":        "/cursos-online/?q=",
	}
}

// countryPaths are used when the domain is unknown but its TLD is.
var countryPaths = []struct {
	tld  string
	path string
}{
	{".nl", "/zoeken?q="},
	{".de", "/suche?q="},
	{".fr", "/recherche?q="},
}

const genericSearchPath = "/search?q="

// SearchURL resolves the search page URL for topic on the platform at baseURL.
// Known domains use their table entry relative to the site root; otherwise
// the country-code heuristic or the generic path is appended to baseURL.
func SearchURL(baseURL, topic string, paths map[string]string) string {
	q := encodeComponent(topic)
	base := strings.TrimRight(baseURL, "/")

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base + genericSearchPath + q
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if p, ok := paths[host]; ok {
		return u.Scheme + "://" + u.Host + p + q
	}

	for _, c := range countryPaths {
		if strings.HasSuffix(host, c.tld) {
			return base + c.path + q
		}
	}
	return base + genericSearchPath + q
}

// encodeComponent escapes like JavaScript's encodeURIComponent: spaces become
// %20 rather than "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
