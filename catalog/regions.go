package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RegionAliases maps free-text region spellings to canonical region keys.
// Keys are folded and stripped of diacritics before lookup.
var RegionAliases = map[string]string{
	"netherlands":     "netherlands",
	"the netherlands": "netherlands",
	"nederland":       "netherlands",
	"holland":         "netherlands",
	"nl":              "netherlands",

	"germany":     "germany",
	"deutschland": "germany",
	"duitsland":   "germany",
	"de":          "germany",

	"france":    "france",
	"frankrijk": "france",
	"fr":        "france",

	"united kingdom": "united-kingdom",
	"great britain":  "united-kingdom",
	"england":        "united-kingdom",
	"uk":             "united-kingdom",
	"gb":             "united-kingdom",

	"spain":  "spain",
	"espana": "spain",
	"es":     "spain",

	"belgium": "belgium",
	"belgie":  "belgium",
	"belgien": "belgium",
	"be":      "belgium",
}

// NormalizeRegion resolves a free-text region to its canonical key. Unknown
// regions come back lowercased so they can still act as their own key.
func NormalizeRegion(region string) string {
	key := foldRegion(region)
	if key == "" {
		return ""
	}
	if canonical, ok := RegionAliases[key]; ok {
		return canonical
	}
	return strings.ToLower(strings.TrimSpace(region))
}

func foldRegion(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// NormalizeLanguage reduces a BCP 47 tag to its base ISO code ("nl-NL" -> "nl").
// Empty input means English; codes the tag parser rejects are passed through
// lowercased.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "en"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}
