// Package discovery resolves a topic, region and language into a ranked,
// deduplicated list of course platforms with their search URLs.
package discovery

import (
	"context"
	"sort"
	"strings"

	"course-intel/catalog"
	"course-intel/models"
	"course-intel/utils"
)

// fallbackLanguage is always acceptable when filtering platforms.
const fallbackLanguage = "en"

// ExternalPlatformFinder is the seam for live platform discovery, for example
// through a search engine API. Implementations may be slow and
// nondeterministic.
type ExternalPlatformFinder interface {
	FindPlatforms(ctx context.Context, q models.SearchQueryContext) ([]models.PlatformProfile, error)
}

// NoopFinder discovers nothing.
type NoopFinder struct{}

func (NoopFinder) FindPlatforms(context.Context, models.SearchQueryContext) ([]models.PlatformProfile, error) {
	return nil, nil
}

type Engine struct {
	catalog     catalog.Catalog
	finder      ExternalPlatformFinder
	searchPaths map[string]string
}

type Option func(*Engine)

func WithFinder(f ExternalPlatformFinder) Option {
	return func(e *Engine) { e.finder = f }
}

func WithSearchPaths(paths map[string]string) Option {
	return func(e *Engine) { e.searchPaths = paths }
}

func New(cat catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:     cat,
		finder:      NoopFinder{},
		searchPaths: DefaultSearchPaths(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DetectPlatforms returns the platforms relevant to q, most relevant first.
// It never fails; an empty result means nothing matched.
func (e *Engine) DetectPlatforms(ctx context.Context, q models.SearchQueryContext) []models.RankedPlatform {
	region := catalog.NormalizeRegion(q.Region)
	lang := catalog.NormalizeLanguage(q.Language)
	topic := strings.ToLower(strings.TrimSpace(q.Topic))

	var candidates []models.PlatformProfile
	for _, p := range e.catalog.Global {
		if languageOK(p, lang) {
			candidates = append(candidates, p)
		}
	}

	for _, p := range e.catalog.RegionalFor(region) {
		if !languageOK(p, lang) {
			continue
		}
		if len(p.Specialties) > 0 && topic != "" && !specialtyMatches(p, topic) {
			continue
		}
		candidates = append(candidates, p)
	}

	external, err := e.finder.FindPlatforms(ctx, q)
	if err != nil {
		utils.Warn("External platform discovery failed: %v", err)
	}
	candidates = append(candidates, external...)

	platforms := dedupe(candidates)
	rank(platforms, lang, topic)

	ranked := make([]models.RankedPlatform, 0, len(platforms))
	for _, p := range platforms {
		ranked = append(ranked, models.RankedPlatform{
			PlatformProfile: p,
			SearchURL:       SearchURL(p.BaseURL, q.Topic, e.searchPaths),
		})
	}
	utils.Debug("Discovery for %q in %q (%s): %d platforms", q.Topic, region, lang, len(ranked))
	return ranked
}

// SearchURLs is DetectPlatforms for callers that only want the URLs.
func (e *Engine) SearchURLs(ctx context.Context, q models.SearchQueryContext) []string {
	ranked := e.DetectPlatforms(ctx, q)
	urls := make([]string, len(ranked))
	for i, p := range ranked {
		urls[i] = p.SearchURL
	}
	return urls
}

func languageOK(p models.PlatformProfile, lang string) bool {
	return p.SupportsLanguage(lang) || p.SupportsLanguage(fallbackLanguage)
}

// specialtyMatches is a bidirectional substring test: "python" matches
// "python programming" and "programming" matches "programming in go".
func specialtyMatches(p models.PlatformProfile, topic string) bool {
	if topic == "" {
		return false
	}
	for _, s := range p.Specialties {
		s = strings.ToLower(s)
		if s == "" {
			continue
		}
		if strings.Contains(topic, s) || strings.Contains(s, topic) {
			return true
		}
	}
	return false
}

// dedupe keeps the first profile per case-insensitive base URL.
func dedupe(platforms []models.PlatformProfile) []models.PlatformProfile {
	seen := make(map[string]bool, len(platforms))
	out := make([]models.PlatformProfile, 0, len(platforms))
	for _, p := range platforms {
		key := strings.TrimRight(strings.ToLower(strings.TrimSpace(p.BaseURL)), "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// rank puts regional and local platforms before global ones, then exact
// language matches before English fallbacks, then topic specialists. The sort
// is stable so catalog order breaks ties.
func rank(platforms []models.PlatformProfile, lang, topic string) {
	key := func(p models.PlatformProfile) [3]int {
		var k [3]int
		if p.Scope == models.ScopeGlobal {
			k[0] = 1
		}
		if !p.SupportsLanguage(lang) {
			k[1] = 1
		}
		if !specialtyMatches(p, topic) {
			k[2] = 1
		}
		return k
	}

	sort.SliceStable(platforms, func(i, j int) bool {
		a, b := key(platforms[i]), key(platforms[j])
		for n := range a {
			if a[n] != b[n] {
				return a[n] < b[n]
			}
		}
		return false
	})
}
