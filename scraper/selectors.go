package scraper

import (
	"regexp"
	"strings"
)

// SelectorSet says where a platform keeps the fields we extract. Selectors
// are CSS; comma lists are allowed wherever a single selector is.
type SelectorSet struct {
	// PriceSelectors are tried in order; each contributes up to
	// maxPricesPerSelector matches.
	PriceSelectors     []string
	CurriculumSelector string
	ModuleSelector     string
	LessonSelector     string
	// CourseLinkSelector finds the first course detail link on a search page.
	CourseLinkSelector string
}

// Selectors is keyed by lowercased platform name with an explicit fallback.
type Selectors struct {
	ByPlatform map[string]SelectorSet
	Fallback   SelectorSet
}

// For returns the platform's set, filling any empty field from Fallback.
func (s Selectors) For(platform string) SelectorSet {
	set, ok := s.ByPlatform[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return s.Fallback
	}
	if len(set.PriceSelectors) == 0 {
		set.PriceSelectors = s.Fallback.PriceSelectors
	}
	if set.CurriculumSelector == "" {
		set.CurriculumSelector = s.Fallback.CurriculumSelector
	}
	if set.ModuleSelector == "" {
		set.ModuleSelector = s.Fallback.ModuleSelector
	}
	if set.LessonSelector == "" {
		set.LessonSelector = s.Fallback.LessonSelector
	}
	if set.CourseLinkSelector == "" {
		set.CourseLinkSelector = s.Fallback.CourseLinkSelector
	}
	return set
}

func DefaultSelectors() Selectors {
	return Selectors{
		ByPlatform: map[string]SelectorSet{
			"udemy": {
				PriceSelectors: []string{
					`[data-purpose="course-price-text"] span span`,
					`[data-purpose="price-text-container"]`,
					`[class*="price-text"]`,
				},
				CurriculumSelector: `[data-purpose="course-curriculum"]`,
				ModuleSelector:     `[data-purpose="curriculum-section-container"] > div, [class*="section--panel"]`,
				LessonSelector:     `[class*="section--item"], [data-purpose="curriculum-item"]`,
				CourseLinkSelector: `[class*="course-card"] a, h3[data-purpose="course-title-url"] a`,
			},
			"coursera": {
				PriceSelectors:     []string{`[data-e2e="enroll-price"]`, `[class*="price"]`},
				CurriculumSelector: `[data-e2e="course-modules"], #modules`,
				ModuleSelector:     `[data-e2e="module"], [class*="module-"]`,
				LessonSelector:     `[data-e2e="item"], [class*="lesson"]`,
				CourseLinkSelector: `[data-testid="product-card-cds"] a, [class*="cds-ProductCard"] a`,
			},
			"skillshare": {
				PriceSelectors:     []string{`[class*="membership-price"]`, `[class*="price"]`},
				CurriculumSelector: `[class*="session-list"]`,
				ModuleSelector:     `[class*="session-list"]`,
				LessonSelector:     `[class*="session-item"]`,
			},
			"springest": {
				PriceSelectors:     []string{`.price`, `[itemprop="price"]`, `[class*="prijs"]`},
				ModuleSelector:     `[class*="programma"] h3, [class*="module"]`,
				LessonSelector:     `[class*="programma"] li, [class*="lesson"]`,
				CourseLinkSelector: `[class*="training-list"] a, [class*="course"] a`,
			},
			"openclassrooms": {
				PriceSelectors: []string{`[class*="price"]`, `[data-testid*="price"]`},
				ModuleSelector: `[class*="part"], [class*="chapter-list"]`,
				LessonSelector: `[class*="chapter"]`,
			},
		},
		Fallback: SelectorSet{
			PriceSelectors: []string{
				`[class*="price"]`,
				`[data-testid*="price"]`,
				`[itemprop="price"]`,
				`.cost`,
			},
			CurriculumSelector: `[class*="curriculum"], [class*="syllabus"], [id*="curriculum"]`,
			ModuleSelector:     `[class*="module"], [class*="section"], [class*="chapter"]`,
			LessonSelector:     `[class*="lesson"], [class*="lecture"], [class*="video"]`,
			CourseLinkSelector: `[class*="course"] a`,
		},
	}
}

// DurationProbe is either a CSS selector whose first non-empty text wins, or
// a pattern searched in the page's visible text.
type DurationProbe struct {
	Selector string
	Pattern  *regexp.Regexp
}

func DefaultDurationProbes() []DurationProbe {
	return []DurationProbe{
		{Selector: `[data-purpose="video-content-length"]`},
		{Selector: `[class*="duration"]`},
		{Selector: `[class*="length"]`},
		{Selector: `[itemprop="timeRequired"]`},
		{Pattern: regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:total\s+)?(?:hours?|hrs?|uur|stunden|heures|horas)\b`)},
	}
}
