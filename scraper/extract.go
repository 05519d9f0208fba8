package scraper

import (
	"context"
	"strings"

	"course-intel/browser"
	"course-intel/heuristics"
	"course-intel/models"
	"course-intel/utils"
)

const maxPricesPerSelector = 5

// fields is what one page yielded. The found flags tell a merge which
// values came from the page rather than from defaults.
type fields struct {
	pricing   models.PricingSnapshot
	features  models.FeatureFlags
	structure models.StructureSnapshot

	foundPrices   bool
	foundFeatures bool
	foundModules  bool
}

// merge lays detail-page fields over search-page fields. Prices and
// structure counts from the detail page replace the search page's when the
// detail page had any; features are ORed.
func (f fields) merge(detail fields) fields {
	out := f
	if detail.foundPrices {
		out.pricing = detail.pricing
		out.foundPrices = true
	}
	if detail.foundFeatures {
		if f.foundFeatures {
			out.features = f.features.Merge(detail.features)
		} else {
			out.features = detail.features
		}
		out.foundFeatures = true
	}
	if detail.foundModules {
		duration := out.structure.TotalDuration
		out.structure = detail.structure
		if out.structure.TotalDuration == "" {
			out.structure.TotalDuration = duration
		}
		out.foundModules = true
	} else if detail.structure.TotalDuration != "" {
		out.structure.TotalDuration = detail.structure.TotalDuration
	}
	return out
}

// extractPage runs every field heuristic against the current page. On a
// detail page the structure counts are only taken inside a curriculum.
func (s *Scraper) extractPage(ctx context.Context, page browser.Page, set SelectorSet, detail bool) fields {
	var out fields

	prices := s.extractPrices(ctx, page, set.PriceSelectors)
	out.pricing = heuristics.ClassifyPricing(prices)
	out.foundPrices = len(prices) > 0

	body, err := page.BodyText(ctx)
	if err != nil {
		utils.Warn("Could not read page text of %s: %v", page.URL(), err)
		out.features = heuristics.DefaultFeatures()
	} else {
		out.features = heuristics.DetectFeatures(body, s.keywords)
		out.foundFeatures = true
	}

	if detail && !s.hasCurriculum(ctx, page, set.CurriculumSelector) {
		out.structure = heuristics.DefaultStructure()
		out.structure.TotalDuration = s.extractDuration(ctx, page, body)
		return out
	}
	out.structure, out.foundModules = s.extractStructure(ctx, page, set, body)
	return out
}

// extractPrices collects up to maxPricesPerSelector trimmed texts per
// selector, in selector then DOM order. A failing selector is skipped.
func (s *Scraper) extractPrices(ctx context.Context, page browser.Page, selectors []string) []string {
	prices := []string{}
	for _, sel := range selectors {
		els, err := page.QueryAll(ctx, sel)
		if err != nil {
			utils.Debug("Price selector %q skipped: %v", sel, err)
			continue
		}
		taken := 0
		for _, el := range els {
			if taken == maxPricesPerSelector {
				break
			}
			text, err := el.Text(ctx)
			if err != nil {
				continue
			}
			if text = strings.TrimSpace(text); text != "" {
				prices = append(prices, text)
				taken++
			}
		}
	}
	return prices
}

func (s *Scraper) extractStructure(ctx context.Context, page browser.Page, set SelectorSet, body string) (models.StructureSnapshot, bool) {
	modules, modErr := s.count(ctx, page, set.ModuleSelector)
	lessons, lessonErr := s.count(ctx, page, set.LessonSelector)
	duration := s.extractDuration(ctx, page, body)

	if modErr != nil && lessonErr != nil {
		snap := heuristics.DefaultStructure()
		snap.TotalDuration = duration
		return snap, false
	}
	return heuristics.BuildStructure(modules, lessons, duration), modules > 0
}

// extractDuration returns the first non-empty match across the probes.
func (s *Scraper) extractDuration(ctx context.Context, page browser.Page, body string) string {
	for _, probe := range s.durationProbes {
		if probe.Pattern != nil {
			if m := probe.Pattern.FindString(body); m != "" {
				return strings.TrimSpace(m)
			}
			continue
		}
		els, err := page.QueryAll(ctx, probe.Selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			text, err := el.Text(ctx)
			if err == nil && strings.TrimSpace(text) != "" {
				return strings.Join(strings.Fields(text), " ")
			}
		}
	}
	return ""
}

func (s *Scraper) hasCurriculum(ctx context.Context, page browser.Page, selector string) bool {
	n, err := s.count(ctx, page, selector)
	return err == nil && n > 0
}

func (s *Scraper) count(ctx context.Context, page browser.Page, selector string) (int, error) {
	if selector == "" {
		return 0, nil
	}
	els, err := page.QueryAll(ctx, selector)
	if err != nil {
		utils.Debug("Selector %q skipped: %v", selector, err)
		return 0, err
	}
	return len(els), nil
}
