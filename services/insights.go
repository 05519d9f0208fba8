package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"course-intel/models"
)

// OpportunityCandidates are the features reported as gaps when fewer than
// half of the researched platforms offer them.
var OpportunityCandidates = []string{
	models.FeatureLiveSupport,
	models.FeatureProjects,
	models.FeatureForums,
}

type Summary struct {
	TotalPlatforms     int
	AverageModuleCount float64
	// CommonFeatures are enabled on every record, in models.FeatureNames order.
	CommonFeatures []string
	// PricedCount is how many raw price strings parsed; MinPrice and
	// MaxPrice are zero when it is zero.
	PricedCount   int
	MinPrice      float64
	MaxPrice      float64
	Opportunities []string
	PricingModels map[models.PricingModel]int
	FeatureCounts map[string]int
}

// HasPriceRange reports whether any price parsed.
func (s Summary) HasPriceRange() bool {
	return s.PricedCount > 0
}

// Summarize computes the report aggregates for a run's records.
func Summarize(records []models.ResearchRecord) Summary {
	summary := Summary{
		TotalPlatforms: len(records),
		CommonFeatures: []string{},
		Opportunities:  []string{},
		PricingModels:  make(map[models.PricingModel]int),
		FeatureCounts:  make(map[string]int),
	}

	if len(records) == 0 {
		return summary
	}

	var (
		moduleSum int
		minPrice  = math.MaxFloat64
		maxPrice  = -math.MaxFloat64
	)

	for _, r := range records {
		moduleSum += r.Structure.ModuleCount
		summary.PricingModels[r.Pricing.Model]++

		for _, name := range r.Features.Enabled() {
			summary.FeatureCounts[name]++
		}

		for _, raw := range r.Pricing.Prices {
			price, ok := ParsePrice(raw)
			if !ok {
				continue
			}
			summary.PricedCount++
			minPrice = math.Min(minPrice, price)
			maxPrice = math.Max(maxPrice, price)
		}
	}

	summary.AverageModuleCount = float64(moduleSum) / float64(len(records))
	if summary.PricedCount > 0 {
		summary.MinPrice = minPrice
		summary.MaxPrice = maxPrice
	}

	for _, name := range models.FeatureNames {
		if summary.FeatureCounts[name] == len(records) {
			summary.CommonFeatures = append(summary.CommonFeatures, name)
		}
	}

	half := float64(len(records)) / 2
	for _, name := range OpportunityCandidates {
		if float64(summary.FeatureCounts[name]) < half {
			summary.Opportunities = append(summary.Opportunities, name)
		}
	}

	return summary
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParsePrice strips everything but digits and dots and parses the rest.
// "€1.299,00" therefore reads as 1.299; locale-aware parsing is out of reach
// for free-text scraped prices.
func ParsePrice(raw string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func sortedModels(m map[models.PricingModel]int) []models.PricingModel {
	keys := make([]models.PricingModel, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func truncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
