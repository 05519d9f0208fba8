// Package heuristics classifies raw scraped text into pricing, feature and
// structure signals. Everything here is pure and keyword driven.
package heuristics

import (
	"regexp"
	"strings"

	"course-intel/models"
)

// SubscriptionKeywords mark a price string as recurring.
var SubscriptionKeywords = []string{"/month", "/year", "monthly", "yearly", "subscription"}

// currencySymbols is checked in order; the first symbol found anywhere wins.
var currencySymbols = []struct {
	symbol   string
	currency models.Currency
}{
	{"$", models.CurrencyUSD},
	{"€", models.CurrencyEUR},
	{"£", models.CurrencyGBP},
}

var discountPattern = regexp.MustCompile(`(?i)\d+\s*%|\b(off|sale|discount|korting|rabatt|remise)\b`)

// DefaultPricing is used when no price element was found.
func DefaultPricing() models.PricingSnapshot {
	return models.PricingSnapshot{
		Model:    models.PricingOneTime,
		Prices:   []string{},
		Currency: models.CurrencyUSD,
	}
}

// ClassifyPricing builds a snapshot from raw price strings.
//
// The model is subscription if any string carries a subscription keyword,
// tiered if there are more than two distinct strings, one-time otherwise.
func ClassifyPricing(prices []string) models.PricingSnapshot {
	if len(prices) == 0 {
		return DefaultPricing()
	}

	snap := models.PricingSnapshot{
		Model:    PricingModel(prices),
		Prices:   append([]string(nil), prices...),
		Currency: DetectCurrency(prices),
	}
	for _, p := range prices {
		if discountPattern.MatchString(p) {
			snap.Discounts = append(snap.Discounts, p)
		}
	}
	return snap
}

func PricingModel(prices []string) models.PricingModel {
	for _, p := range prices {
		lower := strings.ToLower(p)
		for _, kw := range SubscriptionKeywords {
			if strings.Contains(lower, kw) {
				return models.PricingSubscription
			}
		}
	}

	distinct := make(map[string]struct{}, len(prices))
	for _, p := range prices {
		distinct[p] = struct{}{}
	}
	if len(distinct) > 2 {
		return models.PricingTiered
	}
	return models.PricingOneTime
}

// DetectCurrency returns the currency of the first symbol in check order
// ($, €, £) that appears in any price. Defaults to USD.
func DetectCurrency(prices []string) models.Currency {
	joined := strings.Join(prices, " ")
	for _, c := range currencySymbols {
		if strings.Contains(joined, c.symbol) {
			return c.currency
		}
	}
	return models.CurrencyUSD
}
