package models

// Scope says how wide a platform's audience is.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeRegional Scope = "regional"
	ScopeLocal    Scope = "local"
)

// PlatformProfile is a known or discovered course-selling website.
// Profiles are built once (catalog or external finder) and never mutated.
type PlatformProfile struct {
	Name        string   `json:"name"`
	BaseURL     string   `json:"base_url"`
	Scope       Scope    `json:"scope"`
	Languages   []string `json:"languages"`
	Specialties []string `json:"specialties,omitempty"`
}

// SupportsLanguage reports whether lang is one of the profile's languages.
func (p PlatformProfile) SupportsLanguage(lang string) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// SearchQueryContext holds the normalized inputs of one discovery run.
type SearchQueryContext struct {
	Region     string
	Language   string
	Topic      string
	CourseType string
}

// RankedPlatform is a profile with the search URL resolved for one query.
// Its position in the containing slice is its relevance rank.
type RankedPlatform struct {
	PlatformProfile
	SearchURL string `json:"search_url"`
}
