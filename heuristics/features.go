package heuristics

import (
	"strings"

	"course-intel/models"
)

// FeatureKeywords maps a feature name (see models.FeatureNames) to its synonyms.
type FeatureKeywords map[string][]string

func DefaultFeatureKeywords() FeatureKeywords {
	return FeatureKeywords{
		models.FeatureVideo:       {"video", "watch", "lecture"},
		models.FeatureQuizzes:     {"quiz", "test", "assessment", "exam"},
		models.FeatureCertificate: {"certificate", "certification", "completion"},
		models.FeatureDownloads:   {"download", "resources", "pdf"},
		models.FeatureMobile:      {"mobile", "app", "ios", "android"},
		models.FeatureForums:      {"forum", "community", "discussion"},
		models.FeatureProjects:    {"project", "assignment", "hands-on"},
		models.FeatureLiveSupport: {"live", "support", "mentor", "1-on-1"},
	}
}

// DefaultFeatures is used when the page text could not be read at all.
// Video is on because virtually every course platform has it.
func DefaultFeatures() models.FeatureFlags {
	return models.FeatureFlags{Video: true}
}

// DetectFeatures sets a flag when any of its keywords occurs anywhere in text.
// Matching is a case-insensitive substring test over the whole page, so a
// keyword in a footer counts the same as one in the course description.
func DetectFeatures(text string, kw FeatureKeywords) models.FeatureFlags {
	lower := strings.ToLower(text)

	var flags models.FeatureFlags
	for _, name := range models.FeatureNames {
		for _, word := range kw[name] {
			if word != "" && strings.Contains(lower, strings.ToLower(word)) {
				flags.Set(name, true)
				break
			}
		}
	}
	return flags
}
