package discovery

import (
	"strings"
)

// Vocabulary holds the translated synonym sets for one language.
type Vocabulary struct {
	Course   []string
	Online   []string
	Platform []string
	Domain   []string
}

func DefaultVocabularies() map[string]Vocabulary {
	return map[string]Vocabulary{
		"nl": {
			Course:   []string{"cursus", "opleiding", "training"},
			Online:   []string{"online", "digitale"},
			Platform: []string{"platform", "aanbieder"},
			Domain:   []string{"e-learning", "nascholing"},
		},
		"de": {
			Course:   []string{"kurs", "weiterbildung", "schulung"},
			Online:   []string{"online", "digitale"},
			Platform: []string{"plattform", "anbieter"},
			Domain:   []string{"e-learning", "fernstudium"},
		},
		"fr": {
			Course:   []string{"cours", "formation"},
			Online:   []string{"en ligne"},
			Platform: []string{"plateforme", "organisme"},
			Domain:   []string{"e-learning", "mooc"},
		},
		"es": {
			Course:   []string{"curso", "formación"},
			Online:   []string{"online", "en línea"},
			Platform: []string{"plataforma"},
			Domain:   []string{"e-learning"},
		},
	}
}

// Localizer builds natural-language search phrases in a target language.
type Localizer struct {
	vocab map[string]Vocabulary
}

func NewLocalizer(vocab map[string]Vocabulary) *Localizer {
	return &Localizer{vocab: vocab}
}

// Queries returns the phrases for a language in a fixed order: every
// online-word x course-word pair with topic and region, then one phrase per
// platform word, then one per domain keyword. Duplicates are kept. Languages
// without a vocabulary get three English phrases.
func (l *Localizer) Queries(language, topic, region string) []string {
	v, ok := l.vocab[strings.ToLower(language)]
	if !ok || len(v.Course) == 0 {
		return englishFallback(topic, region)
	}

	var out []string
	for _, online := range v.Online {
		for _, course := range v.Course {
			out = append(out, phrase(online, course, topic, region))
		}
	}
	for _, platform := range v.Platform {
		out = append(out, phrase(topic, v.Course[0], platform))
	}
	for _, domain := range v.Domain {
		out = append(out, phrase(topic, domain, region))
	}
	return out
}

func englishFallback(topic, region string) []string {
	return []string{
		phrase("online course", topic, region),
		phrase(topic, "course platform"),
		phrase("learn", topic, "online"),
	}
}

// phrase joins the non-empty words with single spaces.
func phrase(words ...string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}
