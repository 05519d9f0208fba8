// Package catalog holds the knowledge base of known course platforms.
package catalog

import "course-intel/models"

// Catalog is read-only after construction. Regional entries are keyed by the
// canonical region key produced by NormalizeRegion.
type Catalog struct {
	Global   []models.PlatformProfile
	Regional map[string][]models.PlatformProfile
}

// RegionalFor returns the entries for a canonical region key.
func (c Catalog) RegionalFor(region string) []models.PlatformProfile {
	if c.Regional == nil {
		return nil
	}
	return c.Regional[region]
}

// Regions lists the region keys that have catalog entries.
func (c Catalog) Regions() []string {
	keys := make([]string, 0, len(c.Regional))
	for k := range c.Regional {
		keys = append(keys, k)
	}
	return keys
}

func global(name, baseURL string, languages []string, specialties ...string) models.PlatformProfile {
	return models.PlatformProfile{
		Name:        name,
		BaseURL:     baseURL,
		Scope:       models.ScopeGlobal,
		Languages:   languages,
		Specialties: specialties,
	}
}

func regional(name, baseURL string, languages []string, specialties ...string) models.PlatformProfile {
	return models.PlatformProfile{
		Name:        name,
		BaseURL:     baseURL,
		Scope:       models.ScopeRegional,
		Languages:   languages,
		Specialties: specialties,
	}
}

func local(name, baseURL string, languages []string, specialties ...string) models.PlatformProfile {
	return models.PlatformProfile{
		Name:        name,
		BaseURL:     baseURL,
		Scope:       models.ScopeLocal,
		Languages:   languages,
		Specialties: specialties,
	}
}

// Default returns a fresh copy of the built-in catalog.
func Default() Catalog {
	return Catalog{
		Global: []models.PlatformProfile{
			global("Udemy", "https://www.udemy.com", []string{"en", "nl", "de", "fr", "es", "pt", "it", "ja"}),
			global("Coursera", "https://www.coursera.org", []string{"en", "de", "fr", "es", "pt"}),
			global("Skillshare", "https://www.skillshare.com", []string{"en"}, "design", "creative", "photography"),
			global("LinkedIn Learning", "https://www.linkedin.com/learning", []string{"en", "de", "fr", "es", "nl"}, "business", "software"),
			global("edX", "https://www.edx.org", []string{"en", "es"}, "programming", "science", "data"),
			global("Domestika", "https://www.domestika.org", []string{"es", "en", "pt", "de", "fr", "it"}, "design", "illustration", "crafts"),
			global("Teachable", "https://teachable.com", []string{"en"}),
			global("Thinkific", "https://www.thinkific.com", []string{"en"}),
			global("Kajabi", "https://kajabi.com", []string{"en"}),
			global("Podia", "https://www.podia.com", []string{"en"}),
		},
		Regional: map[string][]models.PlatformProfile{
			"netherlands": {
				regional("Springest", "https://www.springest.nl", []string{"nl", "en"}),
				regional("NCOI", "https://www.ncoi.nl", []string{"nl"}, "business", "management", "marketing"),
				regional("LOI", "https://www.loi.nl", []string{"nl"}),
				regional("GoodHabitz", "https://www.goodhabitz.com/nl-nl", []string{"nl", "en", "de", "fr", "es"}, "soft skills", "leadership"),
				local("E-WISE", "https://www.e-wise.nl", []string{"nl"}, "medical", "healthcare", "pharmacy"),
				local("Scholingsportal", "https://www.scholingsportal.nl", []string{"nl"}, "medical", "nursing"),
			},
			"belgium": {
				regional("Syntra", "https://www.syntra.be", []string{"nl", "fr"}, "business", "crafts"),
				regional("Springest BE", "https://www.springest.be", []string{"nl", "fr", "en"}),
			},
			"germany": {
				regional("ILS", "https://www.ils.de", []string{"de"}),
				regional("SGD", "https://www.sgd.de", []string{"de"}),
				regional("openHPI", "https://open.hpi.de", []string{"de", "en"}, "programming", "it", "data"),
				local("Masterplan", "https://www.masterplan.com", []string{"de"}, "business", "leadership"),
			},
			"france": {
				regional("OpenClassrooms", "https://openclassrooms.com", []string{"fr", "en"}, "programming", "data", "web"),
				regional("FUN MOOC", "https://www.fun-mooc.fr", []string{"fr"}),
				local("Cegos", "https://www.cegos.fr", []string{"fr"}, "business", "management"),
			},
			"united-kingdom": {
				regional("FutureLearn", "https://www.futurelearn.com", []string{"en"}),
				regional("OpenLearn", "https://www.open.edu/openlearn", []string{"en"}),
			},
			"spain": {
				regional("Crehana", "https://www.crehana.com", []string{"es"}, "design", "marketing"),
				regional("Tutellus", "https://www.tutellus.com", []string{"es"}, "programming", "finance"),
			},
		},
	}
}
