package models

type PricingModel string

const (
	PricingOneTime      PricingModel = "one-time"
	PricingSubscription PricingModel = "subscription"
	PricingTiered       PricingModel = "tiered"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// PricingSnapshot keeps the raw price strings in DOM order, duplicates included.
type PricingSnapshot struct {
	Model     PricingModel `json:"model"`
	Prices    []string     `json:"prices"`
	Currency  Currency     `json:"currency"`
	Discounts []string     `json:"discounts,omitempty"`
}

// Feature names in report order.
const (
	FeatureVideo       = "video"
	FeatureQuizzes     = "quizzes"
	FeatureCertificate = "certificate"
	FeatureDownloads   = "downloads"
	FeatureMobile      = "mobile"
	FeatureForums      = "forums"
	FeatureProjects    = "projects"
	FeatureLiveSupport = "liveSupport"
)

var FeatureNames = []string{
	FeatureVideo,
	FeatureQuizzes,
	FeatureCertificate,
	FeatureDownloads,
	FeatureMobile,
	FeatureForums,
	FeatureProjects,
	FeatureLiveSupport,
}

// FeatureFlags are independent keyword-detected capabilities.
type FeatureFlags struct {
	Video       bool `json:"video"`
	Quizzes     bool `json:"quizzes"`
	Certificate bool `json:"certificate"`
	Downloads   bool `json:"downloads"`
	Mobile      bool `json:"mobile"`
	Forums      bool `json:"forums"`
	Projects    bool `json:"projects"`
	LiveSupport bool `json:"liveSupport"`
}

// Has returns the flag for one of FeatureNames; unknown names are false.
func (f FeatureFlags) Has(name string) bool {
	switch name {
	case FeatureVideo:
		return f.Video
	case FeatureQuizzes:
		return f.Quizzes
	case FeatureCertificate:
		return f.Certificate
	case FeatureDownloads:
		return f.Downloads
	case FeatureMobile:
		return f.Mobile
	case FeatureForums:
		return f.Forums
	case FeatureProjects:
		return f.Projects
	case FeatureLiveSupport:
		return f.LiveSupport
	}
	return false
}

// Set turns a flag on by name. Unknown names are ignored.
func (f *FeatureFlags) Set(name string, v bool) {
	switch name {
	case FeatureVideo:
		f.Video = v
	case FeatureQuizzes:
		f.Quizzes = v
	case FeatureCertificate:
		f.Certificate = v
	case FeatureDownloads:
		f.Downloads = v
	case FeatureMobile:
		f.Mobile = v
	case FeatureForums:
		f.Forums = v
	case FeatureProjects:
		f.Projects = v
	case FeatureLiveSupport:
		f.LiveSupport = v
	}
}

// Enabled lists the names of the flags that are set, in FeatureNames order.
func (f FeatureFlags) Enabled() []string {
	var out []string
	for _, name := range FeatureNames {
		if f.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Merge ORs two flag sets.
func (f FeatureFlags) Merge(other FeatureFlags) FeatureFlags {
	out := f
	for _, name := range FeatureNames {
		if other.Has(name) {
			out.Set(name, true)
		}
	}
	return out
}

type StructureSnapshot struct {
	ModuleCount             int      `json:"moduleCount"`
	AverageLessonsPerModule int      `json:"averageLessonsPerModule"`
	ContentTypes            []string `json:"contentTypes"`
	TotalDuration           string   `json:"totalDuration,omitempty"`
}

// ResearchRecord is the per-platform output of one extraction run.
type ResearchRecord struct {
	Platform    string            `json:"platform"`
	URL         string            `json:"url"`
	Pricing     PricingSnapshot   `json:"pricing"`
	Features    FeatureFlags      `json:"features"`
	Structure   StructureSnapshot `json:"structure"`
	Screenshots []string          `json:"screenshots"`
}
