package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"course-intel/config"
	"course-intel/heuristics"
	"course-intel/models"
	"course-intel/utils"
)

func TestMain(m *testing.M) {
	utils.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MinDelay = 0
	cfg.MaxDelay = 0
	cfg.SettleDelay = 0
	cfg.RetryBackoff = time.Millisecond
	cfg.RequestTimeout = 5 * time.Second
	cfg.MaxRetries = 2
	cfg.DrillDown = true
	return cfg
}

func testSelectors() Selectors {
	return Selectors{Fallback: SelectorSet{
		PriceSelectors:     []string{".price", ".plan"},
		CurriculumSelector: ".curriculum",
		ModuleSelector:     ".module",
		LessonSelector:     ".lesson",
		CourseLinkSelector: ".course a",
	}}
}

func platform(name, url string) models.RankedPlatform {
	return models.RankedPlatform{
		PlatformProfile: models.PlatformProfile{Name: name, BaseURL: url, Scope: models.ScopeGlobal},
		SearchURL:       url,
	}
}

func TestResearchPlatformSearchPage(t *testing.T) {
	const url = "https://acme.test/search?q=go"
	b := newFakeBrowser(map[string]*fakeDoc{
		url: {
			text: "Watch video lectures and earn a certificate. 12 hours of content",
			nodes: map[string][]fakeNode{
				".price":  nodes("$10", "$11", "$12", "$13", "$14", "$15", "$16"),
				".plan":   nodes("  €5/month "),
				".module": repeat(37, "Section"),
				".lesson": repeat(74, "Lesson"),
			},
		},
	})
	store := &fakePersister{}
	cfg := testConfig()
	cfg.DrillDown = false

	s := NewScraper(b, store, cfg, WithSelectors(testSelectors()), WithRunID("run-1"))
	got, err := s.ResearchPlatform(context.Background(), platform("Acme Academy", url), "go")
	require.NoError(t, err)

	want := models.ResearchRecord{
		Platform: "Acme Academy",
		URL:      url,
		Pricing: models.PricingSnapshot{
			Model:    models.PricingSubscription,
			Prices:   []string{"$10", "$11", "$12", "$13", "$14", "€5/month"},
			Currency: models.CurrencyUSD,
		},
		Features: models.FeatureFlags{Video: true, Certificate: true},
		Structure: models.StructureSnapshot{
			ModuleCount:             20,
			AverageLessonsPerModule: 2,
			ContentTypes:            []string{"video", "text"},
			TotalDuration:           "12 hours",
		},
		Screenshots: []string{"mem://run-1/screenshots/acme-academy-search.png"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	opened, closed := b.counts()
	require.Equal(t, 1, opened)
	require.Equal(t, 1, closed)
}

func TestResearchPlatformDrillDownMerge(t *testing.T) {
	const (
		search = "https://acme.test/search"
		detail = "https://acme.test/course/1"
	)
	site := map[string]*fakeDoc{
		search: {
			text: "Every course has video",
			nodes: map[string][]fakeNode{
				".price":    nodes("$20"),
				".module":   repeat(3, "Section"),
				".lesson":   repeat(9, "Lesson"),
				".course a": {{text: "Go basics", href: detail}, {text: "Go advanced", href: "https://acme.test/course/2"}},
			},
		},
		detail: {
			text: "Take a quiz, join the community forum",
			nodes: map[string][]fakeNode{
				".curriculum": nodes("Curriculum"),
				".price":      nodes("$99", "$199", "$299"),
				".module":     repeat(4, "Module"),
				".lesson":     repeat(10, "Lesson"),
			},
		},
	}
	store := &fakePersister{}
	s := NewScraper(newFakeBrowser(site), store, testConfig(), WithSelectors(testSelectors()), WithRunID("r"))

	got, err := s.ResearchPlatform(context.Background(), platform("Acme", search), "go")
	require.NoError(t, err)

	require.Equal(t, models.PricingTiered, got.Pricing.Model)
	require.Equal(t, []string{"$99", "$199", "$299"}, got.Pricing.Prices)
	require.Equal(t, models.FeatureFlags{Video: true, Quizzes: true, Forums: true}, got.Features)
	require.Equal(t, 4, got.Structure.ModuleCount)
	require.Equal(t, 3, got.Structure.AverageLessonsPerModule)
	require.Equal(t, []string{
		"mem://r/screenshots/acme-search.png",
		"mem://r/screenshots/acme-detail.png",
	}, got.Screenshots)
	require.Contains(t, store.saved, "r/screenshots/acme-detail.png")
}

func TestDetailPageWithoutCurriculumKeepsSearchStructure(t *testing.T) {
	const (
		search = "https://acme.test/search"
		detail = "https://acme.test/course/1"
	)
	site := map[string]*fakeDoc{
		search: {
			nodes: map[string][]fakeNode{
				".module":   repeat(3, "Section"),
				".lesson":   repeat(9, "Lesson"),
				".course a": {{text: "Go basics", href: detail}},
			},
		},
		detail: {
			text:  "About this course: 4.5 hours",
			nodes: map[string][]fakeNode{".module": repeat(9, "Related")},
		},
	}
	s := NewScraper(newFakeBrowser(site), nil, testConfig(), WithSelectors(testSelectors()))

	got, err := s.ResearchPlatform(context.Background(), platform("Acme", search), "go")
	require.NoError(t, err)
	require.Equal(t, models.StructureSnapshot{
		ModuleCount:             3,
		AverageLessonsPerModule: 3,
		ContentTypes:            heuristics.DefaultContentTypes(),
		TotalDuration:           "4.5 hours",
	}, got.Structure)
	require.Empty(t, got.Screenshots, "no persister means nothing stored")
}

func TestResearchPlatformDefaults(t *testing.T) {
	const url = "https://bare.test/"
	broken := errors.New("invalid selector")
	b := newFakeBrowser(map[string]*fakeDoc{
		url: {queryErr: map[string]error{".price": broken, ".plan": broken, ".module": broken, ".lesson": broken}},
	})
	b.noShots = true

	s := NewScraper(b, &fakePersister{}, testConfig(), WithSelectors(testSelectors()))
	got, err := s.ResearchPlatform(context.Background(), platform("Bare", url), "go")
	require.NoError(t, err)

	require.Equal(t, heuristics.DefaultPricing(), got.Pricing)
	require.Equal(t, heuristics.DefaultStructure(), got.Structure)
	require.Equal(t, models.FeatureFlags{}, got.Features)
	require.Equal(t, []string{}, got.Screenshots)
}

func TestResearchPlatformSkipsFailingSelector(t *testing.T) {
	const url = "https://acme.test/"
	b := newFakeBrowser(map[string]*fakeDoc{
		url: {
			queryErr: map[string]error{".price": errors.New("bad selector")},
			nodes:    map[string][]fakeNode{".plan": nodes("£30", "")},
		},
	})
	cfg := testConfig()
	cfg.DrillDown = false

	got, err := NewScraper(b, nil, cfg, WithSelectors(testSelectors())).
		ResearchPlatform(context.Background(), platform("Acme", url), "go")
	require.NoError(t, err)
	require.Equal(t, []string{"£30"}, got.Pricing.Prices)
	require.Equal(t, models.CurrencyGBP, got.Pricing.Currency)
}

func TestResearchPlatformRetriesNavigation(t *testing.T) {
	const url = "https://flaky.test/"
	b := newFakeBrowser(map[string]*fakeDoc{url: {text: "video"}})
	b.navErrs[url] = []error{errors.New("net::ERR_TIMED_OUT")}

	_, err := NewScraper(b, nil, testConfig()).ResearchPlatform(context.Background(), platform("Flaky", url), "go")
	require.NoError(t, err)
	require.Equal(t, 2, b.navigate[url])
}

func TestResearchPlatformNavigationFailure(t *testing.T) {
	const url = "https://down.test/"
	b := newFakeBrowser(map[string]*fakeDoc{})
	b.navErrs[url] = []error{errors.New("timeout"), errors.New("timeout")}

	_, err := NewScraper(b, nil, testConfig()).ResearchPlatform(context.Background(), platform("Down", url), "go")
	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, StageNavigate, xerr.Stage)
	require.Equal(t, "Down", xerr.Platform)

	opened, closed := b.counts()
	require.Equal(t, opened, closed, "page must be closed on the failure path")
}

func TestResearchPlatformOpenFailure(t *testing.T) {
	b := newFakeBrowser(nil)
	b.openErr = errors.New("target closed")

	_, err := NewScraper(b, nil, testConfig()).ResearchPlatform(context.Background(), platform("X", "https://x.test/"), "go")
	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, StageOpen, xerr.Stage)
	require.ErrorContains(t, err, "target closed")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Udemy", "udemy"},
		{"LinkedIn Learning", "linkedin-learning"},
		{"E-WISE", "e-wise"},
		{"  FUN MOOC!! ", "fun-mooc"},
		{"Öffentliche Akademie", "öffentliche-akademie"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestWorkerPoolIsolatesFailures(t *testing.T) {
	site := map[string]*fakeDoc{
		"https://a.test/": {text: "video certificate"},
		"https://c.test/": {text: "forum"},
	}
	b := newFakeBrowser(site)
	cfg := testConfig()
	cfg.MaxWorkers = 2
	cfg.MaxRetries = 1

	var logs bytes.Buffer
	utils.SetOutput(&logs)
	defer utils.SetOutput(io.Discard)

	platforms := []models.RankedPlatform{
		platform("Alpha", "https://a.test/"),
		platform("Broken", "https://b.test/"),
		platform("Gamma", "https://c.test/"),
	}
	results := NewWorkerPool(NewScraper(b, nil, cfg), cfg).Run(context.Background(), platforms, "go")
	require.Len(t, results, 3)

	records := Records(results)
	require.Len(t, records, 2)
	require.Equal(t, "Alpha", records[0].Platform)
	require.Equal(t, "Gamma", records[1].Platform)

	var xerr *ExtractionError
	require.ErrorAs(t, results[1].Err, &xerr)
	require.Equal(t, StageNavigate, xerr.Stage)
	require.Contains(t, logs.String(), "✗ Broken")
	require.Contains(t, logs.String(), "Platforms researched: 2 | Failed: 1")
}

func TestWorkerPoolRecoversPanic(t *testing.T) {
	site := map[string]*fakeDoc{
		"https://ok.test/":    {text: "video"},
		"https://crash.test/": {panicOnText: true},
	}
	b := newFakeBrowser(site)
	cfg := testConfig()
	cfg.MaxWorkers = 1

	results := NewWorkerPool(NewScraper(b, nil, cfg), cfg).Run(context.Background(), []models.RankedPlatform{
		platform("Crash", "https://crash.test/"),
		platform("Ok", "https://ok.test/"),
	}, "go")

	var xerr *ExtractionError
	require.ErrorAs(t, results[0].Err, &xerr)
	require.Equal(t, StagePanic, xerr.Stage)
	require.ErrorContains(t, xerr, "renderer crashed")
	require.NoError(t, results[1].Err)

	opened, closed := b.counts()
	require.Equal(t, opened, closed)
}

type countingResearcher struct {
	calls int
}

func (c *countingResearcher) ResearchPlatform(ctx context.Context, p models.RankedPlatform, topic string) (models.ResearchRecord, error) {
	c.calls++
	return models.ResearchRecord{Platform: p.Name}, nil
}

func TestWorkerPoolStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &countingResearcher{}
	cfg := testConfig()
	cfg.MaxWorkers = 1

	var platforms []models.RankedPlatform
	for i := range 3 {
		platforms = append(platforms, platform(fmt.Sprintf("P%d", i), "https://p.test/"))
	}
	results := NewWorkerPool(r, cfg).Run(ctx, platforms, "go")

	require.Zero(t, r.calls)
	require.Empty(t, Records(results))
	for _, res := range results {
		var xerr *ExtractionError
		require.ErrorAs(t, res.Err, &xerr)
		require.Equal(t, StageCancelled, xerr.Stage)
		require.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestWorkerPoolEmpty(t *testing.T) {
	results := NewWorkerPool(&countingResearcher{}, testConfig()).Run(context.Background(), nil, "go")
	require.Empty(t, results)
	require.Empty(t, Records(results))
}
