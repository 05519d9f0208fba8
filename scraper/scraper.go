// Package scraper visits course platforms in a browser and turns their
// search and course pages into research records.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"course-intel/browser"
	"course-intel/config"
	"course-intel/heuristics"
	"course-intel/models"
	"course-intel/storage"
	"course-intel/utils"
)

// Stages of a platform visit, reported in ExtractionError.
const (
	StageOpen      = "open"
	StageNavigate  = "navigate"
	StageExtract   = "extract"
	StageCancelled = "cancelled"
	StagePanic     = "panic"
)

// ExtractionError is why a platform produced no record.
type ExtractionError struct {
	Platform string
	URL      string
	Stage    string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s failed for %s: %v", e.Platform, e.Stage, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type Scraper struct {
	browser        browser.Browser
	persister      storage.Persister
	cfg            *config.Config
	selectors      Selectors
	keywords       heuristics.FeatureKeywords
	durationProbes []DurationProbe
	runID          string
}

type Option func(*Scraper)

func WithSelectors(sel Selectors) Option {
	return func(s *Scraper) { s.selectors = sel }
}

func WithFeatureKeywords(kw heuristics.FeatureKeywords) Option {
	return func(s *Scraper) { s.keywords = kw }
}

func WithDurationProbes(probes []DurationProbe) Option {
	return func(s *Scraper) { s.durationProbes = probes }
}

// WithRunID prefixes screenshot names so runs do not overwrite each other.
func WithRunID(id string) Option {
	return func(s *Scraper) { s.runID = id }
}

// NewScraper wires a scraper. persister may be nil, in which case
// screenshots are captured but not stored.
func NewScraper(b browser.Browser, persister storage.Persister, cfg *config.Config, opts ...Option) *Scraper {
	s := &Scraper{
		browser:        b,
		persister:      persister,
		cfg:            cfg,
		selectors:      DefaultSelectors(),
		keywords:       heuristics.DefaultFeatureKeywords(),
		durationProbes: DefaultDurationProbes(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResearchPlatform visits the platform's search page and, when a course link
// exists, its first course page. Only failing to open or load the search
// page is an error; anything missing after that falls back to defaults.
func (s *Scraper) ResearchPlatform(ctx context.Context, platform models.RankedPlatform, topic string) (models.ResearchRecord, error) {
	fail := func(stage string, err error) (models.ResearchRecord, error) {
		return models.ResearchRecord{}, &ExtractionError{
			Platform: platform.Name,
			URL:      platform.SearchURL,
			Stage:    stage,
			Err:      err,
		}
	}

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return fail(StageOpen, err)
	}
	defer page.Close()

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	if err := utils.RandomDelay(ctx, s.cfg.MinDelay, s.cfg.MaxDelay); err != nil {
		return fail(StageNavigate, err)
	}

	err = utils.Retry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func() error {
		return page.Navigate(ctx, platform.SearchURL)
	})
	if err != nil {
		return fail(StageNavigate, err)
	}
	s.settle(ctx, page)

	record := models.ResearchRecord{
		Platform:    platform.Name,
		URL:         platform.SearchURL,
		Screenshots: []string{},
	}
	if shot := s.capture(ctx, page, platform.Name, "search"); shot != "" {
		record.Screenshots = append(record.Screenshots, shot)
	}

	set := s.selectors.For(platform.Name)
	found := s.extractPage(ctx, page, set, false)

	if s.cfg.DrillDown {
		if detail, shot, ok := s.drillDown(ctx, page, platform.Name, set); ok {
			found = found.merge(detail)
			if shot != "" {
				record.Screenshots = append(record.Screenshots, shot)
			}
		}
	}

	if err := parent.Err(); err != nil {
		return fail(StageCancelled, err)
	}

	record.Pricing = found.pricing
	record.Features = found.features
	record.Structure = found.structure
	utils.Debug("%s: topic %q, %d prices, %d modules", platform.Name, topic, len(record.Pricing.Prices), record.Structure.ModuleCount)
	return record, nil
}

// drillDown opens the first course link on the page and extracts it.
func (s *Scraper) drillDown(ctx context.Context, page browser.Page, platform string, set SelectorSet) (fields, string, bool) {
	if set.CourseLinkSelector == "" {
		return fields{}, "", false
	}
	links, err := page.QueryAll(ctx, set.CourseLinkSelector)
	if err != nil || len(links) == 0 {
		utils.Debug("%s: no course link to drill into", platform)
		return fields{}, "", false
	}

	if err := links[0].Click(ctx); err != nil {
		utils.Warn("%s: could not open first course: %v", platform, err)
		return fields{}, "", false
	}
	s.settle(ctx, page)

	shot := s.capture(ctx, page, platform, "detail")
	return s.extractPage(ctx, page, set, true), shot, true
}

// settle gives client-rendered content time to paint. Content may still be
// incomplete afterwards; extraction works with whatever is there.
func (s *Scraper) settle(ctx context.Context, page browser.Page) {
	if err := page.Wait(ctx, s.cfg.SettleDelay); err != nil {
		utils.Debug("Settle wait on %s cut short: %v", page.URL(), err)
	}
}

// capture screenshots the viewport and persists it, returning the stored
// location or "" when either step failed.
func (s *Scraper) capture(ctx context.Context, page browser.Page, platform, kind string) string {
	data, err := page.Screenshot(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			utils.Debug("%s: screenshots unsupported by this backend", platform)
		} else {
			utils.Warn("%s: screenshot failed: %v", platform, err)
		}
		return ""
	}
	if s.persister == nil {
		return ""
	}

	name := path.Join(s.runID, "screenshots", Slug(platform)+"-"+kind+".png")
	loc, err := s.persister.Save(ctx, name, data)
	if err != nil {
		utils.Warn("%s: could not save screenshot: %v", platform, err)
		return ""
	}
	return loc
}

// Slug lowercases name and replaces runs of anything but letters and digits
// with a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
