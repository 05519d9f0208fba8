// Package services assembles research runs and their reports.
package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"course-intel/browser"
	"course-intel/catalog"
	"course-intel/config"
	"course-intel/discovery"
	"course-intel/models"
	"course-intel/scraper"
	"course-intel/storage"
	"course-intel/utils"
)

// Deps are the collaborators of a research run. Browser is owned by the
// caller, which closes it after Research returns.
type Deps struct {
	Engine    *discovery.Engine
	Localizer *discovery.Localizer
	Browser   browser.Browser
	Persister storage.Persister
	Config    *config.Config
	// ScraperOptions are passed through to scraper.NewScraper.
	ScraperOptions []scraper.Option
	Now            func() time.Time
}

type Outcome struct {
	RunID     string
	Platforms []models.RankedPlatform
	Results   []scraper.Result
	Records   []models.ResearchRecord
	Summary   Summary
	Report    []byte
	// ReportLocation is where the persister stored the Markdown report.
	ReportLocation string
}

// Research runs discovery, extraction and reporting for one query. Platform
// failures only shrink the report; the returned error is reserved for the
// report itself not being stored.
func Research(ctx context.Context, deps Deps, q models.SearchQueryContext) (*Outcome, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	out := &Outcome{RunID: uuid.NewString()}
	utils.Section(fmt.Sprintf("Research run %s", out.RunID))

	if deps.Localizer != nil {
		for _, query := range deps.Localizer.Queries(catalog.NormalizeLanguage(q.Language), q.Topic, q.Region) {
			utils.Debug("Localized query: %s", query)
		}
	}

	out.Platforms = deps.Engine.DetectPlatforms(ctx, q)
	if len(out.Platforms) == 0 {
		utils.Warn("No platforms matched topic %q in region %q", q.Topic, q.Region)
	} else {
		utils.Info("Discovered %d platforms", len(out.Platforms))
	}

	opts := append([]scraper.Option{scraper.WithRunID(out.RunID)}, deps.ScraperOptions...)
	s := scraper.NewScraper(deps.Browser, deps.Persister, deps.Config, opts...)
	out.Results = scraper.NewWorkerPool(s, deps.Config).Run(ctx, out.Platforms, q.Topic)
	out.Records = scraper.Records(out.Results)

	var failed []string
	for _, r := range out.Results {
		if r.Err != nil {
			failed = append(failed, r.Platform.Name)
		}
	}

	out.Summary = Summarize(out.Records)
	out.Report = RenderMarkdown(ReportMeta{
		RunID:       out.RunID,
		Topic:       q.Topic,
		Region:      q.Region,
		Language:    q.Language,
		CourseType:  q.CourseType,
		GeneratedAt: now(),
		Failed:      failed,
	}, out.Records, out.Summary)

	// The report is written even when the run was cancelled part way.
	loc, err := deps.Persister.Save(context.WithoutCancel(ctx), path.Join(out.RunID, deps.Config.ReportName), out.Report)
	if err != nil {
		return out, fmt.Errorf("failed to save report: %w", err)
	}
	out.ReportLocation = loc
	utils.Success("Report saved to %s", loc)

	return out, nil
}
