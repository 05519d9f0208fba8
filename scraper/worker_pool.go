package scraper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"course-intel/config"
	"course-intel/models"
	"course-intel/utils"
)

// Researcher produces one record per platform. *Scraper is the production
// implementation.
type Researcher interface {
	ResearchPlatform(ctx context.Context, platform models.RankedPlatform, topic string) (models.ResearchRecord, error)
}

// Result is the outcome for one platform. Exactly one of Record or Err is
// meaningful.
type Result struct {
	Platform models.RankedPlatform
	Record   models.ResearchRecord
	Err      error
}

type WorkerPool struct {
	researcher Researcher
	cfg        *config.Config
}

func NewWorkerPool(r Researcher, cfg *config.Config) *WorkerPool {
	return &WorkerPool{
		researcher: r,
		cfg:        cfg,
	}
}

// Run researches every platform with at most cfg.MaxWorkers in flight and
// returns one Result per platform in input order. A failing platform never
// stops the others; cancelling ctx stops platforms that have not started.
func (p *WorkerPool) Run(ctx context.Context, platforms []models.RankedPlatform, topic string) []Result {
	results := make([]Result, len(platforms))

	workers := p.cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if len(platforms) < workers {
		workers = len(platforms)
	}
	utils.Info("Researching %d platforms with %d workers", len(platforms), workers)

	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	for i, platform := range platforms {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Platform: platform, Err: &ExtractionError{
				Platform: platform.Name,
				URL:      platform.SearchURL,
				Stage:    StageCancelled,
				Err:      err,
			}}
			continue
		}
		g.Go(func() error {
			results[i] = p.researchOne(ctx, platform, topic)
			return nil
		})
	}
	_ = g.Wait()

	p.collect(results)
	return results
}

// researchOne turns a panic in a platform visit into that platform's error.
func (p *WorkerPool) researchOne(ctx context.Context, platform models.RankedPlatform, topic string) (res Result) {
	res.Platform = platform
	defer func() {
		if r := recover(); r != nil {
			res.Record = models.ResearchRecord{}
			res.Err = &ExtractionError{
				Platform: platform.Name,
				URL:      platform.SearchURL,
				Stage:    StagePanic,
				Err:      fmt.Errorf("%v", r),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = &ExtractionError{Platform: platform.Name, URL: platform.SearchURL, Stage: StageCancelled, Err: err}
		return res
	}
	res.Record, res.Err = p.researcher.ResearchPlatform(ctx, platform, topic)
	return res
}

func (p *WorkerPool) collect(results []Result) {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			utils.Error("✗ %s skipped: %v", r.Platform.Name, r.Err)
			failed++
			continue
		}
		utils.Info("✓ %s", r.Platform.Name)
	}
	utils.Success("Platforms researched: %d | Failed: %d", len(results)-failed, failed)
}

// Records keeps the successful records in platform order.
func Records(results []Result) []models.ResearchRecord {
	records := make([]models.ResearchRecord, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			records = append(records, r.Record)
		}
	}
	return records
}
