// Command course-intel researches online course platforms for a topic and
// writes a comparison report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"course-intel/browser"
	"course-intel/catalog"
	"course-intel/config"
	"course-intel/discovery"
	"course-intel/models"
	"course-intel/services"
	"course-intel/storage"
	"course-intel/utils"
)

var rootCmd = &cobra.Command{
	Use:   "course-intel",
	Short: "Course platform competitive research",
	Long: `Discovers the course platforms relevant to a topic and region, visits their
search and course pages, and reports pricing, features and course structure.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}
}

// queryFlags are shared by every command that takes a research query.
type queryFlags struct {
	topic      string
	region     string
	language   string
	courseType string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.topic, "topic", "t", "", "course topic, e.g. \"data science\"")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "target region, e.g. netherlands or \"Deutschland\"")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "language code, e.g. nl or de-DE (default en)")
	cmd.Flags().StringVar(&f.courseType, "course-type", "", "free-form course type recorded in the report")
}

func (f *queryFlags) query() models.SearchQueryContext {
	return models.SearchQueryContext{
		Region:     f.region,
		Language:   f.language,
		Topic:      f.topic,
		CourseType: f.courseType,
	}
}

var (
	researchQuery queryFlags
	researchOpts  struct {
		backend  string
		workers  int
		headless bool
		out      string
		csv      string
		postgres bool
		json     bool
		verbose  bool
		noDrill  bool
	}
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Discover platforms for a topic and extract their offering",
	Example: `  course-intel research --topic "data science" --region netherlands --language nl
  course-intel research -t python --backend static --workers 4 --csv output/python.csv`,
	RunE: runResearch,
}

func init() {
	researchQuery.register(researchCmd)
	_ = researchCmd.MarkFlagRequired("topic")

	f := researchCmd.Flags()
	f.StringVar(&researchOpts.backend, "backend", "", "page backend: chrome or static")
	f.IntVarP(&researchOpts.workers, "workers", "w", 0, "platforms researched in parallel")
	f.BoolVar(&researchOpts.headless, "headless", true, "run Chrome without a window")
	f.StringVarP(&researchOpts.out, "out", "o", "", "output directory for screenshots and the report")
	f.StringVar(&researchOpts.csv, "csv", "", "also write records to this CSV file")
	f.BoolVar(&researchOpts.postgres, "postgres", false, "also upsert records into DATABASE_URL")
	f.BoolVar(&researchOpts.json, "json", false, "print records as JSON instead of tables")
	f.BoolVarP(&researchOpts.verbose, "verbose", "v", false, "log selector probes and discovery details")
	f.BoolVar(&researchOpts.noDrill, "no-drill-down", false, "skip opening the first course page")

	rootCmd.AddCommand(researchCmd)
}

// researchConfig layers explicitly set flags over config.Load().
func researchConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = researchOpts.backend
	}
	if flags.Changed("workers") {
		cfg.MaxWorkers = researchOpts.workers
	}
	if flags.Changed("headless") {
		cfg.Headless = researchOpts.headless
	}
	if flags.Changed("out") {
		cfg.OutputDir = researchOpts.out
	}
	if flags.Changed("csv") {
		cfg.CSVPath = researchOpts.csv
	}
	if flags.Changed("no-drill-down") {
		cfg.DrillDown = !researchOpts.noDrill
	}
	if researchOpts.verbose {
		cfg.Verbose = true
	}
	return cfg
}

func newBrowser(ctx context.Context, cfg *config.Config) (browser.Browser, error) {
	switch cfg.Backend {
	case browser.BackendChrome, "":
		c, err := browser.NewChrome(ctx, cfg.Headless)
		if err != nil {
			return nil, err
		}
		return c, nil
	case browser.BackendStatic:
		return browser.NewStatic(cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want chrome or static)", cfg.Backend)
	}
}

func runResearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := researchConfig(cmd)
	utils.SetVerbose(cfg.Verbose)

	q := researchQuery.query()
	utils.Info("Research starting | topic=%q region=%q language=%q backend=%s workers=%d",
		q.Topic, q.Region, q.Language, cfg.Backend, cfg.MaxWorkers)

	persister, err := storage.NewPersister(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not set up storage: %w", err)
	}
	if c, ok := persister.(io.Closer); ok {
		defer c.Close()
	}

	b, err := newBrowser(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not start browser: %w", err)
	}
	defer b.Close()

	outcome, err := services.Research(ctx, services.Deps{
		Engine:    discovery.New(catalog.Default()),
		Localizer: discovery.NewLocalizer(discovery.DefaultVocabularies()),
		Browser:   b,
		Persister: persister,
		Config:    cfg,
	}, q)
	if err != nil {
		return err
	}

	if cfg.CSVPath != "" {
		if err := storage.NewCSVWriter(cfg.CSVPath).Write(outcome.Records); err != nil {
			utils.Error("Failed to save CSV: %v", err)
		} else {
			utils.Success("Saved %d records to %s", len(outcome.Records), cfg.CSVPath)
		}
	}

	if researchOpts.postgres {
		if err := savePostgres(ctx, cfg, q.Topic, outcome.Records); err != nil {
			utils.Error("Failed to save records to PostgreSQL: %v", err)
		}
	}

	if researchOpts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(outcome.Records)
	}

	printSummary(cmd.OutOrStdout(), outcome)
	services.PrintReport(cmd.OutOrStdout(), outcome.Records, outcome.Summary)
	return nil
}

func savePostgres(ctx context.Context, cfg *config.Config, topic string, records []models.ResearchRecord) error {
	pg, err := storage.NewPostgresWriter(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := pg.WriteBatch(ctx, topic, records); err != nil {
		return err
	}
	utils.Success("Saved %d records to PostgreSQL", len(records))
	return nil
}

func printSummary(w io.Writer, outcome *services.Outcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║               RESEARCH COMPLETE              ║")
	fmt.Fprintln(w, "╠══════════════════════════════════════════════╣")
	fmt.Fprintf(w, "║  Platforms found  : %-25d║\n", len(outcome.Platforms))
	fmt.Fprintf(w, "║  Records          : %-25d║\n", len(outcome.Records))
	fmt.Fprintf(w, "║  Skipped          : %-25d║\n", len(outcome.Platforms)-len(outcome.Records))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════╝")
	fmt.Fprintf(w, "Report: %s\n", outcome.ReportLocation)
	fmt.Fprintln(w)
}
