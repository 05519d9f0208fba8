package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"course-intel/models"
)

// ReportMeta is the header of a rendered report.
type ReportMeta struct {
	RunID       string
	Topic       string
	Region      string
	Language    string
	CourseType  string
	GeneratedAt time.Time
	// Failed lists platforms that produced no record.
	Failed []string
}

// RenderMarkdown writes one section per platform followed by the summary.
func RenderMarkdown(meta ReportMeta, records []models.ResearchRecord, summary Summary) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Course platform research: %s\n\n", meta.Topic)
	if meta.Region != "" {
		fmt.Fprintf(&b, "- Region: %s\n", meta.Region)
	}
	if meta.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", meta.Language)
	}
	if meta.CourseType != "" {
		fmt.Fprintf(&b, "- Course type: %s\n", meta.CourseType)
	}
	fmt.Fprintf(&b, "- Platforms researched: %d\n", len(records))
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if meta.RunID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", meta.RunID)
	}
	b.WriteString("\n## Platforms\n")

	for _, r := range records {
		fmt.Fprintf(&b, "\n### %s\n\n", r.Platform)
		fmt.Fprintf(&b, "URL: %s\n\n", r.URL)

		b.WriteString("**Pricing**\n\n")
		fmt.Fprintf(&b, "- Model: %s\n", r.Pricing.Model)
		fmt.Fprintf(&b, "- Currency: %s\n", r.Pricing.Currency)
		fmt.Fprintf(&b, "- Prices: %s\n", listOrNone(r.Pricing.Prices, ", "))
		if len(r.Pricing.Discounts) > 0 {
			fmt.Fprintf(&b, "- Discounts: %s\n", strings.Join(r.Pricing.Discounts, ", "))
		}

		fmt.Fprintf(&b, "\n**Features**: %s\n\n", listOrNone(r.Features.Enabled(), ", "))

		b.WriteString("**Structure**\n\n")
		fmt.Fprintf(&b, "- Modules: %d\n", r.Structure.ModuleCount)
		fmt.Fprintf(&b, "- Lessons per module: %d\n", r.Structure.AverageLessonsPerModule)
		fmt.Fprintf(&b, "- Content types: %s\n", listOrNone(r.Structure.ContentTypes, ", "))
		if r.Structure.TotalDuration != "" {
			fmt.Fprintf(&b, "- Duration: %s\n", r.Structure.TotalDuration)
		}

		if len(r.Screenshots) > 0 {
			b.WriteString("\n**Screenshots**\n\n")
			for _, s := range r.Screenshots {
				fmt.Fprintf(&b, "- %s\n", s)
			}
		}
	}

	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- Average module count: %.1f\n", summary.AverageModuleCount)
	fmt.Fprintf(&b, "- Common features: %s\n", listOrNone(summary.CommonFeatures, ", "))
	if summary.HasPriceRange() {
		fmt.Fprintf(&b, "- Price range: %.2f to %.2f (%d prices)\n", summary.MinPrice, summary.MaxPrice, summary.PricedCount)
	} else {
		b.WriteString("- Price range: no parseable prices\n")
	}
	fmt.Fprintf(&b, "- Opportunities: %s\n", listOrNone(summary.Opportunities, ", "))

	if len(meta.Failed) > 0 {
		b.WriteString("\n## Skipped platforms\n\n")
		for _, name := range meta.Failed {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return []byte(b.String())
}

func listOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, sep)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// PrintReport renders the comparison and summary tables to w.
func PrintReport(w io.Writer, records []models.ResearchRecord, summary Summary) {
	t := newTable(w)
	t.SetTitle("Course Platform Comparison")
	t.AppendHeader(table.Row{"Platform", "Pricing", "Currency", "Prices", "Modules", "Lessons/Module", "Features"})
	for _, r := range records {
		t.AppendRow(table.Row{
			truncateText(r.Platform, 24),
			r.Pricing.Model,
			r.Pricing.Currency,
			len(r.Pricing.Prices),
			r.Structure.ModuleCount,
			r.Structure.AverageLessonsPerModule,
			truncateText(strings.Join(r.Features.Enabled(), ", "), 48),
		})
	}
	t.Render()

	s := newTable(w)
	s.SetTitle("Market Summary")
	s.AppendRow(table.Row{"Platforms researched", summary.TotalPlatforms})
	s.AppendRow(table.Row{"Average module count", fmt.Sprintf("%.1f", summary.AverageModuleCount)})
	s.AppendRow(table.Row{"Common features", listOrNone(summary.CommonFeatures, ", ")})
	if summary.HasPriceRange() {
		s.AppendRow(table.Row{"Price range", fmt.Sprintf("%.2f - %.2f", summary.MinPrice, summary.MaxPrice)})
	}
	for _, m := range sortedModels(summary.PricingModels) {
		s.AppendRow(table.Row{"Pricing: " + string(m), summary.PricingModels[m]})
	}
	s.AppendRow(table.Row{"Opportunities", listOrNone(summary.Opportunities, ", ")})
	s.Render()
}
