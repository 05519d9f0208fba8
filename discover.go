package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"course-intel/catalog"
	"course-intel/discovery"
	"course-intel/models"
)

var (
	discoverQuery queryFlags
	urlsOnly      bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the platforms and search URLs a research run would visit",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := discovery.New(catalog.Default())
		q := discoverQuery.query()

		if urlsOnly {
			for _, u := range engine.SearchURLs(cmd.Context(), q) {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		}
		printPlatforms(cmd.Context(), cmd.OutOrStdout(), engine, q)
		return nil
	},
}

var queriesQuery queryFlags

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print localized search phrases for a topic",
	Example: `  course-intel queries --language nl --topic "data science" --region netherlands`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := discovery.NewLocalizer(discovery.DefaultVocabularies())
		q := queriesQuery.query()

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"#", "Query"})
		for i, phrase := range l.Queries(catalog.NormalizeLanguage(q.Language), q.Topic, q.Region) {
			t.AppendRow(table.Row{i + 1, phrase})
		}
		t.Render()
		return nil
	},
}

func init() {
	discoverQuery.register(discoverCmd)
	_ = discoverCmd.MarkFlagRequired("topic")
	discoverCmd.Flags().BoolVar(&urlsOnly, "urls", false, "print only the search URLs, one per line")

	queriesQuery.register(queriesCmd)
	_ = queriesCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(discoverCmd, queriesCmd)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printPlatforms(ctx context.Context, w io.Writer, engine *discovery.Engine, q models.SearchQueryContext) {
	platforms := engine.DetectPlatforms(ctx, q)

	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Platforms for %q (%s)", q.Topic, catalog.NormalizeRegion(q.Region)))
	t.AppendHeader(table.Row{"#", "Platform", "Scope", "Languages", "Search URL"})
	for i, p := range platforms {
		t.AppendRow(table.Row{i + 1, p.Name, p.Scope, strings.Join(p.Languages, ","), p.SearchURL})
	}
	t.AppendFooter(table.Row{"", "Total", len(platforms)})
	t.Render()
}
