package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course-intel/browser"
	"course-intel/catalog"
	"course-intel/config"
	"course-intel/discovery"
	"course-intel/models"
	"course-intel/storage"
	"course-intel/utils"
)

func TestMain(m *testing.M) {
	utils.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const alphaSearch = `<html><body>
<h1>Results for go</h1>
<p>Watch video lessons. Certificate included.</p>
<div class="course-card"><a href="/alpha/course/1">Go basics</a><span class="price">$49</span></div>
<div class="course-card"><a href="/alpha/course/2">Go pro</a><span class="price">$99/month</span></div>
</body></html>`

const alphaDetail = `<html><body>
<h1>Go basics</h1>
<div class="curriculum">
  <div class="module"><div class="lesson">Intro</div><div class="lesson">Setup</div></div>
  <div class="module"><div class="lesson">Types</div></div>
</div>
</body></html>`

func newCourseSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/alpha/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, alphaSearch)
	})
	mux.HandleFunc("/alpha/course/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, alphaDetail)
	})
	mux.HandleFunc("/down/search", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func researchConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.OutputDir = dir
	cfg.MinDelay = 0
	cfg.MaxDelay = 0
	cfg.SettleDelay = 0
	cfg.MaxRetries = 1
	cfg.RequestTimeout = 5 * time.Second
	cfg.MaxWorkers = 2
	return cfg
}

func TestResearchEndToEnd(t *testing.T) {
	srv := newCourseSite(t)
	dir := t.TempDir()
	cfg := researchConfig(dir)

	cat := catalog.Catalog{Global: []models.PlatformProfile{
		{Name: "Alpha Academy", BaseURL: srv.URL + "/alpha", Scope: models.ScopeGlobal, Languages: []string{"en"}},
		{Name: "Down Academy", BaseURL: srv.URL + "/down", Scope: models.ScopeGlobal, Languages: []string{"en"}},
	}}

	deps := Deps{
		Engine:    discovery.New(cat),
		Localizer: discovery.NewLocalizer(discovery.DefaultVocabularies()),
		Browser:   browser.NewStatic(cfg.RequestTimeout),
		Persister: storage.NewLocalPersister(dir),
		Config:    cfg,
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}

	out, err := Research(context.Background(), deps, models.SearchQueryContext{Topic: "go"})
	require.NoError(t, err)

	require.Len(t, out.Platforms, 2)
	require.Len(t, out.Results, 2)
	require.Len(t, out.Records, 1, "the failing platform is skipped, not fatal")

	rec := out.Records[0]
	require.Equal(t, "Alpha Academy", rec.Platform)
	require.Equal(t, srv.URL+"/alpha/search?q=go", rec.URL)
	require.Equal(t, models.PricingSubscription, rec.Pricing.Model)
	require.Equal(t, []string{"$49", "$99/month"}, rec.Pricing.Prices)
	require.True(t, rec.Features.Video)
	require.True(t, rec.Features.Certificate)
	require.Equal(t, 2, rec.Structure.ModuleCount)
	require.Equal(t, 2, rec.Structure.AverageLessonsPerModule)
	require.Empty(t, rec.Screenshots, "static pages have no screenshots")

	require.Equal(t, filepath.Join(dir, out.RunID, "report.md"), out.ReportLocation)
	saved, err := os.ReadFile(out.ReportLocation)
	require.NoError(t, err)
	require.Equal(t, out.Report, saved)
	require.Contains(t, string(saved), "### Alpha Academy")
	require.Contains(t, string(saved), "## Skipped platforms\n\n- Down Academy")
	require.Contains(t, string(saved), "- Generated: 2026-01-02T03:04:05Z")
}

type failingPersister struct{}

func (failingPersister) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("bucket gone")
}

func TestResearchReportSaveFailure(t *testing.T) {
	cfg := researchConfig(t.TempDir())
	deps := Deps{
		Engine:    discovery.New(catalog.Catalog{}),
		Browser:   browser.NewStatic(time.Second),
		Persister: failingPersister{},
		Config:    cfg,
	}

	out, err := Research(context.Background(), deps, models.SearchQueryContext{Topic: "go"})
	require.ErrorContains(t, err, "bucket gone")
	require.NotNil(t, out)
	require.Empty(t, out.Platforms)
	require.Contains(t, string(out.Report), "- Platforms researched: 0")
}
