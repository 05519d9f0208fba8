package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"course-intel/config"
	"course-intel/models"
)

func sampleRecord() models.ResearchRecord {
	return models.ResearchRecord{
		Platform: "Udemy",
		URL:      "https://www.udemy.com/courses/search/?q=go",
		Pricing: models.PricingSnapshot{
			Model:    models.PricingTiered,
			Prices:   []string{"$19.99", "$49.99", "$89.99"},
			Currency: models.CurrencyUSD,
		},
		Features:    models.FeatureFlags{Video: true, Certificate: true},
		Structure:   models.StructureSnapshot{ModuleCount: 8, AverageLessonsPerModule: 4, ContentTypes: []string{"video", "text"}},
		Screenshots: []string{"output/udemy-search.png"},
	}
}

func TestLocalPersisterSave(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalPersister(dir)

	loc, err := p.Save(context.Background(), "run-1/shot.png", []byte("png"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "run-1", "shot.png"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
}

func TestNewPersisterRejectsUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage = "floppy"
	_, err := NewPersister(context.Background(), cfg)
	require.Error(t, err)

	cfg.Storage = "sftp"
	_, err = NewPersister(context.Background(), cfg)
	require.Error(t, err, "sftp without credentials must fail fast")

	cfg.Storage = "local"
	p, err := NewPersister(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &LocalPersister{}, p)
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	body   []byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(in.Body)
	f.body = buf.Bytes()
	return &s3.PutObjectOutput{}, f.err
}

func TestS3PersisterSave(t *testing.T) {
	api := &fakeS3{}
	p := &S3Persister{client: api, bucket: "intel", prefix: "runs"}

	loc, err := p.Save(context.Background(), "abc/report.md", []byte("# report"))
	require.NoError(t, err)
	require.Equal(t, "s3://intel/runs/abc/report.md", loc)
	require.Len(t, api.inputs, 1)
	require.Equal(t, "runs/abc/report.md", aws.ToString(api.inputs[0].Key))
	require.Equal(t, "# report", string(api.body))

	api.err = errors.New("denied")
	_, err = p.Save(context.Background(), "x.png", nil)
	require.ErrorContains(t, err, "denied")
}

func TestNewS3PersisterNeedsBucket(t *testing.T) {
	_, err := NewS3Persister(context.Background(), S3Config{})
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.ResearchRecord{sampleRecord()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, csvHeader, rows[0])
	require.Equal(t, "tiered", rows[1][2])
	require.Equal(t, "$19.99 | $49.99 | $89.99", rows[1][4])
	require.Equal(t, "video | certificate", rows[1][6])
	require.Equal(t, "8", rows[1][7])
}

func TestCSVWriterCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.csv")
	require.NoError(t, NewCSVWriter(path).Write([]models.ResearchRecord{sampleRecord()}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestRecordArgs(t *testing.T) {
	args, err := recordArgs(" Go ", sampleRecord())
	require.NoError(t, err)
	require.Len(t, args, 11)
	require.Equal(t, "udemy", args[0])
	require.Equal(t, "go", args[1])
	require.Equal(t, "tiered", args[3])

	var features models.FeatureFlags
	require.NoError(t, json.Unmarshal(args[6].([]byte), &features))
	require.True(t, features.Certificate)

	rec := sampleRecord()
	rec.Screenshots = nil
	args, err = recordArgs("go", rec)
	require.NoError(t, err)
	require.Equal(t, []string{}, args[10])
}
