package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"course-intel/models"
)

// PostgresWriter keeps the latest snapshot per (platform, topic). Rows are
// overwritten on every run; there is no history table.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(ctx context.Context, databaseURL string) (*PostgresWriter, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS research_records (
		platform TEXT NOT NULL,
		topic TEXT NOT NULL,
		url TEXT NOT NULL,
		pricing_model TEXT NOT NULL,
		currency TEXT NOT NULL,
		pricing JSONB NOT NULL,
		features JSONB NOT NULL,
		module_count INT NOT NULL,
		avg_lessons_per_module INT NOT NULL,
		structure JSONB NOT NULL,
		screenshots TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (platform, topic)
	);

	CREATE INDEX IF NOT EXISTS idx_research_records_model ON research_records(pricing_model);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

const upsertSQL = `
	INSERT INTO research_records
		(platform, topic, url, pricing_model, currency, pricing, features, module_count, avg_lessons_per_module, structure, screenshots, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (platform, topic) DO UPDATE SET
		url = EXCLUDED.url,
		pricing_model = EXCLUDED.pricing_model,
		currency = EXCLUDED.currency,
		pricing = EXCLUDED.pricing,
		features = EXCLUDED.features,
		module_count = EXCLUDED.module_count,
		avg_lessons_per_module = EXCLUDED.avg_lessons_per_module,
		structure = EXCLUDED.structure,
		screenshots = EXCLUDED.screenshots,
		updated_at = NOW();
	`

// recordArgs flattens a record into upsertSQL arguments.
func recordArgs(topic string, r models.ResearchRecord) ([]any, error) {
	pricing, err := json.Marshal(r.Pricing)
	if err != nil {
		return nil, fmt.Errorf("encode pricing: %w", err)
	}
	features, err := json.Marshal(r.Features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	structure, err := json.Marshal(r.Structure)
	if err != nil {
		return nil, fmt.Errorf("encode structure: %w", err)
	}

	screenshots := r.Screenshots
	if screenshots == nil {
		screenshots = []string{}
	}

	return []any{
		strings.TrimSpace(strings.ToLower(r.Platform)),
		strings.TrimSpace(strings.ToLower(topic)),
		strings.TrimSpace(r.URL),
		string(r.Pricing.Model),
		string(r.Pricing.Currency),
		pricing,
		features,
		r.Structure.ModuleCount,
		r.Structure.AverageLessonsPerModule,
		structure,
		screenshots,
	}, nil
}

func (w *PostgresWriter) WriteBatch(ctx context.Context, topic string, records []models.ResearchRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	enqueued := 0
	for _, r := range records {
		if strings.TrimSpace(r.Platform) == "" {
			continue
		}
		args, err := recordArgs(topic, r)
		if err != nil {
			return fmt.Errorf("record %s: %w", r.Platform, err)
		}
		batch.Queue(upsertSQL, args...)
		enqueued++
	}

	if enqueued == 0 {
		return nil
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch upsert failed at row %d: %w", i, err)
		}
	}

	return nil
}
