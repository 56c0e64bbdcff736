package writer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/alphavantage-data/internal/metrics"
	"github.com/rickgao/alphavantage-data/internal/model"
)

// DB is the subset of pgxpool.Pool the ingestor uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Config holds ingestion settings.
type Config struct {
	BatchSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 1000}
}

// Ingestor writes frames into their destination tables, creating each
// table on first use.
type Ingestor struct {
	cfg    Config
	db     DB
	logger *slog.Logger

	mu      sync.Mutex
	created map[string]bool
}

// NewIngestor creates an Ingestor over db.
func NewIngestor(cfg Config, db DB, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Ingestor{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		created: make(map[string]bool),
	}
}

// Ingest writes frame and returns the number of rows inserted. Rows
// already present (primary-key conflict) are skipped.
func (in *Ingestor) Ingest(ctx context.Context, frame *model.Frame) (int, error) {
	schema, ok := Schemas[frame.Table]
	if !ok {
		return 0, fmt.Errorf("ingest: unknown table %q", frame.Table)
	}
	if !slices.Equal(frame.Columns, schema.ColumnNames()) {
		return 0, fmt.Errorf("ingest %s: frame columns %v do not match schema %v",
			frame.Table, frame.Columns, schema.ColumnNames())
	}
	if frame.Len() == 0 {
		return 0, nil
	}

	if err := in.ensureTable(ctx, schema); err != nil {
		return 0, err
	}

	start := time.Now()
	insertSQL := schema.InsertSQL()
	inserted := 0
	conflicts := 0

	for chunk := range slices.Chunk(frame.Rows, in.cfg.BatchSize) {
		batch := &pgx.Batch{}
		for _, row := range chunk {
			batch.Queue(insertSQL, row...)
		}

		results := in.db.SendBatch(ctx, batch)
		for range chunk {
			ct, err := results.Exec()
			if err != nil {
				results.Close()
				return inserted, fmt.Errorf("ingest %s: %w", frame.Table, err)
			}
			if ct.RowsAffected() == 0 {
				conflicts++
			} else {
				inserted++
			}
		}
		if err := results.Close(); err != nil {
			return inserted, fmt.Errorf("ingest %s: close batch: %w", frame.Table, err)
		}
	}

	metrics.RowsIngested.WithLabelValues(frame.Table).Add(float64(inserted))
	metrics.IngestConflicts.WithLabelValues(frame.Table).Add(float64(conflicts))

	in.logger.Info("frame ingested",
		"table", frame.Table,
		"rows", frame.Len(),
		"inserted", inserted,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return inserted, nil
}

// ensureTable creates the destination table on first use.
func (in *Ingestor) ensureTable(ctx context.Context, schema TableSchema) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.created[schema.Name] {
		return nil
	}
	if _, err := in.db.Exec(ctx, schema.CreateDDL()); err != nil {
		return fmt.Errorf("create table %s: %w", schema.Name, err)
	}
	in.created[schema.Name] = true
	return nil
}
