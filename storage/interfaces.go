package storage

import (
	"context"

	"github.com/poiesic/petmatch/core"
)

// ReportLoader yields the full set of stored reports in a single call.
// Records that fail to decode are skipped and logged by the implementation,
// never returned as an error for the whole load.
type ReportLoader interface {
	// LoadReports returns every readable report, lost reports before sightings.
	LoadReports(ctx context.Context) ([]*core.Report, error)
}

// ReportRepository provides operations for managing stored reports.
// Implementations must be thread-safe and support concurrent access.
type ReportRepository interface {
	ReportLoader

	// AddReports stores one or more reports, replacing any with the same ID.
	// Every report is validated before anything is written.
	AddReports(ctx context.Context, reports ...*core.Report) error

	// GetReport retrieves a single report by ID.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id string) (*core.Report, error)

	// GetReportsByType retrieves all readable reports of one type in ID order.
	GetReportsByType(ctx context.Context, reportType core.ReportType) ([]*core.Report, error)

	// DeleteReports removes reports by their IDs.
	// Returns ErrNotFound if any report doesn't exist.
	DeleteReports(ctx context.Context, ids ...string) error

	// Close releases resources held by the repository.
	Close() error
}

// EmbeddingCache stores embedding vectors keyed by the content hash of the
// canonical text they were computed from.
type EmbeddingCache interface {
	// GetEmbedding returns the cached vector for key. The boolean is false
	// when nothing is cached; that is not an error.
	GetEmbedding(ctx context.Context, key core.ID) ([]float32, bool, error)

	// PutEmbedding stores the vector for key, replacing any previous value.
	PutEmbedding(ctx context.Context, key core.ID, vector []float32) error
}
