package reembed

import (
	"context"

	"github.com/poiesic/petmatch/core"
)

const (
	// DefaultBatchSize is the default number of reports embedded per request
	DefaultBatchSize = 100
)

// ReportIterator walks a set of reports in fixed-size batches.
type ReportIterator struct {
	reports   []*core.Report
	batchSize int
}

// NewReportIterator creates an iterator over reports.
// A non-positive batchSize means DefaultBatchSize.
func NewReportIterator(reports []*core.Report, batchSize int) *ReportIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ReportIterator{
		reports:   reports,
		batchSize: batchSize,
	}
}

// Len returns the number of reports the iterator walks.
func (it *ReportIterator) Len() int {
	return len(it.reports)
}

// ForEach calls fn for each batch in order.
// Iteration stops on the first error from fn. Context cancellation is
// checked before every batch.
func (it *ReportIterator) ForEach(ctx context.Context, fn func([]*core.Report) error) error {
	for start := 0; start < len(it.reports); start += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+it.batchSize, len(it.reports))
		if err := fn(it.reports[start:end]); err != nil {
			return err
		}
	}
	return ctx.Err()
}
