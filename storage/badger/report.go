package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
type ReportRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(backend *Backend) (storage.ReportRepository, error) {
	return newReportRepository(backend), nil
}

func newReportRepository(backend *Backend) *ReportRepository {
	return &ReportRepository{
		backend: backend,
		logger:  slog.Default().With("component", "report-repository"),
	}
}

// Close releases resources. ReportRepository has no resources to release.
func (r *ReportRepository) Close() error {
	return nil
}

// AddReports stores reports in their document form and maintains the type index.
func (r *ReportRepository) AddReports(ctx context.Context, reports ...*core.Report) error {
	docs := make([][]byte, len(reports))
	for i, report := range reports {
		if err := core.ValidateReport(report); err != nil {
			return fmt.Errorf("report %q: %w", report.ReportID, err)
		}
		data, err := storage.MarshalReport(report)
		if err != nil {
			return err
		}
		docs[i] = data
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i, report := range reports {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := deleteTypeIndex(tx, report.ReportID); err != nil {
				return err
			}
			if err := tx.Set(makeReportKey(report.ReportID), docs[i]); err != nil {
				return err
			}
			if err := tx.Set(makeReportTypeKey(report.ReportType, report.ReportID), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetReport retrieves a single report by ID.
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*core.Report, error) {
	var report *core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		report, err = readReport(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetReportsByType retrieves all readable reports of one type, in ID order.
// Corrupt records are logged and skipped.
func (r *ReportRepository) GetReportsByType(ctx context.Context, reportType core.ReportType) ([]*core.Report, error) {
	prefix := makePartialReportTypeKey(reportType)
	var reports []*core.Report

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var ids []string
		if err := scanPrefix(tx, prefix, func(key, _ []byte) error {
			ids = append(ids, reportIDFromKey(key, prefix))
			return nil
		}); err != nil {
			return err
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := readReport(tx, id)
			switch {
			case errors.Is(err, storage.ErrRecordCorrupt):
				r.logger.Warn("skipping corrupt report", "report_id", id, "error", err)
				continue
			case errors.Is(err, storage.ErrNotFound):
				r.logger.Warn("type index points at missing report", "report_id", id)
				continue
			case err != nil:
				return err
			}
			reports = append(reports, report)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return reports, nil
}

// LoadReports returns every readable report, lost reports first, then sightings.
// Records are read from the primary keyspace so that entries missing from the
// type index are still found. Corrupt records are logged and skipped.
func (r *ReportRepository) LoadReports(ctx context.Context) ([]*core.Report, error) {
	prefix := []byte(reportPrefix)
	var reports []*core.Report

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, prefix, func(key, val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := storage.UnmarshalReport(val)
			if err != nil {
				r.logger.Warn("skipping corrupt report", "report_id", reportIDFromKey(key, prefix), "error", err)
				return nil
			}
			reports = append(reports, report)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(reports, func(a, b *core.Report) int {
		return typeOrder(a.ReportType) - typeOrder(b.ReportType)
	})
	return reports, nil
}

func typeOrder(t core.ReportType) int {
	return slices.Index(core.ReportTypes, t)
}

// DeleteReports removes reports and their index entries.
func (r *ReportRepository) DeleteReports(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeReportKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
				}
				return err
			}
			if err := deleteTypeIndex(tx, id); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// deleteTypeIndex removes index entries for id under every report type.
func deleteTypeIndex(tx *badger.Txn, id string) error {
	for _, t := range core.ReportTypes {
		if err := tx.Delete(makeReportTypeKey(t, id)); err != nil {
			return err
		}
	}
	return nil
}

// readReport reads and decodes one report.
// Returns storage.ErrNotFound when the key is absent.
func readReport(tx *badger.Txn, id string) (*core.Report, error) {
	item, err := tx.Get(makeReportKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return nil, err
	}
	var report *core.Report
	err = item.Value(func(val []byte) error {
		report, err = storage.UnmarshalReport(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
