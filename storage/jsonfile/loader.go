// Package jsonfile reads reports from a flat JSON seed document of the form
//
//	{ "lost_pets": [ ... ], "sightings": [ ... ] }
//
// Each element is a report in its stored document form.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
)

// Document is the top-level seed file layout.
type Document struct {
	LostPets  []json.RawMessage `json:"lost_pets"`
	Sightings []json.RawMessage `json:"sightings"`
}

// Loader implements storage.ReportLoader over a JSON file.
type Loader struct {
	path   string
	logger *slog.Logger
}

var _ storage.ReportLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets the logger used to report skipped records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader for the seed document at path.
// The file is not opened until LoadReports is called.
func NewLoader(path string, opts ...Option) (*Loader, error) {
	l := &Loader{path: path, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "jsonfile-loader", "path", path)
	return l, nil
}

// LoadReports reads the file and decodes every record, lost pets first.
// Records that fail to decode or validate are logged and skipped.
func (l *Loader) LoadReports(ctx context.Context) ([]*core.Report, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(ctx, f, l.logger)
}

// Decode parses a seed document from r. The section a record appears in
// is authoritative only when the record does not carry its own report_type.
func Decode(ctx context.Context, r io.Reader, logger *slog.Logger) ([]*core.Report, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	reports := make([]*core.Report, 0, len(doc.LostPets)+len(doc.Sightings))
	sections := []struct {
		reportType core.ReportType
		records    []json.RawMessage
	}{
		{core.ReportTypeLost, doc.LostPets},
		{core.ReportTypeSighting, doc.Sightings},
	}
	for _, section := range sections {
		for i, raw := range section.records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report, err := decodeRecord(raw, section.reportType)
			if err != nil {
				logger.Warn("skipping corrupt report",
					"report_id", peekReportID(raw),
					"section", section.reportType,
					"index", i,
					"error", err)
				continue
			}
			reports = append(reports, report)
		}
	}
	return reports, nil
}

func decodeRecord(raw json.RawMessage, sectionType core.ReportType) (*core.Report, error) {
	var report core.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrRecordCorrupt, err)
	}
	if report.ReportType == "" {
		report.ReportType = sectionType
	}
	return storage.NormalizeReport(&report)
}

// peekReportID extracts report_id from a record that may not fully decode.
func peekReportID(raw json.RawMessage) string {
	var probe struct {
		ReportID string `json:"report_id"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.ReportID
}

// Encode writes reports as a seed document, grouped by type.
func Encode(w io.Writer, reports []*core.Report) error {
	doc := Document{LostPets: []json.RawMessage{}, Sightings: []json.RawMessage{}}
	for _, r := range reports {
		data, err := storage.MarshalReport(r)
		if err != nil {
			return err
		}
		switch r.ReportType {
		case core.ReportTypeLost:
			doc.LostPets = append(doc.LostPets, data)
		case core.ReportTypeSighting:
			doc.Sightings = append(doc.Sightings, data)
		default:
			return fmt.Errorf("%w: %q", core.ErrInvalidReportType, r.ReportType)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
