// Package catalog provides the in-memory candidate pool that matching runs against.
//
// A Catalog loads every report from its loader on first use and serves
// read-only views afterwards. Concurrent first callers block on the same
// load. A failed load is not remembered: the next call tries again.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
)

// Catalog is a lazily loaded, read-only collection of reports.
type Catalog struct {
	loader storage.ReportLoader
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	all    []*core.Report
	byType map[core.ReportType][]*core.Report
	byID   map[string]*core.Report
}

// Option configures a Catalog.
type Option func(*Catalog) error

// WithLogger sets the catalog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) error {
		c.logger = logger
		return nil
	}
}

// New creates a catalog over loader. Nothing is loaded until first use.
func New(loader storage.ReportLoader, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "catalog")
	return c, nil
}

func (c *Catalog) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	reports, err := c.loader.LoadReports(ctx)
	if err != nil {
		c.logger.Error("failed to load reports", "error", err)
		return err
	}
	c.index(reports)
	c.loaded = true
	c.logger.Info("reports loaded",
		"lost", len(c.byType[core.ReportTypeLost]),
		"sightings", len(c.byType[core.ReportTypeSighting]))
	return nil
}

func (c *Catalog) index(reports []*core.Report) {
	c.byType = make(map[core.ReportType][]*core.Report, len(core.ReportTypes))
	c.byID = make(map[string]*core.Report, len(reports))
	for _, r := range reports {
		if _, dup := c.byID[r.ReportID]; dup {
			c.logger.Warn("skipping duplicate report", "report_id", r.ReportID)
			continue
		}
		c.byID[r.ReportID] = r
		c.byType[r.ReportType] = append(c.byType[r.ReportType], r)
	}
	for _, t := range core.ReportTypes {
		c.all = append(c.all, c.byType[t]...)
	}
}

// GetAllByType returns the reports of one type, or every report when
// reportType is nil (lost reports first, then sightings).
// The returned slice must not be modified.
func (c *Catalog) GetAllByType(ctx context.Context, reportType *core.ReportType) ([]*core.Report, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	if reportType == nil {
		return c.all, nil
	}
	return c.byType[*reportType], nil
}

// Get returns one report by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*core.Report, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	r, ok := c.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

// Filter selects reports by attribute. Zero-valued fields match anything.
type Filter struct {
	ReportType *core.ReportType
	Species    core.Species
	Size       core.Size
	Province   string
	Status     core.ReportStatus

	// Query matches reports containing every non-stop word, case-insensitively,
	// in the description, breed, name, canton, colors or features.
	Query string

	Limit int
}

// Search returns reports matching every non-zero field of f, in pool order.
func (c *Catalog) Search(ctx context.Context, f Filter) ([]*core.Report, error) {
	pool, err := c.GetAllByType(ctx, f.ReportType)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(f.Query)
	queryWords := tokenize(query)
	out := make([]*core.Report, 0)
	for _, r := range pool {
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
		p := &r.Profile
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		if f.Province != "" && !strings.EqualFold(p.LastSeenLocation.Province, f.Province) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if query != "" && !containsAllWords(r, queryWords) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
