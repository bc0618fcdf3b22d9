// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage/catalog"
)

// ServiceName and Version are reported by the root endpoint.
const (
	ServiceName = "petmatch"
	Version     = "1.0.0"
)

// Processor runs a submission through the matching pipeline.
type Processor interface {
	Process(ctx context.Context, input *core.UserInput) (*core.FinalOutput, error)
}

// ReportStore persists filed reports and serves them back by ID.
type ReportStore interface {
	AddReports(ctx context.Context, reports ...*core.Report) error
	GetReport(ctx context.Context, id string) (*core.Report, error)
}

// Searcher filters stored reports.
type Searcher interface {
	Search(ctx context.Context, f catalog.Filter) ([]*core.Report, error)
}

// Server serves the HTTP API.
type Server struct {
	processor Processor
	store     ReportStore
	searcher  Searcher
	router    *mux.Router
	logger    *slog.Logger
	now       func() time.Time

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithClock overrides the clock used to date filed reports.
func WithClock(now func() time.Time) Option {
	return func(s *Server) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// WithTimeouts sets the HTTP read and write timeouts used by ListenAndServe.
// Matching a report calls language models, so the write timeout should be generous.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) error {
		s.readTimeout = read
		s.writeTimeout = write
		return nil
	}
}

// NewServer creates a server. searcher may be nil, in which case the search
// endpoint responds 503.
func NewServer(processor Processor, store ReportStore, searcher Searcher, opts ...Option) (*Server, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	s := &Server{
		processor:    processor,
		store:        store,
		searcher:     searcher,
		logger:       slog.Default(),
		now:          time.Now,
		readTimeout:  30 * time.Second,
		writeTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "api")
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/reports/lost", s.handleReport(core.ReportTypeLost)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reports/sighting", s.handleReport(core.ReportTypeSighting)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	s.router.Use(cors, s.requestLogging)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to 30 seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
