package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
	"github.com/poiesic/petmatch/storage/catalog"
)

const (
	// MaxUploadBytes is the largest image file accepted in a multipart form.
	MaxUploadBytes = 5 << 20

	// DefaultSearchLimit and MaxSearchLimit bound the search endpoint.
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100

	maxJSONBody = 1 << 20
	maxFormBody = core.MaxImages*MaxUploadBytes + 1<<20
)

// ReportResponse is the body returned when a report is filed.
type ReportResponse struct {
	Success  bool              `json:"success"`
	ReportID string            `json:"report_id"`
	Result   *core.FinalOutput `json:"result"`
}

// SearchResponse is the body returned by the search endpoint.
type SearchResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Reports []*core.Report `json:"reports"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"service": ServiceName,
		"version": Version,
		"endpoints": map[string]string{
			"lost_report":     "/api/v1/reports/lost",
			"sighting_report": "/api/v1/reports/sighting",
			"report":          "/api/v1/reports/{id}",
			"search":          "/api/v1/search",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"search_enabled":  s.searcher != nil,
		"pipeline_loaded": s.processor != nil,
	})
}

func (s *Server) handleReport(reportType core.ReportType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, cleanup, err := s.decodeInput(w, r)
		defer cleanup()
		if err != nil {
			s.writeError(w, err)
			return
		}
		input.ReportType = reportType

		output, err := s.processor.Process(r.Context(), input)
		if err != nil {
			s.writeError(w, err)
			return
		}

		report := &core.Report{
			ReportID:       core.NewReportID(reportType),
			ReportType:     reportType,
			Profile:        output.EnrichedProfile,
			RawDescription: input.Description,
			ImagePaths:     persistentImages(input.Images),
			ContactInfo:    input.ContactInfo,
			PetName:        input.PetName,
			ReportDate:     s.now().Format(storage.ReportDateLayout),
			Status:         core.StatusActive,
		}
		if err := s.store.AddReports(r.Context(), report); err != nil {
			s.writeError(w, fmt.Errorf("failed to store report: %w", err))
			return
		}
		s.logger.Info("report filed",
			"report_id", report.ReportID,
			"type", reportType,
			"matches", len(output.Matches.Candidates),
			"confidence", output.Matches.ConfidenceLevel)

		writeJSON(w, http.StatusOK, ReportResponse{Success: true, ReportID: report.ReportID, Result: output})
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetReport(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search is not available"})
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	reports, err := s.searcher.Search(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Success: true, Count: len(reports), Reports: reports})
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		Province: q.Get("province"),
		Query:    q.Get("q"),
		Limit:    DefaultSearchLimit,
	}
	if v := q.Get("species"); v != "" {
		species, err := core.ParseSpecies(v)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		f.Species = species
	}
	if v := q.Get("size"); v != "" {
		size, err := core.ParseSize(v)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		f.Size = size
	}
	if v := q.Get("type"); v != "" {
		reportType, err := core.ParseReportType(v)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		f.ReportType = &reportType
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return f, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
		}
		f.Limit = min(limit, MaxSearchLimit)
	}
	return f, nil
}

// decodeInput reads a UserInput from a JSON body or a multipart form.
// The returned cleanup removes uploaded files and is always safe to call.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*core.UserInput, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.decodeForm(w, r)
	}

	var input core.UserInput
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(&input); err != nil {
		return nil, noop, fmt.Errorf("%w: invalid JSON body: %w", ErrBadRequest, err)
	}
	// Server-side paths only come from multipart uploads.
	for _, img := range input.Images {
		if !isRemoteImage(img) && !strings.HasPrefix(img, "data:image/") {
			return nil, noop, fmt.Errorf("%w: image %q must be an http(s) or data:image URL", ErrBadRequest, img)
		}
	}
	return &input, noop, nil
}

func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request) (*core.UserInput, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, noop, fmt.Errorf("%w: invalid form: %w", ErrBadRequest, err)
	}

	input := &core.UserInput{
		Description: r.FormValue("description"),
		ContactInfo: r.FormValue("contact_info"),
		PetName:     r.FormValue("pet_name"),
		Location: core.Location{
			Province:          r.FormValue("province"),
			Canton:            strings.TrimSpace(r.FormValue("canton")),
			District:          strings.TrimSpace(r.FormValue("district")),
			AdditionalDetails: strings.TrimSpace(r.FormValue("additional_details")),
		},
	}

	files := r.MultipartForm.File["images"]
	if len(files) > core.MaxImages {
		return nil, noop, fmt.Errorf("%w: %w: maximum %d images allowed", ErrBadRequest, core.ErrValidation, core.MaxImages)
	}
	if len(files) == 0 {
		return input, noop, nil
	}

	dir, err := os.MkdirTemp("", "petmatch-upload-*")
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove uploads", "dir", dir, "error", err)
		}
	}
	for i, fh := range files {
		if fh.Size > MaxUploadBytes {
			return nil, cleanup, fmt.Errorf("%w: image %s exceeds %d bytes", ErrBadRequest, fh.Filename, MaxUploadBytes)
		}
		path, err := saveUpload(dir, i, fh)
		if err != nil {
			return nil, cleanup, err
		}
		input.Images = append(input.Images, path)
	}
	return input, cleanup, nil
}

func saveUpload(dir string, i int, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, fmt.Sprintf("upload_%d_%s", i, filepath.Base(fh.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return path, dst.Close()
}

// persistentImages keeps only references that outlive the request.
// Uploaded files are removed once the request completes.
func persistentImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if isRemoteImage(img) {
			out = append(out, img)
		}
	}
	return out
}

func isRemoteImage(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrServiceUnavailable), errors.Is(err, storage.ErrStorageClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
