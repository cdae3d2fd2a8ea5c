package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/prospect-radar/internal/config"
	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
	"github.com/kirillkom/prospect-radar/internal/observability/metrics"
)

const (
	defaultImportMaxBytes = 10 << 20
	backpressureWait      = 2 * time.Second
)

type Router struct {
	analyzer  ports.ProspectAnalyzer
	generator ports.ProspectGenerator
	submitter ports.RunSubmitter
	importer  ports.CompanyImporter

	validate *validator.Validate
	metrics  *metrics.HTTPServerMetrics
	logger   *slog.Logger

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
	importMaxBytes int64
}

func NewRouter(
	cfg config.Config,
	analyzer ports.ProspectAnalyzer,
	generator ports.ProspectGenerator,
	submitter ports.RunSubmitter,
	importer ports.CompanyImporter,
) *Router {
	importMaxBytes := cfg.ImportMaxBytes
	if importMaxBytes <= 0 {
		importMaxBytes = defaultImportMaxBytes
	}
	return &Router{
		analyzer:       analyzer,
		generator:      generator,
		submitter:      submitter,
		importer:       importer,
		validate:       newValidator(),
		logger:         slog.Default(),
		rateLimitRPS:   cfg.APIRateLimitRPS,
		rateLimitBurst: cfg.APIRateLimitBurst,
		maxInFlight:    cfg.APIMaxInFlight,
		importMaxBytes: importMaxBytes,
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) WithLogger(logger *slog.Logger) *Router {
	if logger != nil {
		rt.logger = logger
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/prospects/analyze", rt.analyzeProspects)
	mux.HandleFunc("/v1/prospects/generate-more", rt.generateMore)
	mux.HandleFunc("/v1/runs", rt.submitRun)
	mux.HandleFunc("/v1/companies/import", rt.importCompanies)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeProspects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body analyzeRequest
	if err := decodeJSON(w, r, rt.validate, &body); err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	rt.streamProgress(w, r, rt.analyzer.Analyze(r.Context(), body.toDomain()))
}

func (rt *Router) generateMore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body generateMoreRequest
	if err := decodeJSON(w, r, rt.validate, &body); err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	rt.streamProgress(w, r, rt.generator.GenerateMore(r.Context(), body.toDomain()))
}

func (rt *Router) submitRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.submitter == nil {
		writeError(w, http.StatusServiceUnavailable, "async runs are not configured")
		return
	}
	var body analyzeRequest
	if err := decodeJSON(w, r, rt.validate, &body); err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	runID, err := rt.submitter.Submit(r.Context(), body.toDomain())
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"runId": runID})
}

func (rt *Router) importCompanies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.importMaxBytes)
	if err := r.ParseMultipartForm(rt.importMaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart body with field 'file' is required")
		return
	}
	ownerID := strings.TrimSpace(r.FormValue("ownerId"))
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	result, err := rt.importer.Import(r.Context(), ownerID, file)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// streamProgress relays every frame to the client and keeps draining after a
// write failure so the producing run can observe the cancelled context.
func (rt *Router) streamProgress(w http.ResponseWriter, r *http.Request, events <-chan domain.ProgressEvent) {
	if rt.metrics != nil {
		rt.metrics.StreamOpened()
		defer rt.metrics.StreamClosed()
	}
	out := newProgressWriter(w, r)
	var writeErr error
	for event := range events {
		if writeErr != nil {
			continue
		}
		if writeErr = out.write(event); writeErr != nil {
			rt.logger.Warn("progress_stream_write_failed",
				"request_id", requestIDFromContext(r.Context()),
				"error", writeErr,
			)
		}
	}
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, status, publicErrorMessage(status, err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
