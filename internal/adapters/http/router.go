package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docqa/internal/config"
	"github.com/kirillkom/docqa/internal/core/ports"
	"github.com/kirillkom/docqa/internal/observability/metrics"
)

// Router exposes the document question-answering pipeline over HTTP.
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	ingest  ports.DocumentIngestor
	qa      ports.QuestionAnswerer
	docs    ports.DocumentReader
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	logger *slog.Logger,
	ingest ports.DocumentIngestor,
	qa ports.QuestionAnswerer,
	docs ports.DocumentReader,
	m *metrics.HTTPServerMetrics,
) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		logger:  logger,
		ingest:  ingest,
		qa:      qa,
		docs:    docs,
		metrics: m,
	}

	r.mux.HandleFunc("GET /healthz", r.handleHealth)
	if m != nil {
		r.mux.Handle("GET /metrics", m.Handler())
	}
	r.mux.HandleFunc("POST /v1/documents", r.handleUploadDocument)
	r.mux.HandleFunc("GET /v1/documents/{document_id}", r.handleGetDocument)
	r.mux.HandleFunc("POST /v1/qa/ask", r.handleAsk)

	var handler http.Handler = r.mux
	if m != nil {
		handler = m.Middleware("api", handler)
	}
	handler = backpressureMiddleware(handler, cfg.APIMaxInFlight, 100*time.Millisecond)
	handler = rateLimitMiddleware(handler, cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(logger, handler)
	handler = requestIDMiddleware(handler)

	r.handler = handler
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const maxUploadBytes = 64 << 20

func (r *Router) handleUploadDocument(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form expected with a file field")
		return
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	doc, err := r.ingest.Upload(req.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		r.writeDomainError(w, req, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (r *Router) handleGetDocument(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("document_id")
	doc, err := r.docs.GetByID(req.Context(), id)
	if err != nil {
		r.writeDomainError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type askRequest struct {
	Question string `json:"question"`
}

func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var ask askRequest
	if err := json.Unmarshal(body, &ask); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a question field")
		return
	}
	if strings.TrimSpace(ask.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	start := time.Now()
	answer, err := r.qa.Answer(req.Context(), ask.Question)
	if err != nil {
		r.recordQuestion("error", 0, false, time.Since(start))
		r.writeDomainError(w, req, err)
		return
	}
	r.recordQuestion(questionOutcome(answer), answer.EvidenceCount, answer.UsedWebFallback, time.Since(start))
	writeJSON(w, http.StatusOK, answer)
}

func (r *Router) recordQuestion(outcome string, evidenceCount int, webFallback bool, duration time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordQuestion("api", outcome, evidenceCount, webFallback, duration)
}
