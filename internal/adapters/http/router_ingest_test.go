package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/docqa/internal/config"
	"github.com/kirillkom/docqa/internal/core/domain"
)

type fakeIngestor struct {
	doc          *domain.Document
	err          error
	lastFilename string
	lastMime     string
	lastBody     []byte
}

func (f *fakeIngestor) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	f.lastFilename = filename
	f.lastMime = mimeType
	f.lastBody, _ = io.ReadAll(body)
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeAnswerer struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
	calls        int
}

func (f *fakeAnswerer) Answer(_ context.Context, question string) (*domain.Answer, error) {
	f.calls++
	f.lastQuestion = question
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type fakeDocReader struct {
	doc    *domain.Document
	err    error
	lastID string
}

func (f *fakeDocReader) GetByID(_ context.Context, id string) (*domain.Document, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func testConfig() config.Config {
	return config.Config{
		APIRateLimitRPS:   1000,
		APIRateLimitBurst: 1000,
		APIMaxInFlight:    64,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(ingest *fakeIngestor, qa *fakeAnswerer, docs *fakeDocReader) *Router {
	return NewRouter(testConfig(), testLogger(), ingest, qa, docs, nil)
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentAccepted(t *testing.T) {
	ingest := &fakeIngestor{doc: &domain.Document{
		ID:       "doc-1",
		Filename: "report.pdf",
		Status:   domain.StatusUploaded,
	}}
	router := newTestRouter(ingest, &fakeAnswerer{}, &fakeDocReader{})

	body, contentType := multipartUpload(t, "report.pdf", "%PDF-1.4 fake")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	if ingest.lastFilename != "report.pdf" {
		t.Fatalf("filename = %q, want report.pdf", ingest.lastFilename)
	}
	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.ID != "doc-1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document response: %+v", doc)
	}
}

func TestUploadDocumentRequiresFileField(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAnswerer{}, &fakeDocReader{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("note", "no file here")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetDocumentByID(t *testing.T) {
	docs := &fakeDocReader{doc: &domain.Document{
		ID:         "doc-7",
		Filename:   "handbook.txt",
		Status:     domain.StatusReady,
		ChunkCount: 12,
	}}
	router := newTestRouter(&fakeIngestor{}, &fakeAnswerer{}, docs)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if docs.lastID != "doc-7" {
		t.Fatalf("requested id = %q, want doc-7", docs.lastID)
	}
	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.ChunkCount != 12 {
		t.Fatalf("chunk count = %d, want 12", doc.ChunkCount)
	}
}

func TestAskReturnsAnswer(t *testing.T) {
	qa := &fakeAnswerer{answer: &domain.Answer{
		Text:          "The vacation policy allows 25 days.",
		EvidenceCount: 3,
		Sources: []domain.SourceRef{
			{Label: "handbook.txt", Locator: "chunk 2", Kind: domain.SourceText},
		},
	}}
	router := newTestRouter(&fakeIngestor{}, qa, &fakeDocReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/qa/ask",
		strings.NewReader(`{"question":"how many vacation days do we get?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if qa.lastQuestion != "how many vacation days do we get?" {
		t.Fatalf("question = %q", qa.lastQuestion)
	}
	var answer domain.Answer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if answer.EvidenceCount != 3 || len(answer.Sources) != 1 {
		t.Fatalf("unexpected answer: %+v", answer)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	qa := &fakeAnswerer{answer: &domain.Answer{}}
	router := newTestRouter(&fakeIngestor{}, qa, &fakeDocReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/qa/ask", strings.NewReader(`{"question":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if qa.calls != 0 {
		t.Fatalf("answerer called %d times for empty question", qa.calls)
	}
}

func TestAskRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAnswerer{}, &fakeDocReader{})

	req := httptest.NewRequest(http.MethodPost, "/v1/qa/ask", strings.NewReader(`{question`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeAnswerer{}, &fakeDocReader{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
