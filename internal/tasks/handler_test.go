package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"waranalyzer-backend/internal/analysis"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := NewRegistry()
	runner := NewRunner(reg, nil, 0)
	h := NewHandler(reg, runner, t.TempDir())

	r := gin.New()
	h.RegisterRoutes(r)
	return r, h
}

func multipartWar(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestStartAnalysisAcceptsWarUpload(t *testing.T) {
	r, h := newTestRouter(t)

	body, contentType := multipartWar(t, "legacy-app.war", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TaskID  string `json:"task_id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TaskID == "" {
		t.Fatal("expected non-empty task_id")
	}
	if resp.Message != "Analysis task started" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	if _, err := h.Registry.Get(context.Background(), resp.TaskID); err != nil {
		t.Fatalf("task not registered: %v", err)
	}
}

func TestStartAnalysisRejectsNonWar(t *testing.T) {
	r, h := newTestRouter(t)

	body, contentType := multipartWar(t, "resume.pdf", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error envelope, got %s", w.Body.String())
	}
	if h.Registry.Count() != 0 {
		t.Fatalf("rejected upload must not register a task, count=%d", h.Registry.Count())
	}
}

func TestStartAnalysisRejectsMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStartAnalysisSizeLimitBoundary(t *testing.T) {
	r, h := newTestRouter(t)
	h.MaxUploadBytes = 1024

	atLimit := bytes.Repeat([]byte("a"), 1024)
	body, contentType := multipartWar(t, "exact.war", atLimit)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload at the limit must pass, got %d: %s", w.Code, w.Body.String())
	}

	overLimit := bytes.Repeat([]byte("a"), 1025)
	body, contentType = multipartWar(t, "over.war", overLimit)
	req = httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("upload over the limit must fail, got %d", w.Code)
	}
}

func TestGetStatusUnknownTask(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status/no-such-task", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected not_found envelope, got %s", w.Body.String())
	}
}

func TestGetStatusTerminalTaskPollsIdempotently(t *testing.T) {
	r, h := newTestRouter(t)

	completedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	result := analysis.Result{ProjectName: "legacy-app", AnalysisTime: completedAt}
	err := h.Registry.Create(context.Background(), Task{
		ID:          "done",
		Status:      StatusCompleted,
		Progress:    100,
		Message:     "Analysis complete",
		Result:      &result,
		CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var bodies [][]byte
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/status/done", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("poll %d: expected 200, got %d", i, w.Code)
		}
		bodies = append(bodies, w.Body.Bytes())
	}
	for i := 1; i < len(bodies); i++ {
		if !bytes.Equal(bodies[0], bodies[i]) {
			t.Fatalf("terminal polls must be byte-identical:\n%s\nvs\n%s", bodies[0], bodies[i])
		}
	}
}

func TestGetStatusOmitsResultAndErrorWhileRunning(t *testing.T) {
	r, h := newTestRouter(t)

	err := h.Registry.Create(context.Background(), Task{
		ID:       "running",
		Status:   StatusProcessing,
		Progress: 40,
		Message:  "Detecting Spring framework configuration...",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/status/running", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload["result"]; ok {
		t.Fatal("result must be omitted while processing")
	}
	if _, ok := payload["error"]; ok {
		t.Fatal("error must be omitted while processing")
	}
	if payload["progress"] != float64(40) {
		t.Fatalf("unexpected progress %v", payload["progress"])
	}
}
