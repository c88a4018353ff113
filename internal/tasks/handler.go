package tasks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"waranalyzer-backend/internal/analysis"
	"waranalyzer-backend/internal/shared/metrics"
	"waranalyzer-backend/internal/shared/server/respond"
	"waranalyzer-backend/internal/shared/telemetry"
	"waranalyzer-backend/internal/shared/util"
)

const DefaultMaxUploadBytes = 100 << 20

// Handler wires the submission and polling endpoints to the registry and
// runner.
type Handler struct {
	Registry *Registry
	Runner   *Runner
	TempDir  string
	// MaxUploadBytes caps the accepted archive size; zero means the
	// 100 MiB default.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(registry *Registry, runner *Runner, tempDir string) *Handler {
	return &Handler{
		Registry:       registry,
		Runner:         runner,
		TempDir:        tempDir,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// RegisterRoutes attaches the task routes to the engine. The paths are part
// of the wire contract consumed by the polling frontend. submitMiddleware
// runs on the upload endpoint only; polling stays unthrottled so terminal
// statuses always answer.
func (h *Handler) RegisterRoutes(r *gin.Engine, submitMiddleware ...gin.HandlerFunc) {
	submit := append(append([]gin.HandlerFunc{}, submitMiddleware...), h.startAnalysis)
	r.POST("/analyze", submit...)
	r.GET("/status/:task_id", h.getStatus)
}

type statusResponse struct {
	TaskID   string           `json:"task_id"`
	Status   string           `json:"status"`
	Progress int              `json:"progress"`
	Message  string           `json:"message"`
	Result   *analysis.Result `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (h *Handler) startAnalysis(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".war") {
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, "validation_error", "only .war files are accepted", nil)
		return
	}
	if header.Size > h.maxUploadBytes() {
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 100 MiB limit", nil)
		return
	}

	sanitized, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	taskID := uuid.NewString()
	filePath, err := h.saveUpload(taskID, sanitized, file)
	if err != nil {
		telemetry.Error("task.save_upload_failed", map[string]any{
			"task_id": taskID,
			"err":     err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		return
	}

	task := Task{
		ID:        taskID,
		FileName:  sanitized,
		FilePath:  filePath,
		Status:    StatusPending,
		Progress:  0,
		Message:   "Preparing analysis...",
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Registry.Create(c.Request.Context(), task); err != nil {
		// duplicate IDs mean broken ID generation, not a client problem
		telemetry.Error("task.create_failed", map[string]any{
			"task_id": taskID,
			"err":     err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create analysis task", nil)
		return
	}

	// fire and forget; the runner communicates through the registry
	go h.Runner.Run(context.Background(), taskID)

	respond.JSON(c, http.StatusOK, gin.H{
		"task_id": taskID,
		"message": "Analysis task started",
	})
}

func (h *Handler) getStatus(c *gin.Context) {
	taskID := c.Param("task_id")

	task, err := h.Registry.Get(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "task not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch task", nil)
		return
	}

	respond.JSON(c, http.StatusOK, statusResponse{
		TaskID:   task.ID,
		Status:   task.Status,
		Progress: task.Progress,
		Message:  task.Message,
		Result:   task.Result,
		Error:    task.Error,
	})
}

func (h *Handler) saveUpload(taskID, fileName string, src io.Reader) (string, error) {
	dir := filepath.Join(h.TempDir, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	fullPath := filepath.Join(dir, fileName)
	dst, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return fullPath, nil
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}
