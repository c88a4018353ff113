package tasks

import (
	"time"

	"waranalyzer-backend/internal/analysis"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Task tracks one archive analysis from submission to a terminal state.
// Result is set iff the task completed; Error is set iff it failed.
type Task struct {
	ID          string
	FileName    string
	FilePath    string
	Status      string
	Progress    int
	Message     string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Result      *analysis.Result
	Error       string
}

// Terminal reports whether the task reached a final state.
func (t Task) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
