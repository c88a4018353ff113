package tasks

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"waranalyzer-backend/internal/analysis"
)

// writeTestWar builds a real zip archive with the given number of classes and
// the named jar entries, returning its on-disk path.
func writeTestWar(t *testing.T, dir string, classCount int, jarNames ...string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []string{"WEB-INF/web.xml"}
	for i := 0; i < classCount; i++ {
		entries = append(entries, fmt.Sprintf("WEB-INF/classes/com/nbs/Class%d.class", i))
	}
	for _, jar := range jarNames {
		entries = append(entries, "WEB-INF/lib/"+jar)
	}
	for _, name := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte("x")); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := filepath.Join(dir, "legacy-app.war")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write war: %v", err)
	}
	return path
}

type recordingSink struct {
	taskID string
	result analysis.Result
	err    error
	calls  int
}

func (s *recordingSink) Archive(ctx context.Context, taskID string, result analysis.Result) error {
	s.calls++
	s.taskID = taskID
	s.result = result
	return s.err
}

func newTestTask(t *testing.T, reg *Registry, filePath string) string {
	t.Helper()
	taskID := "task-" + filepath.Base(t.Name())
	err := reg.Create(context.Background(), Task{
		ID:        taskID,
		FileName:  filepath.Base(filePath),
		FilePath:  filePath,
		Status:    StatusPending,
		Message:   "Preparing analysis...",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return taskID
}

func TestRunnerCompletesTask(t *testing.T) {
	dir := t.TempDir()
	warPath := writeTestWar(t, dir, 200, "spring-core-5.3.2.jar", "commons-io-2.11.jar")

	reg := NewRegistry()
	sink := &recordingSink{}
	runner := NewRunner(reg, sink, 0)
	taskID := newTestTask(t, reg, warPath)

	runner.Run(context.Background(), taskID)

	task, err := reg.Get(context.Background(), taskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (error=%q)", task.Status, task.Error)
	}
	if task.Progress != 100 {
		t.Fatalf("expected progress 100, got %d", task.Progress)
	}
	if task.Message != "Analysis complete" {
		t.Fatalf("unexpected message %q", task.Message)
	}
	if task.Result == nil {
		t.Fatal("expected result on completed task")
	}
	if task.CompletedAt == nil {
		t.Fatal("expected CompletedAt on completed task")
	}
	if task.Error != "" {
		t.Fatalf("completed task must not carry an error, got %q", task.Error)
	}

	result := task.Result
	if result.ProjectName != "legacy-app" {
		t.Fatalf("expected project name legacy-app, got %q", result.ProjectName)
	}
	if !result.WarInfo.SpringDetected || result.WarInfo.SpringVersion != "5.3.2" {
		t.Fatalf("spring detection failed: %+v", result.WarInfo)
	}
	if result.WarInfo.TotalClasses != 200 || result.WarInfo.TotalJars != 2 {
		t.Fatalf("unexpected archive facts: %+v", result.WarInfo)
	}
	if got := result.SpringComponents.Controllers; got != 10 {
		t.Fatalf("expected 10 controllers, got %d", got)
	}
	if got := result.SpringComponents.Services; got != 13 {
		t.Fatalf("expected 13 services, got %d", got)
	}
	if got := result.SpringComponents.Repositories; got != 8 {
		t.Fatalf("expected 8 repositories, got %d", got)
	}
	if got := len(result.SQLPatterns); got != 10 {
		t.Fatalf("expected 10 sql patterns, got %d", got)
	}

	if sink.calls != 1 || sink.taskID != taskID {
		t.Fatalf("expected one sink call for %s, got %d for %q", taskID, sink.calls, sink.taskID)
	}

	if _, err := os.Stat(warPath); !os.IsNotExist(err) {
		t.Fatalf("expected upload deleted, stat err=%v", err)
	}
}

func TestRunnerFailsOnCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	warPath := filepath.Join(dir, "broken.war")
	if err := os.WriteFile(warPath, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg := NewRegistry()
	runner := NewRunner(reg, nil, 0)
	taskID := newTestTask(t, reg, warPath)

	runner.Run(context.Background(), taskID)

	task, err := reg.Get(context.Background(), taskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Error == "" {
		t.Fatal("expected non-empty error on failed task")
	}
	if task.Result != nil {
		t.Fatal("failed task must not carry a result")
	}
	if task.CompletedAt == nil {
		t.Fatal("expected CompletedAt on failed task")
	}

	if _, err := os.Stat(warPath); !os.IsNotExist(err) {
		t.Fatalf("expected upload deleted, stat err=%v", err)
	}
}

func TestRunnerSinkFailureDoesNotChangeOutcome(t *testing.T) {
	dir := t.TempDir()
	warPath := writeTestWar(t, dir, 30, "spring-web-4.3.0.jar")

	reg := NewRegistry()
	sink := &recordingSink{err: errors.New("bucket offline")}
	runner := NewRunner(reg, sink, 0)
	taskID := newTestTask(t, reg, warPath)

	runner.Run(context.Background(), taskID)

	task, err := reg.Get(context.Background(), taskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("expected completed despite sink failure, got %s", task.Status)
	}
	if sink.calls != 1 {
		t.Fatalf("expected one sink call, got %d", sink.calls)
	}
}

func TestRunnerPanicConvertsToFailed(t *testing.T) {
	dir := t.TempDir()
	warPath := writeTestWar(t, dir, 5)

	reg := NewRegistry()
	runner := NewRunner(reg, nil, 0)
	runner.Components = func(analysis.StructureFacts) analysis.ComponentEstimate {
		panic("boom")
	}
	taskID := newTestTask(t, reg, warPath)

	runner.Run(context.Background(), taskID)

	task, err := reg.Get(context.Background(), taskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Error == "" {
		t.Fatal("expected panic to surface as task error")
	}
	if _, err := os.Stat(warPath); !os.IsNotExist(err) {
		t.Fatalf("expected upload deleted, stat err=%v", err)
	}
}

func TestRunnerUnknownTaskIsNoop(t *testing.T) {
	runner := NewRunner(NewRegistry(), nil, 0)
	// must not panic or create registry entries
	runner.Run(context.Background(), "missing")
}
