package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"waranalyzer-backend/internal/analysis"
	"waranalyzer-backend/internal/shared/metrics"
	"waranalyzer-backend/internal/shared/telemetry"
)

// checkpoint pairs a progress percentage with a phase message and the pacing
// delay applied after reporting it.
type checkpoint struct {
	progress int
	message  string
	delay    time.Duration
}

var checkpoints = []checkpoint{
	{20, "Parsing WAR archive structure...", 500 * time.Millisecond},
	{40, "Detecting Spring framework configuration...", 800 * time.Millisecond},
	{60, "Analyzing Spring component architecture...", time.Second},
	{80, "Identifying SQL execution patterns...", 700 * time.Millisecond},
}

// ResultSink receives completed results for archival. A sink failure is
// logged and never changes the task outcome.
type ResultSink interface {
	Archive(ctx context.Context, taskID string, result analysis.Result) error
}

// Runner drives a single task through the fixed progress schedule and the
// inspection pipeline, then records the terminal state in the registry. The
// pipeline stages are injectable so tests can run deterministically and a
// real analyzer can replace the heuristics later.
type Runner struct {
	Registry *Registry
	Sink     ResultSink

	Inspect    func(path string) (analysis.StructureFacts, error)
	Components func(analysis.StructureFacts) analysis.ComponentEstimate
	Patterns   func(analysis.StructureFacts) []analysis.PatternFinding

	// PaceScale multiplies the checkpoint delays; 0 disables pacing.
	PaceScale float64
	sleep     func(time.Duration)
	now       func() time.Time
}

// NewRunner constructs a Runner with the default pipeline.
func NewRunner(registry *Registry, sink ResultSink, paceScale float64) *Runner {
	return &Runner{
		Registry:   registry,
		Sink:       sink,
		Inspect:    analysis.Inspect,
		Components: analysis.EstimateComponents,
		Patterns:   analysis.EstimatePatterns,
		PaceScale:  paceScale,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// Run executes the task to a terminal state. It never panics out: any
// failure, including a panic inside a pipeline stage, converts the task to
// failed. The temporary upload is deleted on every exit path.
func (r *Runner) Run(ctx context.Context, taskID string) {
	task, err := r.Registry.Get(ctx, taskID)
	if err != nil {
		telemetry.Error("task.lookup_failed", map[string]any{
			"task_id": taskID,
			"err":     err.Error(),
		})
		return
	}

	defer r.cleanup(taskID, task.FilePath)
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(ctx, taskID, fmt.Errorf("panic: %v", rec))
		}
	}()

	metrics.IncTaskStarted()
	startedAt := r.timeNow()
	if err := r.Registry.Update(ctx, taskID, func(t *Task) {
		t.Status = StatusProcessing
	}); err != nil {
		telemetry.Error("task.update_failed", map[string]any{"task_id": taskID, "err": err.Error()})
		return
	}
	telemetry.Info("task.status", map[string]any{
		"task_id":           taskID,
		"status":            StatusProcessing,
		"status_transition": "pending->processing",
	})

	for _, cp := range checkpoints {
		_ = r.Registry.Update(ctx, taskID, func(t *Task) {
			t.Progress = cp.progress
			t.Message = cp.message
		})
		r.pace(cp.delay)
	}

	facts, err := r.Inspect(task.FilePath)
	if err != nil {
		r.fail(ctx, taskID, err)
		return
	}
	components := r.Components(facts)
	findings := r.Patterns(facts)
	result := analysis.Assemble(facts, components, findings, r.timeNow())

	completedAt := r.timeNow()
	_ = r.Registry.Update(ctx, taskID, func(t *Task) {
		t.Status = StatusCompleted
		t.Progress = 100
		t.Message = "Analysis complete"
		t.Result = &result
		t.CompletedAt = &completedAt
	})
	metrics.IncTaskCompleted()
	metrics.ObserveAnalysisDurationMs(float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("task.status", map[string]any{
		"task_id":           taskID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"total_classes":     facts.TotalClasses,
		"total_jars":        facts.TotalJars,
	})

	if r.Sink != nil {
		if err := r.Sink.Archive(ctx, taskID, result); err != nil {
			telemetry.Error("task.archive_failed", map[string]any{
				"task_id": taskID,
				"err":     err.Error(),
			})
		}
	}
}

func (r *Runner) fail(ctx context.Context, taskID string, cause error) {
	completedAt := r.timeNow()
	if err := r.Registry.Update(ctx, taskID, func(t *Task) {
		t.Status = StatusFailed
		t.Error = cause.Error()
		t.CompletedAt = &completedAt
	}); err != nil {
		telemetry.Error("task.update_failed", map[string]any{"task_id": taskID, "err": err.Error()})
	}
	metrics.IncTaskFailed()
	telemetry.Info("task.status", map[string]any{
		"task_id":           taskID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"err":               cause.Error(),
	})
}

// cleanup removes the temporary upload. A deletion failure is logged and
// swallowed so it cannot mask the task outcome.
func (r *Runner) cleanup(taskID, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		telemetry.Error("task.cleanup_failed", map[string]any{
			"task_id": taskID,
			"path":    path,
			"err":     err.Error(),
		})
		return
	}
	// the per-task directory is empty now; best effort
	_ = os.Remove(filepath.Dir(path))
}

func (r *Runner) pace(d time.Duration) {
	if r.PaceScale <= 0 {
		return
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(time.Duration(float64(d) * r.PaceScale))
}

func (r *Runner) timeNow() time.Time {
	if r.now == nil {
		return time.Now().UTC()
	}
	return r.now().UTC()
}
