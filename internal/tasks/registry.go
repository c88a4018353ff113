package tasks

import (
	"context"
	"sync"
)

// Registry stores tasks in memory and is safe for concurrent use. It is the
// only shared mutable state of the service: one writer goroutine per running
// task plus any number of polling readers. State does not survive restarts.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Task
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Task)}
}

// Create stores a new task. It fails with ErrDuplicate when the ID is taken.
func (r *Registry) Create(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[task.ID]; exists {
		return ErrDuplicate
	}
	r.byID[task.ID] = task
	return nil
}

// Get returns a snapshot of the task. Readers always observe a fully-formed
// value since tasks are stored by value under the lock.
func (r *Registry) Get(ctx context.Context, taskID string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.byID[taskID]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Update applies mutate to the stored task atomically. The registry does not
// enforce lifecycle invariants; the task's runner is the sole writer after
// creation and is responsible for monotonic progress and terminal states.
func (r *Registry) Update(ctx context.Context, taskID string, mutate func(*Task)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.byID[taskID]
	if !ok {
		return ErrNotFound
	}
	mutate(&task)
	r.byID[taskID] = task
	return nil
}

// Count returns the number of registered tasks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
