// Package goroutine runs background work with a concurrency cap, panic
// recovery and a single Wait at shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/stacktrace"
)

// DefaultPerCPU is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultPerCPU = 100

// Manager runs tasks in goroutines, never more than its limit at once.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultPerCPU
	}
	return &Manager{sema: make(chan struct{}, limit)}
}

// Go starts f unless the manager is closed or full, in which case f is dropped
// with a warning. Returned errors are collected for Wait.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		slog.WarnContext(ctx, "goroutine manager closed, task dropped")
		return false
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "limit", cap(m.sema))
		return false
	}

	m.wg.Add(1)
	go m.run(ctx, f)

	return true
}

func (m *Manager) run(ctx context.Context, f func(ctx context.Context) error) {
	defer m.wg.Done()
	defer func() { <-m.sema }()
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", string(stack))
			}
		}
	}()

	if ctx.Err() != nil {
		slog.WarnContext(ctx, "goroutine skipped", "because", ctx.Err())
		return
	}

	if err := f(ctx); err != nil {
		m.mu.Lock()
		m.errs = append(m.errs, err)
		m.mu.Unlock()
	}
}

// Every runs f each interval until ctx is done. Errors from f are logged and
// do not stop the loop.
func (m *Manager) Every(ctx context.Context, name string, interval time.Duration, f func(ctx context.Context) error) bool {
	if interval <= 0 {
		slog.WarnContext(ctx, "periodic task disabled", "task", name)
		return false
	}

	return m.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := f(ctx); err != nil {
					slog.ErrorContext(ctx, "periodic task failed", "task", name, "error", err)
				}
			}
		}
	})
}

// Wait closes the manager, waits for running tasks and joins their errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
