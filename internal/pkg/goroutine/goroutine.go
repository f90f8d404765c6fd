// Package goroutine runs background tasks with bounded concurrency and panic
// recovery.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/gatekeep/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by the CPU count when NewManager receives
// a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// ErrLimitReached is returned by Go when every slot is busy.
var ErrLimitReached = errors.New("goroutine: maximum goroutine limit reached")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}

	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f in a goroutine if capacity is available. A task whose context
// is already canceled when it starts is skipped. Panics are recovered and
// logged with the internal stack.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping task", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, skipping task", "task", name)
		return ErrLimitReached
	}

	g.wg.Go(func() {
		defer func() { <-g.sema }()
		defer recoverTask(ctx, name)

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "task canceled before start", "task", name, "because", err)
			return
		}

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return nil
}

// Loop schedules a task that calls f every interval and whenever trigger
// fires, until ctx is done. A non-positive interval disables the ticker.
// Errors from f are logged and do not stop the loop.
func (g *Manager) Loop(ctx context.Context, name string, interval time.Duration, trigger <-chan struct{}, f func(ctx context.Context) error) error {
	return g.Go(ctx, name, func(ctx context.Context) error {
		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			case _, ok := <-trigger:
				if !ok {
					return nil
				}
			}

			runIteration(ctx, name, f)
		}
	})
}

func runIteration(ctx context.Context, name string, f func(ctx context.Context) error) {
	defer recoverTask(ctx, name)

	if err := f(ctx); err != nil {
		slog.ErrorContext(ctx, "loop iteration failed", "task", name, "error", err)
	}
}

func recoverTask(ctx context.Context, name string) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "because", rvr, "stack", string(stack))
}

// Wait closes the manager, blocks until all scheduled goroutines finish and
// returns the collected errors.
func (g *Manager) Wait() error {
	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
