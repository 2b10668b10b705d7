// Package deep computes the transitive "affected" dependencies of package
// records in the background, so the render loop can poll for results
// without ever blocking on a package database walk.
package deep

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/wexinc/portshell/internal/atom"
	perrors "github.com/wexinc/portshell/internal/errors"
	"github.com/wexinc/portshell/internal/logging"
	"github.com/wexinc/portshell/internal/model"
)

// State is the outcome of a Request.
type State int

const (
	// Pending means the computation has not finished yet.
	Pending State = iota
	// Ready means the result is available.
	Ready
	// Failed means the computation panicked or returned an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ComputeFunc computes the deep dependency set of a record.
type ComputeFunc func(*model.Record) (atom.KeySet, error)

// Config configures an Engine.
type Config struct {
	// Workers bounds the number of computations running at once.
	Workers int
	// PollBudget is how long Request waits for an in-flight computation.
	PollBudget time.Duration
	// Compute overrides the computation, for tests.
	Compute ComputeFunc
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Workers:    4,
		PollBudget: time.Millisecond,
	}
}

type task struct {
	done   chan struct{}
	result atom.KeySet
	err    error
}

// Engine runs one computation per record on a bounded pool of goroutines
// and caches the outcome for the life of the process.
type Engine struct {
	compute ComputeFunc
	sem     *semaphore.Weighted
	budget  time.Duration

	mu    sync.Mutex
	tasks map[*model.Record]*task

	launched atomic.Int64
	running  atomic.Int64
}

// New creates an engine.
func New(cfg Config) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Compute == nil {
		cfg.Compute = func(r *model.Record) (atom.KeySet, error) {
			return model.DeepDependencies(r), nil
		}
	}
	return &Engine{
		compute: cfg.Compute,
		sem:     semaphore.NewWeighted(int64(cfg.Workers)),
		budget:  cfg.PollBudget,
		tasks:   make(map[*model.Record]*task),
	}
}

// Request returns the deep dependencies of r if they are known. The first
// request for a record starts its computation and reports Pending; later
// requests wait at most the poll budget for it to finish.
func (e *Engine) Request(r *model.Record) (atom.KeySet, State) {
	e.mu.Lock()
	t, ok := e.tasks[r]
	if !ok {
		t = &task{done: make(chan struct{})}
		e.tasks[r] = t
	}
	e.mu.Unlock()

	if !ok {
		e.launch(r, t)
		return nil, Pending
	}
	return t.poll(e.budget)
}

func (t *task) poll(budget time.Duration) (atom.KeySet, State) {
	select {
	case <-t.done:
		return t.outcome()
	default:
	}
	if budget <= 0 {
		return nil, Pending
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case <-t.done:
		return t.outcome()
	case <-timer.C:
		return nil, Pending
	}
}

func (t *task) outcome() (atom.KeySet, State) {
	if t.err != nil {
		return nil, Failed
	}
	return t.result, Ready
}

func (e *Engine) launch(r *model.Record, t *task) {
	e.launched.Add(1)
	e.running.Add(1)

	go func() {
		defer e.running.Add(-1)
		defer close(t.done)

		// Acquire never fails on a background context.
		_ = e.sem.Acquire(context.Background(), 1)
		defer e.sem.Release(1)

		start := time.Now()
		t.result, t.err = e.run(r)
		if t.err != nil {
			logging.Error("deep computation failed", "package", r.ID(), "error", t.err)
			return
		}
		logging.Debug("deep computation finished", "package", r.ID(), "count", len(t.result), "duration", time.Since(start))
	}()
}

func (e *Engine) run(r *model.Record) (result atom.KeySet, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = perrors.DeepComputationFailed(r.ID(), fmt.Errorf("panic: %v", p))
		}
	}()
	result, err = e.compute(r)
	if err != nil {
		return nil, perrors.DeepComputationFailed(r.ID(), err)
	}
	return result, nil
}

// Launched returns how many computations have been started.
func (e *Engine) Launched() int {
	return int(e.launched.Load())
}

// InFlight returns how many computations have not finished.
func (e *Engine) InFlight() int {
	return int(e.running.Load())
}
