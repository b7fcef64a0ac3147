package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var ErrBusy = errors.New("generation already running")

// Job is anything a Runner can execute; *Project is the usual one.
type Job interface {
	Run(ctx context.Context) (*Result, error)
}

// Runner executes one job at a time in the background.
type Runner struct {
	mu      sync.Mutex
	running bool
}

// Start runs job in a new goroutine and delivers exactly one Result on the
// returned channel. It returns ErrBusy while a previous job is unfinished.
// Jobs that implement io.Closer are closed after they run.
func (r *Runner) Start(ctx context.Context, job Job) (<-chan Result, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.running = true
	r.mu.Unlock()

	done := make(chan Result, 1)
	go func() {
		var out Result
		defer func() {
			if p := recover(); p != nil {
				out = Result{Err: fmt.Errorf("generation panicked: %v", p)}
			}
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()

			done <- out
			close(done)
		}()

		res, err := job.Run(ctx)
		if c, ok := job.(io.Closer); ok {
			c.Close()
		}

		out = Result{Err: err}
		if res != nil {
			out = *res
			out.Err = err
		}
	}()
	return done, nil
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
