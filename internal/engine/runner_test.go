package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivlev/textshot/internal/config"
)

type fakeJob struct {
	release chan struct{}
	err     error
	closed  atomic.Bool

	active *atomic.Int32
	peak   *atomic.Int32
}

func (j *fakeJob) Run(ctx context.Context) (*Result, error) {
	if j.active != nil {
		n := j.active.Add(1)
		for {
			p := j.peak.Load()
			if n <= p || j.peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer j.active.Add(-1)
	}
	if j.release != nil {
		select {
		case <-j.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if j.err != nil {
		return nil, j.err
	}
	return &Result{XMLPath: "/tmp/output.xml"}, nil
}

func (j *fakeJob) Close() error {
	j.closed.Store(true)
	return nil
}

func TestRunnerBusy(t *testing.T) {
	var r Runner
	job := &fakeJob{release: make(chan struct{})}

	done, err := r.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !r.Running() {
		t.Error("runner should report running")
	}

	if _, err := r.Start(context.Background(), &fakeJob{}); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(job.release)
	res := <-done
	if res.Err != nil || res.XMLPath != "/tmp/output.xml" {
		t.Errorf("unexpected result %+v", res)
	}
	if !job.closed.Load() {
		t.Error("job was not closed")
	}
	if r.Running() {
		t.Error("runner still running after result")
	}

	// A finished runner accepts new work.
	done, err = r.Start(context.Background(), &fakeJob{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if res := <-done; res.Err == nil || res.Err.Error() != "boom" {
		t.Errorf("expected boom error, got %+v", res)
	}
}

type panicJob struct{}

func (panicJob) Run(context.Context) (*Result, error) {
	panic("font face exploded")
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	var r Runner
	done, err := r.Start(context.Background(), panicJob{})
	if err != nil {
		t.Fatal(err)
	}
	res := <-done
	if res.Err == nil || !contains(res.Err.Error(), "font face exploded") {
		t.Errorf("expected panic as error, got %+v", res)
	}
	if r.Running() {
		t.Fatal("runner stuck after a panicking job")
	}
	if _, err := r.Start(context.Background(), &fakeJob{}); err != nil {
		t.Errorf("runner refused new work: %v", err)
	}
}

func TestRunBatchLimit(t *testing.T) {
	var active, peak atomic.Int32
	release := make(chan struct{})

	var jobs []Job
	for i := 0; i < 6; i++ {
		jobs = append(jobs, &fakeJob{release: release, active: &active, peak: &peak})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var results []*Result
	var err error
	go func() {
		defer wg.Done()
		results, err = RunBatch(context.Background(), jobs, 2)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if len(results) != 6 || results[5] == nil {
		t.Errorf("missing results: %v", results)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency %d exceeds limit", p)
	}
}

func TestRunBatchError(t *testing.T) {
	jobs := []Job{&fakeJob{}, &fakeJob{err: errors.New("broken script")}}
	_, err := RunBatch(context.Background(), jobs, 1)
	if err == nil || !contains(err.Error(), "broken script") || !contains(err.Error(), "job 2") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBatchConfigs(t *testing.T) {
	base := config.Config{OutputDir: "chat", XMLPath: "output.xml"}

	single := BatchConfigs(base, []string{"scripts/a.txt"})
	if len(single) != 1 || single[0].OutputDir != "chat" || single[0].ScriptPath != "scripts/a.txt" {
		t.Errorf("single script config changed: %+v", single[0])
	}

	multi := BatchConfigs(base, []string{"scripts/a.txt", "other/b.txt"})
	if multi[0].OutputDir != filepath.Join("chat", "a") || multi[1].XMLPath != filepath.Join("chat", "b", "output.xml") {
		t.Errorf("unexpected batch configs: %+v %+v", multi[0], multi[1])
	}
	if multi[0] == multi[1] {
		t.Error("configs must be distinct")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
