package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/textshot/internal/config"
)

// BatchConfigs derives one config per script from base. With more than one
// script each run gets its own output directory named after the script, and
// its XML inside it, so frame numbers never collide.
func BatchConfigs(base config.Config, scripts []string) []*config.Config {
	cfgs := make([]*config.Config, 0, len(scripts))
	for _, s := range scripts {
		cfg := base
		cfg.ScriptPath = s
		if len(scripts) > 1 {
			name := strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
			cfg.OutputDir = filepath.Join(base.OutputDir, name)
			cfg.XMLPath = filepath.Join(cfg.OutputDir, filepath.Base(base.XMLPath))
		}
		cfgs = append(cfgs, &cfg)
	}
	return cfgs
}

// RunBatch runs the jobs with at most workers of them in flight. The first
// failure cancels the others; results of finished jobs are kept. Jobs that
// implement io.Closer are closed after they run.
func RunBatch(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]*Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := job.Run(ctx)
			if c, ok := job.(io.Closer); ok {
				c.Close()
			}
			if err != nil {
				return fmt.Errorf("%s: %w", jobName(job, i), err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func jobName(job Job, i int) string {
	if p, ok := job.(*Project); ok && p.Config != nil {
		return filepath.Base(p.Config.ScriptPath)
	}
	return fmt.Sprintf("job %d", i+1)
}
