package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/system"
)

type Stats struct {
	Build  string
	Script string
	Frames int
	Total  time.Duration
	Render time.Duration
	Export time.Duration
	Memory system.MemStats
}

// FPS is the number of images rendered per second of wall time.
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

func (s Stats) Report() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Timeline + XML: %.2fs\n"+
			"Images/s: %.2f\n"+
			"Memory (RSS): %.1f MiB\n"+
			"----------------------------\n",
		s.Build, s.Total.Seconds(), s.Render.Seconds(), s.Export.Seconds(), s.FPS(), mib(s.Memory.RSS),
	)
}

// LogEntry is the single benchmark.log line for the run.
func (s Stats) LogEntry(now time.Time) string {
	return fmt.Sprintf("[%s] Build: %s | Script: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Export: %.2fs | Images/s: %.2f | RSS: %.1fMiB\n",
		now.Format("2006-01-02 15:04:05"),
		s.Build,
		s.Script,
		s.Frames,
		s.Total.Seconds(),
		s.Render.Seconds(),
		s.Export.Seconds(),
		s.FPS(),
		mib(s.Memory.RSS),
	)
}

func mib(b uint64) float64 {
	return float64(b) / (1 << 20)
}

func (p *Project) report(s Stats) {
	if mem, err := system.MemoryUsage(); err == nil {
		s.Memory = mem
	} else {
		config.Log.WithError(err).Debug("memory stats unavailable")
	}

	config.Log.Info("\n" + s.Report())

	if p.BenchmarkLog == "" {
		return
	}
	if err := appendLine(p.BenchmarkLog, s.LogEntry(time.Now())); err != nil {
		config.Log.WithError(err).Warnf("could not write %s", p.BenchmarkLog)
	}
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
