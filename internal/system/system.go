package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	ScriptExts = []string{".txt"}
	AudioExts  = []string{".mp3", ".wav"}
)

// FindLatest returns the most recently modified file in dir whose name ends
// with one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(exts, "/"), dir)
	}
	return latestFile, nil
}

func FindLatestScript(dir string) (string, error) {
	return FindLatest(dir, ScriptExts...)
}

func FindLatestAudio(dir string) (string, error) {
	return FindLatest(dir, AudioExts...)
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetAudioDuration decodes the stream header of an mp3 or wav file and
// returns its length in seconds.
func GetAudioDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return 0, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()).Seconds(), nil
}

// RevealPath opens the system file manager at path.
func RevealPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", "/select,", abs)
	case "darwin":
		cmd = exec.Command("open", "-R", abs)
	default:
		cmd = exec.Command("xdg-open", filepath.Dir(abs))
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("reveal %s: %w", abs, err)
	}
	go cmd.Wait()
	return nil
}

// MemStats is a snapshot of process and host memory.
type MemStats struct {
	RSS         uint64
	VMS         uint64
	HostTotal   uint64
	HostUsedPct float64
}

func MemoryUsage() (MemStats, error) {
	var stats MemStats

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return stats, err
	}
	stats.RSS = info.RSS
	stats.VMS = info.VMS

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.HostTotal = vm.Total
		stats.HostUsedPct = vm.UsedPercent
	}
	return stats, nil
}
