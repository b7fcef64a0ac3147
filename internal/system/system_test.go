package system

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	for i, name := range []string{"a.txt", "b.TXT", "c.mp3"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mtime := old.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindLatestScript(dir)
	if err != nil {
		t.Fatalf("FindLatestScript failed: %v", err)
	}
	if filepath.Base(got) != "b.TXT" {
		t.Errorf("expected b.TXT, got %s", got)
	}

	got, err = FindLatestAudio(dir)
	if err != nil || filepath.Base(got) != "c.mp3" {
		t.Errorf("FindLatestAudio = %s (%v)", got, err)
	}

	if _, err := FindLatest(dir, ".pdf"); err == nil {
		t.Error("expected error when nothing matches")
	}
}

func TestGetAudioDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ding.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 48000, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(14400), format); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	f.Close()

	d, err := GetAudioDuration(path)
	if err != nil {
		t.Fatalf("GetAudioDuration failed: %v", err)
	}
	if math.Abs(d-0.3) > 0.001 {
		t.Errorf("expected 0.3s, got %v", d)
	}
	t.Logf("Measured duration: %.3fs", d)

	if _, err := GetAudioDuration(filepath.Join(t.TempDir(), "x.ogg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImagePool(t *testing.T) {
	rect := image.Rect(0, 0, 10, 5)
	bg := color.RGBA{54, 57, 63, 255}

	img := GetCanvas(rect, bg)
	if img.Bounds() != rect {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.RGBAAt(9, 4) != bg {
		t.Errorf("canvas not filled: %v", img.RGBAAt(9, 4))
	}
	img.Set(0, 0, color.White)
	PutImage(img)

	again := GetCanvas(rect, bg)
	if again.RGBAAt(0, 0) != bg {
		t.Error("recycled canvas kept old pixels")
	}
	PutImage(nil)
}

func TestMemoryUsage(t *testing.T) {
	stats, err := MemoryUsage()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if stats.RSS == 0 {
		t.Error("RSS should be non-zero for a running process")
	}
	t.Logf("RSS: %d bytes, host used: %.1f%%", stats.RSS, stats.HostUsedPct)
}
