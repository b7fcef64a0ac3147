package renderer

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/source"
)

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(config.DefaultLayout(), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func findColor(img *image.RGBA, area image.Rectangle, c color.RGBA) bool {
	area = area.Intersect(img.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderSizes(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()

	var lines []string
	for n := 1; n <= l.MaxMessages; n++ {
		lines = append(lines, "message")
		img, err := r.Render(Chat{Speaker: "Alice", Color: color.RGBA{255, 255, 255, 255}, Lines: lines})
		if err != nil {
			t.Fatalf("Render(%d lines) failed: %v", n, err)
		}
		want := image.Rect(0, 0, 1777, 231+80*(n-1))
		if img.Bounds() != want {
			t.Errorf("%d lines: bounds %v, want %v", n, img.Bounds(), want)
		}
		if img.RGBAAt(5, 5) != l.Background {
			t.Errorf("%d lines: background %v", n, img.RGBAAt(5, 5))
		}
	}

	lines = append(lines, "one too many")
	if _, err := r.Render(Chat{Speaker: "Alice", Lines: lines}); !errors.Is(err, ErrTooManyLines) {
		t.Errorf("expected ErrTooManyLines, got %v", err)
	}
}

func TestRenderAvatarIsCircular(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()
	red := color.RGBA{255, 0, 0, 255}

	img, err := r.Render(Chat{Speaker: "Alice", Avatar: solid(300, 200, red), Lines: []string{"hi"}})
	if err != nil {
		t.Fatal(err)
	}

	center := l.AvatarPos.Add(image.Pt(l.AvatarSize/2, l.AvatarSize/2))
	if got := img.RGBAAt(center.X, center.Y); got.R < 240 || got.G > 20 {
		t.Errorf("avatar center = %v, want red", got)
	}
	if got := img.RGBAAt(l.AvatarPos.X+1, l.AvatarPos.Y+1); got != l.Background {
		t.Errorf("avatar corner = %v, want background", got)
	}
}

func TestRenderMentionHighlight(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()
	row := image.Rect(0, l.MessageY-l.MentionPadding, l.Width, l.MessageY+l.MessageSpacing)

	img, err := r.Render(Chat{Speaker: "Alice", Lines: []string{"hi @Bob"}})
	if err != nil {
		t.Fatal(err)
	}
	if !findColor(img, row, l.MentionBackground) {
		t.Error("mention highlight not drawn")
	}

	plain, err := r.Render(Chat{Speaker: "Alice", Lines: []string{"hi Bob"}})
	if err != nil {
		t.Fatal(err)
	}
	if findColor(plain, row, l.MentionBackground) {
		t.Error("highlight drawn without a mention")
	}
}

func TestRenderBotBadge(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()
	nameRow := image.Rect(l.NamePos.X, l.NamePos.Y, l.Width, l.MessageY)

	img, err := r.Render(Chat{Speaker: "Helper", Bot: true, Lines: []string{"beep"}})
	if err != nil {
		t.Fatal(err)
	}
	if !findColor(img, nameRow, badgeColor) {
		t.Error("bot badge not drawn")
	}

	img, err = r.Render(Chat{Speaker: "Helper", Lines: []string{"beep"}})
	if err != nil {
		t.Fatal(err)
	}
	if findColor(img, nameRow, badgeColor) {
		t.Error("badge drawn for a human speaker")
	}
}

func TestRenderStrikethrough(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()

	img, err := r.Render(Chat{Speaker: "Alice", Lines: []string{"~~gone~~"}})
	if err != nil {
		t.Fatal(err)
	}
	adv := r.MeasureLine("~~gone~~")
	y := l.MessageY + int(l.MessageFontSize)/2
	if got := img.RGBAAt(l.MessageX+adv/2, y); got != l.MessageColor {
		t.Errorf("strike line pixel = %v, want %v", got, l.MessageColor)
	}
}

func TestMeasureLineAdvance(t *testing.T) {
	r := newTestRenderer(t, Options{})
	l := r.Layout()

	bold := r.text(nil, r.fonts.Bold, 0, 0, "bold", l.MessageColor)
	rest := r.text(nil, r.fonts.Regular, 0, 0, " and ", l.MessageColor)
	mention := r.text(nil, r.fonts.Regular, 0, 0, "@Bob", l.MentionColor)

	got := r.MeasureLine("**bold** and @Bob")
	if want := bold + rest + mention; abs(got-want) > 2 {
		t.Errorf("MeasureLine = %d, want %d", got, want)
	}

	raw := r.text(nil, r.fonts.Regular, 0, 0, "~~gone~~", l.MessageColor)
	if styled := r.MeasureLine("~~gone~~"); styled >= raw {
		t.Errorf("delimiters counted in advance: %d >= %d", styled, raw)
	}
	t.Logf("Advances: bold=%d rest=%d mention=%d", bold, rest, mention)
}

func TestRenderEmoji(t *testing.T) {
	dir := t.TempDir()
	green := color.RGBA{0, 200, 0, 255}
	f, err := os.Create(filepath.Join(dir, source.EmojiName('😀')))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, solid(72, 72, green)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r := newTestRenderer(t, Options{EmojiDir: dir})
	l := r.Layout()

	img, err := r.Render(Chat{Speaker: "Alice", Lines: []string{"😀"}})
	if err != nil {
		t.Fatal(err)
	}
	m := r.fonts.Regular.Metrics()
	size := (m.Ascent + m.Descent).Ceil()
	if got := r.MeasureLine("😀"); got != size {
		t.Errorf("emoji advance = %d, want %d", got, size)
	}
	if got := img.RGBAAt(l.MessageX+size/2, l.MessageY+size/2); got.G < 150 || got.R > 50 {
		t.Errorf("emoji pixel = %v, want green", got)
	}
}

func TestTimeText(t *testing.T) {
	tests := []struct {
		clock time.Time
		want  string
	}{
		{time.Date(2024, 1, 1, 13, 5, 0, 0, time.UTC), "Today at 1:05 PM"},
		{time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC), "Today at 12:30 AM"},
		{time.Date(2024, 1, 1, 11, 59, 0, 0, time.UTC), "Today at 11:59 AM"},
	}
	for _, tt := range tests {
		if got := TimeText(tt.clock); got != tt.want {
			t.Errorf("TimeText(%v) = %q, want %q", tt.clock, got, tt.want)
		}
	}
}

func TestLoadAssetsErrors(t *testing.T) {
	if _, err := LoadFonts(t.TempDir(), config.DefaultLayout()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing font error, got %v", err)
	}

	_, err := New(config.DefaultLayout(), Options{BadgePath: filepath.Join(t.TempDir(), "badge.png")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing badge error, got %v", err)
	}
}

func TestCustomBadgeScaled(t *testing.T) {
	l := config.DefaultLayout()
	fonts, err := LoadFonts("", l)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(l, fonts, solid(200, 100, color.RGBA{1, 2, 3, 255}), nil)
	defer r.Close()

	b := r.badge.Bounds()
	if b.Dy() != l.BadgeHeight || b.Dx() != 90 {
		t.Errorf("badge size %dx%d, want 90x%d", b.Dx(), b.Dy(), l.BadgeHeight)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
