package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/textshot/internal/engine"
	"github.com/ivlev/textshot/internal/script"
)

type stubJob struct {
	res *engine.Result
	err error
}

func (j stubJob) Run(ctx context.Context) (*engine.Result, error) {
	return j.res, j.err
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.txt")
	if err := os.WriteFile(path, []byte("# comment\nAlice:\nhello$^1.0\n\nBob:\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewLoadsPreview(t *testing.T) {
	m := New(context.Background(), writeScript(t), nil)

	want := []script.PreviewLine{
		{Kind: script.PreviewSpeaker, Text: "Alice"},
		{Kind: script.PreviewMessage, Text: "hello"},
		{Kind: script.PreviewBreak},
		{Kind: script.PreviewSpeaker, Text: "Bob"},
		{Kind: script.PreviewMessage, Text: "hi"},
	}
	if len(m.preview) < len(want) {
		t.Fatalf("preview = %+v", m.preview)
	}
	for i, w := range want {
		if m.preview[i] != w {
			t.Errorf("preview[%d] = %+v, want %+v", i, m.preview[i], w)
		}
	}

	view := m.View()
	if !strings.Contains(view, "demo.txt") || !strings.Contains(view, "Alice:") {
		t.Errorf("view missing script details:\n%s", view)
	}
}

func TestNewMissingScript(t *testing.T) {
	m := New(context.Background(), "", nil)
	if m.errorMsg == "" {
		t.Error("expected an error without a script")
	}
	next, cmd := m.Update(key('g'))
	if cmd != nil || next.(Model).Loading() {
		t.Error("generate must be ignored without a script")
	}
}

func TestGenerate(t *testing.T) {
	calls := 0
	factory := func(path string) (engine.Job, error) {
		calls++
		return stubJob{res: &engine.Result{
			XMLPath: "/tmp/project.xml",
			Frames:  make([]engine.Frame, 3),
		}}, nil
	}

	m := New(context.Background(), writeScript(t), factory)
	next, cmd := m.Update(key('g'))
	m = next.(Model)
	if !m.Loading() || cmd == nil {
		t.Fatal("generation did not start")
	}

	// A second press while loading is ignored.
	next, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd2 != nil || calls != 1 {
		t.Errorf("factory called %d times", calls)
	}

	next, _ = m.Update(generatedMsg{result: engine.Result{XMLPath: "/tmp/project.xml", Frames: make([]engine.Frame, 3)}})
	m = next.(Model)
	if m.Loading() || m.XMLPath() != "/tmp/project.xml" {
		t.Errorf("unexpected state after result: loading=%v xml=%q", m.Loading(), m.XMLPath())
	}
	if view := m.View(); !strings.Contains(view, "Rendered 3 images.") {
		t.Errorf("view missing status:\n%s", view)
	}
}

func TestWaitForResult(t *testing.T) {
	ch := make(chan engine.Result, 1)
	ch <- engine.Result{Err: errors.New("bad speaker")}
	msg := waitForResult(ch)()
	em, ok := msg.(errorMsg)
	if !ok || em.err.Error() != "bad speaker" {
		t.Fatalf("expected errorMsg, got %#v", msg)
	}

	ch = make(chan engine.Result, 1)
	ch <- engine.Result{XMLPath: "out.xml"}
	if gm, ok := waitForResult(ch)().(generatedMsg); !ok || gm.result.XMLPath != "out.xml" {
		t.Fatalf("expected generatedMsg, got %#v", gm)
	}
}

func TestGenerateFactoryError(t *testing.T) {
	factory := func(string) (engine.Job, error) {
		return nil, errors.New("invalid config")
	}
	m := New(context.Background(), writeScript(t), factory)
	next, cmd := m.Update(key('g'))
	m = next.(Model)
	if cmd != nil || m.Loading() {
		t.Error("failed factory must not start a run")
	}
	if !strings.Contains(m.View(), "invalid config") {
		t.Errorf("error not shown:\n%s", m.View())
	}
}

func TestErrorMsg(t *testing.T) {
	m := New(context.Background(), writeScript(t), nil)
	m.loading = true
	next, _ := m.Update(errorMsg{err: errors.New("unknown speaker")})
	m = next.(Model)
	if m.Loading() || !strings.Contains(m.View(), "Error: unknown speaker") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestReveal(t *testing.T) {
	var revealed string
	m := New(context.Background(), writeScript(t), nil).WithReveal(func(p string) error {
		revealed = p
		return nil
	})

	// Nothing to reveal yet.
	next, _ := m.Update(key('o'))
	m = next.(Model)
	if revealed != "" {
		t.Errorf("revealed %q before any output", revealed)
	}

	m.xmlPath = "/tmp/project.xml"
	m.Update(key('o'))
	if revealed != "/tmp/project.xml" {
		t.Errorf("revealed %q", revealed)
	}
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), writeScript(t), nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting view should be empty without statuses")
	}
}
