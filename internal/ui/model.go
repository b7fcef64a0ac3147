// Package ui is the interactive terminal shell: it previews a script,
// generates it in the background and reveals the resulting project file.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/textshot/internal/engine"
	"github.com/ivlev/textshot/internal/script"
	"github.com/ivlev/textshot/internal/system"
)

// JobFactory prepares a generation job for a script.
type JobFactory func(scriptPath string) (engine.Job, error)

type generatedMsg struct {
	result engine.Result
}

type errorMsg struct {
	err error
}

type Model struct {
	ctx        context.Context
	spinner    spinner.Model
	runner     *engine.Runner
	newJob     JobFactory
	reveal     func(path string) error
	loading    bool
	quitting   bool
	scriptPath string
	preview    []script.PreviewLine
	xmlPath    string
	errorMsg   string
	statuses   []string
}

func New(ctx context.Context, scriptPath string, newJob JobFactory) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := Model{
		ctx:        ctx,
		spinner:    s,
		runner:     &engine.Runner{},
		newJob:     newJob,
		reveal:     system.RevealPath,
		scriptPath: scriptPath,
	}
	m.loadPreview()
	return m
}

// WithReveal replaces the file manager hook.
func (m Model) WithReveal(fn func(string) error) Model {
	m.reveal = fn
	return m
}

func (m *Model) loadPreview() {
	if m.scriptPath == "" {
		m.errorMsg = "no script selected"
		return
	}
	data, err := os.ReadFile(m.scriptPath)
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.preview = script.Preview(string(data))
}

func waitForResult(ch <-chan engine.Result) tea.Cmd {
	return func() tea.Msg {
		res := <-ch
		if res.Err != nil {
			return errorMsg{err: res.Err}
		}
		return generatedMsg{result: res}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "g", "enter":
			return m.generate()

		case "o":
			if m.xmlPath == "" || m.loading {
				return m, nil
			}
			if err := m.reveal(m.xmlPath); err != nil {
				m.errorMsg = err.Error()
			}
			return m, nil

		case "r":
			if !m.loading {
				m.errorMsg = ""
				m.loadPreview()
			}
			return m, nil
		}

	case generatedMsg:
		m.loading = false
		m.errorMsg = ""
		m.xmlPath = msg.result.XMLPath
		m.statuses = append(m.statuses,
			fmt.Sprintf("Rendered %d images.", len(msg.result.Frames)),
			"Saved project to "+msg.result.XMLPath)
		return m, nil

	case errorMsg:
		m.loading = false
		m.errorMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) generate() (tea.Model, tea.Cmd) {
	if m.loading || m.scriptPath == "" {
		return m, nil
	}

	job, err := m.newJob(m.scriptPath)
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	ch, err := m.runner.Start(m.ctx, job)
	if errors.Is(err, engine.ErrBusy) {
		return m, nil
	}
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}

	m.loading = true
	m.errorMsg = ""
	m.xmlPath = ""
	return m, tea.Batch(m.spinner.Tick, waitForResult(ch))
}

func (m Model) View() string {
	if m.quitting {
		return styleOutput(m.statuses)
	}

	var b strings.Builder
	b.WriteString(BulletStyle.Render("┌") + TitleStyle.Render("textshot") + "\n")
	if m.scriptPath != "" {
		b.WriteString(BulletStyle.Render("├") + TextStyle.Render("Script: ") + DimTextStyle.Render(filepath.Base(m.scriptPath)) + "\n")
	}
	if len(m.preview) > 0 {
		b.WriteString(PreviewStyle.Render(renderPreview(m.preview)) + "\n")
	}

	b.WriteString(styleOutput(m.statuses))

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + "Generating images and project...\n")
	case m.errorMsg != "":
		b.WriteString(ErrorStyle.Render("Error: "+m.errorMsg) + "\n")
	case m.xmlPath != "":
		b.WriteString(SuccessStyle.Render("Done. Press 'o' to show it in the file manager.") + "\n")
	}

	b.WriteString(DimTextStyle.Render("g generate • o reveal • r reload • q quit") + "\n")
	return b.String()
}

func renderPreview(lines []script.PreviewLine) string {
	var out []string
	for _, l := range lines {
		switch l.Kind {
		case script.PreviewSpeaker:
			out = append(out, SpeakerStyle.Render(l.Text+":"))
		case script.PreviewMessage:
			out = append(out, TextStyle.Render(l.Text))
		default:
			out = append(out, "")
		}
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// XMLPath is the project written by the last successful generation.
func (m Model) XMLPath() string {
	return m.xmlPath
}

func (m Model) Loading() bool {
	return m.loading
}
