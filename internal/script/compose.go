package script

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDraft is returned when a draft contains no usable block.
var ErrEmptyDraft = errors.New("no valid script content found")

// Draft is a structured script, edited as YAML and composed into the text
// format by Compose.
type Draft struct {
	Filename string      `yaml:"filename,omitempty"`
	Users    []DraftUser `yaml:"users"`
}

type DraftUser struct {
	Username string     `yaml:"username"`
	Rows     []DraftRow `yaml:"rows"`
}

// DraftRow keeps delay and dup as text, the way they were typed.
type DraftRow struct {
	Text  string `yaml:"text"`
	Delay string `yaml:"delay,omitempty"`
	Dup   string `yaml:"dup,omitempty"`
}

// Line renders the row as one script line. Empty rows render as "".
func (r DraftRow) Line() string {
	msg := strings.TrimSpace(r.Text)
	if msg == "" {
		return ""
	}
	if d := strings.TrimSpace(r.Delay); d != "" {
		msg += delayMarker + d
	}
	if n := strings.TrimSpace(r.Dup); n != "" {
		msg += dupMarker + n
	}
	return msg
}

// Block renders the user as a speaker block, or "" without a username.
func (u DraftUser) Block() string {
	name := strings.TrimSpace(u.Username)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(name + ":\n")
	for _, row := range u.Rows {
		if line := row.Line(); line != "" {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Compose turns a draft into script text, one blank line after each block.
func Compose(d *Draft) (string, error) {
	var b strings.Builder
	for _, u := range d.Users {
		if block := u.Block(); block != "" {
			b.WriteString(block + "\n")
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyDraft
	}
	return b.String(), nil
}

// WriteDraft writes a draft to a YAML file
func WriteDraft(d *Draft, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDraft reads a draft from a YAML file
func ReadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	return &d, nil
}
