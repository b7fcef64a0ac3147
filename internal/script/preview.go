package script

import "strings"

type PreviewKind int

const (
	PreviewBreak PreviewKind = iota
	PreviewSpeaker
	PreviewMessage
)

// PreviewLine is one line of the human-readable script preview.
type PreviewLine struct {
	Kind PreviewKind
	Text string
}

// Preview strips comments and suffix directives so a script can be read at
// a glance. Lines ending with ':' are shown as speaker names.
func Preview(raw string) []PreviewLine {
	var out []PreviewLine
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			out = append(out, PreviewLine{Kind: PreviewBreak})
		case strings.HasPrefix(stripped, "#"):
			continue
		case strings.HasSuffix(stripped, ":"):
			name := strings.TrimSpace(strings.TrimSuffix(stripped, ":"))
			out = append(out, PreviewLine{Kind: PreviewSpeaker, Text: name})
		default:
			text, _, _ := strings.Cut(line, "$")
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, PreviewLine{Kind: PreviewMessage, Text: text})
			}
		}
	}
	return out
}
