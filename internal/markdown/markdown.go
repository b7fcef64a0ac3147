// Package markdown splits chat message text into mentions and styled spans.
// It understands the small subset of Discord markdown that shows up in chat
// screenshots: bold, italic, bold italic, strikethrough and inline code.
package markdown

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Strike
	Code

	Plain Style = 0
)

func (s Style) Has(flag Style) bool {
	return s&flag != 0
}

func (s Style) String() string {
	if s == Plain {
		return "plain"
	}
	var parts []string
	for _, f := range []struct {
		flag Style
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Strike, "strike"}, {Code, "code"}} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "+")
}

// Span is a run of text drawn with one style.
type Span struct {
	Text  string
	Style Style
}

// Segment is either a mention ("@name") or ordinary text.
type Segment struct {
	Text    string
	Mention bool
}

var mentionRe = regexp.MustCompile(`@[\p{L}\p{N}_]+`)

// SplitMentions cuts text into mention and non-mention segments, in order.
// Empty segments are never returned.
func SplitMentions(text string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range mentionRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Mention: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// delimiters in match priority order.
var delimiters = []struct {
	mark  string
	style Style
}{
	{"***", Bold | Italic},
	{"___", Bold | Italic},
	{"**", Bold},
	{"__", Bold},
	{"~~", Strike},
	{"*", Italic},
	{"`", Code},
}

// Tokenize converts text into a flat list of styled spans. Formatting does
// not nest: the content between a pair of delimiters is taken literally.
// Unclosed or empty delimiters stay in the text, as do delimiters whose
// content is padded with whitespace (code spans excepted).
func Tokenize(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(text); {
		if content, style, n, ok := matchAt(text[i:]); ok {
			flush()
			spans = append(spans, Span{Text: content, Style: style})
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		plain.WriteString(text[i : i+size])
		i += size
	}
	flush()
	return spans
}

// matchAt reports the styled span starting at the beginning of s and the
// number of bytes it consumes, delimiters included.
func matchAt(s string) (content string, style Style, n int, ok bool) {
	for _, d := range delimiters {
		if !strings.HasPrefix(s, d.mark) {
			continue
		}
		rest := s[len(d.mark):]
		end := strings.Index(rest, d.mark)
		if end <= 0 {
			continue
		}
		if d.style != Code && !flanked(rest[:end]) {
			continue
		}
		return rest[:end], d.style, len(d.mark)*2 + end, true
	}
	return "", Plain, 0, false
}

// flanked reports whether content neither starts nor ends with whitespace,
// so "2 * 3 * 4" stays arithmetic.
func flanked(content string) bool {
	first, _ := utf8.DecodeRuneInString(content)
	last, _ := utf8.DecodeLastRuneInString(content)
	return !unicode.IsSpace(first) && !unicode.IsSpace(last)
}

// PlainText returns text with all recognised formatting removed.
func PlainText(text string) string {
	var b strings.Builder
	for _, s := range Tokenize(text) {
		b.WriteString(s.Text)
	}
	return b.String()
}
