// Package script reads the chat script format:
//
//	SpeakerName:
//	message text$^2.5$x3
//	another message
//
//	NextSpeaker:
//	hello @SpeakerName
//
// Blank lines end a speaker block, lines starting with '#' are comments.
package script

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/textshot/internal/config"
)

const (
	DefaultDelay      = 1.0
	MinDelay          = 0.2
	DefaultDuplicates = 1
	MaxDuplicates     = 200

	delayMarker = "$^"
	dupMarker   = "$x"
)

type Script struct {
	Blocks []Block
}

// Block is the run of messages one speaker sends before a blank line.
type Block struct {
	Speaker  string
	Messages []Message
}

type Message struct {
	Text       string
	Delay      float64 // seconds shown before the next frame
	Duplicates int
	Line       int // 1-based line in the source file
}

// Frames returns the number of images the script produces.
func (s *Script) Frames() int {
	n := 0
	for _, b := range s.Blocks {
		for _, m := range b.Messages {
			n += m.Duplicates
		}
	}
	return n
}

// ReadLines reads a UTF-8 script file into lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan script: %w", err)
	}
	return lines, nil
}

// Parse splits script lines into speaker blocks. It never fails: anything
// it cannot understand is kept as message text.
func Parse(lines []string) *Script {
	s := &Script{}
	nameUpNext := true
	var current *Block

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			nameUpNext = true
			current = nil
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if nameUpNext {
			name, _, _ := strings.Cut(line, ":")
			s.Blocks = append(s.Blocks, Block{Speaker: strings.TrimSpace(name)})
			current = &s.Blocks[len(s.Blocks)-1]
			nameUpNext = false
			continue
		}

		msg := ParseMessage(line)
		msg.Line = i + 1
		current.Messages = append(current.Messages, msg)
	}
	return s
}

// ParseMessage splits the delay/duplication suffix off a message line.
// Malformed suffixes fall back to the defaults.
func ParseMessage(raw string) Message {
	msg := Message{Text: raw, Delay: DefaultDelay, Duplicates: DefaultDuplicates}

	if text, suffix, ok := strings.Cut(raw, delayMarker); ok {
		msg.Text = text
		delayPart, dupPart, hasDup := strings.Cut(suffix, dupMarker)
		delayPart, _, _ = strings.Cut(delayPart, "$")
		msg.Delay = parseDelay(delayPart, raw)
		if hasDup {
			msg.Duplicates = parseDuplicates(dupPart, raw)
		}
		return msg
	}

	if text, suffix, ok := strings.Cut(raw, dupMarker); ok && isCount(suffix) {
		msg.Text = text
		msg.Duplicates = parseDuplicates(suffix, raw)
		config.Log.WithFields(logrus.Fields{"line": raw, "count": msg.Duplicates}).
			Info("duplication suffix without delay")
	}
	return msg
}

func parseDelay(s, raw string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		config.Log.WithField("line", raw).Debug("malformed delay, using default")
		return DefaultDelay
	}
	return d
}

func parseDuplicates(s, raw string) int {
	s, _, _ = strings.Cut(s, "$")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		config.Log.WithField("line", raw).Debug("malformed duplication count, using default")
		return DefaultDuplicates
	}
	if n < 1 {
		return DefaultDuplicates
	}
	if n > MaxDuplicates {
		config.Log.WithFields(logrus.Fields{"line": raw, "count": n}).
			Warnf("duplication count above %d, using default", MaxDuplicates)
		return DefaultDuplicates
	}
	return n
}

func isCount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Delays returns the display time of each duplicate: base halved per
// repetition, never below MinDelay.
func Delays(base float64, n int) []float64 {
	n = min(max(n, 1), MaxDuplicates)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Max(base/math.Pow(2, float64(i)), MinDelay)
	}
	return out
}
