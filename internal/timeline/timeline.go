// Package timeline places frame images and the notification sound on a
// frame-numbered edit timeline.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
)

var ErrEmptyInput = errors.New("timeline has no clips")

// Still is one rendered image and how long it stays on screen.
type Still struct {
	Path     string
	Duration float64 // seconds
}

// Clip occupies the half-open frame range [Start, End).
type Clip struct {
	Path  string
	Name  string
	Start int
	End   int
}

func (c Clip) Length() int {
	return c.End - c.Start
}

// Frames converts seconds to a frame count, rounding half to even.
func Frames(seconds float64, fps int) int {
	return int(math.RoundToEven(seconds * float64(fps)))
}

// Build lays the stills end to end from frame 0 and starts one audio clip
// with every still.
func Build(stills []Still, audioPath string, audioSeconds float64, fps int) (video, audio []Clip, err error) {
	if len(stills) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if fps <= 0 {
		return nil, nil, fmt.Errorf("invalid fps %d", fps)
	}

	audioLen := Frames(audioSeconds, fps)
	audioName := filepath.Base(audioPath)

	cursor := 0
	video = make([]Clip, 0, len(stills))
	audio = make([]Clip, 0, len(stills))
	for _, s := range stills {
		end := cursor + Frames(s.Duration, fps)
		video = append(video, Clip{Path: s.Path, Name: filepath.Base(s.Path), Start: cursor, End: end})
		audio = append(audio, Clip{Path: audioPath, Name: audioName, Start: cursor, End: cursor + audioLen})
		cursor = end
	}
	return video, audio, nil
}

// Duration is the last end frame across both tracks.
func Duration(video, audio []Clip) (int, error) {
	if len(video) == 0 || len(audio) == 0 {
		return 0, ErrEmptyInput
	}
	total := 0
	for _, c := range video {
		total = max(total, c.End)
	}
	for _, c := range audio {
		total = max(total, c.End)
	}
	return total, nil
}

// Validate checks that video clips start at 0 and follow each other without
// gaps or overlap.
func Validate(video []Clip) error {
	if len(video) == 0 {
		return ErrEmptyInput
	}
	next := 0
	for i, c := range video {
		if c.Start != next {
			return fmt.Errorf("clip %d starts at %d, expected %d", i+1, c.Start, next)
		}
		if c.End < c.Start {
			return fmt.Errorf("clip %d ends before it starts (%d < %d)", i+1, c.End, c.Start)
		}
		next = c.End
	}
	return nil
}
