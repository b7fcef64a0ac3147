package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultFPS           = 60
	DefaultAudioDuration = 0.3
	DefaultTimeStep      = 30 * time.Second
	DefaultAudioFile     = "discord-notification.mp3"
	DefaultProfilesFile  = "details.yaml"
	DefaultOutputDir     = "chat"
	DefaultXMLFile       = "output.xml"
)

// Config holds everything one generation run needs. It is filled from
// command line flags (and .env defaults) by cmd/textshot.
type Config struct {
	ScriptPath    string `validate:"required"`
	OutputDir     string `validate:"required"`
	XMLPath       string `validate:"required"`
	ProfilesPath  string `validate:"required"`
	AvatarDir     string
	FontDir       string
	BadgePath     string
	EmojiDir      string
	AudioPath     string  `validate:"required"`
	AudioDuration float64 `validate:"gte=0"`
	FPS           int     `validate:"gt=0,lte=240"`
	StartTime     time.Time
	TimeStep      time.Duration `validate:"gte=0"`
	SkipNumbers   []int         `validate:"dive,gt=0"`
	ShowStats     bool
	BuildVersion  string
}

// SequenceParams describes the project the stills are imported into.
type SequenceParams struct {
	Width, Height int
	Timebase      int
	SampleRate    int
	Depth         int
}

func DefaultSequence() SequenceParams {
	return SequenceParams{
		Width:      1080,
		Height:     1920,
		Timebase:   DefaultFPS,
		SampleRate: 48000,
		Depth:      16,
	}
}

var validate = validator.New()

// Validate checks the run configuration before anything touches the disk.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
