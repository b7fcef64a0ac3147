package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSpeaker is returned when a script names a speaker that has no
// profile. It is fatal for the run.
var ErrUnknownSpeaker = errors.New("speaker not configured")

const DefaultColor = "FFFFFF"

// Profile is one entry of details.yaml.
type Profile struct {
	Avatar string `yaml:"dp" validate:"required"`
	Color  string `yaml:"color,omitempty" validate:"omitempty,len=6,hexadecimal"`
	Bot    bool   `yaml:"bot,omitempty"`
}

// Profiles maps speaker names to their profile.
type Profiles map[string]Profile

// LoadProfiles reads and validates a profiles YAML file.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

func ParseProfiles(data []byte) (Profiles, error) {
	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	for name, p := range profiles {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return profiles, nil
}

// Lookup returns the profile for name or an error wrapping ErrUnknownSpeaker.
func (p Profiles) Lookup(name string) (Profile, error) {
	profile, ok := p[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSpeaker, name)
	}
	return profile, nil
}

// RGB decodes the profile color. An empty color means white.
func (p Profile) RGB() (color.RGBA, error) {
	hex := p.Color
	if hex == "" {
		hex = DefaultColor
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
