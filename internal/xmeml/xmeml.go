// Package xmeml writes a Final Cut Pro 7 XML (xmeml v4) project that
// Premiere Pro imports as one sequence: frame stills on a video track and
// the notification sound on a linked stereo pair of audio tracks.
package xmeml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/timeline"
)

const (
	// stillDuration is the source length Premiere expects for an imported
	// still image.
	stillDuration = 1294705

	sourceSampleRate = 44100
	defaultScale     = 61
	defaultName      = "Sequence 01"
)

type Options struct {
	UUID     string // random when empty
	Name     string
	Scale    int // Basic Motion scale, percent
	Sequence config.SequenceParams
}

func DefaultOptions() Options {
	return Options{
		Name:     defaultName,
		Scale:    defaultScale,
		Sequence: config.DefaultSequence(),
	}
}

func boolStr(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// PathURL turns a file path into the file://localhost/ form Premiere uses.
func PathURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Host: "localhost", Path: p}
	return u.String()
}

// New builds the project document. video and audio must pair up one to one.
func New(video, audio []timeline.Clip, opts Options) (*Document, error) {
	total, err := timeline.Duration(video, audio)
	if err != nil {
		return nil, err
	}
	if len(video) != len(audio) {
		return nil, fmt.Errorf("%d video clips but %d audio clips", len(video), len(audio))
	}
	if opts.UUID == "" {
		opts.UUID = uuid.NewString()
	}
	if opts.Name == "" {
		opts.Name = defaultName
	}
	if opts.Scale == 0 {
		opts.Scale = defaultScale
	}
	if opts.Sequence.Timebase == 0 {
		opts.Sequence = config.DefaultSequence()
	}

	seq := opts.Sequence
	rate := Rate{Timebase: seq.Timebase, NTSC: boolStr(false)}

	doc := &Document{
		Version: "4",
		Sequence: Sequence{
			ID:                "sequence-1",
			AudioVisibleBase:  "0",
			VideoVisibleBase:  "0",
			VisibleBaseTime:   "0",
			AVDividerPosition: "0.5",
			HideShyTracks:     "0",
			HeaderWidth:       "236",
			PreviewHeight:     seq.Height,
			PreviewWidth:      seq.Width,
			UUID:              opts.UUID,
			Duration:          total,
			Rate:              rate,
			Name:              opts.Name,
			Timecode: Timecode{
				Rate:          rate,
				String:        "00:00:00:00",
				DisplayFormat: "NDF",
			},
		},
	}

	media := &doc.Sequence.Media
	media.Video.Format.SampleCharacteristics = videoCharacteristics(seq, rate)
	media.Video.Format.SampleCharacteristics.ColorDepth = 24
	media.Video.Track = VideoTrack{
		Shy:            "0",
		ExpandedHeight: "41",
		Expanded:       "0",
		Targeted:       "1",
		Enabled:        boolStr(true),
		Locked:         boolStr(false),
	}
	for i, c := range video {
		media.Video.Track.Clips = append(media.Video.Track.Clips, videoClip(i+1, c, seq, rate, opts.Scale))
	}

	media.Audio = audioMedia(seq)
	for ch := 1; ch <= 2; ch++ {
		track := audioTrack(ch)
		for i, c := range audio {
			track.Clips = append(track.Clips, audioClip(i+1, ch, c, seq, rate))
		}
		media.Audio.Tracks = append(media.Audio.Tracks, track)
	}

	return doc, nil
}

func videoCharacteristics(seq config.SequenceParams, rate Rate) VideoCharacteristics {
	return VideoCharacteristics{
		Rate:             rate,
		Width:            seq.Width,
		Height:           seq.Height,
		Anamorphic:       boolStr(false),
		PixelAspectRatio: "square",
		FieldDominance:   "none",
	}
}

func videoClip(n int, c timeline.Clip, seq config.SequenceParams, rate Rate, scale int) VideoClip {
	clip := VideoClip{
		ID:           fmt.Sprintf("clipitem-%d", n),
		MasterClipID: fmt.Sprintf("masterclip-%d", n),
		Name:         c.Name,
		Enabled:      boolStr(true),
		Duration:     stillDuration,
		Rate:         rate,
		Start:        c.Start,
		End:          c.End,
		In:           0,
		Out:          c.Length(),
		File: VideoFile{
			ID:      fmt.Sprintf("file-%d", n),
			Name:    c.Name,
			PathURL: PathURL(c.Path),
			Rate:    rate,
		},
		Filter: Filter{Effect: basicMotion(scale)},
	}
	clip.File.Media.Video.SampleCharacteristics = videoCharacteristics(seq, rate)
	return clip
}

func basicMotion(scale int) Effect {
	zero := 0
	param := func(id, name, lo, hi string, v ParamValue) Parameter {
		return Parameter{AuthoringApp: "PremierePro", ParameterID: id, Name: name, ValueMin: lo, ValueMax: hi, Value: v}
	}
	point := ParamValue{Horiz: &zero, Vert: &zero}

	return Effect{
		Name:       "Basic Motion",
		EffectID:   "basic",
		Category:   "motion",
		Type:       "motion",
		MediaType:  "video",
		PproBypass: "false",
		Parameters: []Parameter{
			param("scale", "Scale", "0", "1000", ParamValue{Scalar: fmt.Sprint(scale)}),
			param("rotation", "Rotation", "-8640", "8640", ParamValue{Scalar: "0"}),
			param("center", "Center", "", "", point),
			param("centerOffset", "Anchor Point", "", "", point),
			param("antiflicker", "Anti-flicker Filter", "0.0", "1.0", ParamValue{Scalar: "0"}),
		},
	}
}

func audioMedia(seq config.SequenceParams) AudioMedia {
	m := AudioMedia{
		NumOutputChannels: 2,
		Format: AudioFormat{SampleCharacteristics: AudioCharacteristics{
			Depth:      seq.Depth,
			SampleRate: seq.SampleRate,
		}},
	}
	for i := 1; i <= 2; i++ {
		g := Group{Index: i, NumChannels: 1}
		g.Channel.Index = i
		m.Outputs.Groups = append(m.Outputs.Groups, g)
	}
	return m
}

func audioTrack(ch int) AudioTrack {
	return AudioTrack{
		KeyframeStyle:      "0",
		Shy:                "0",
		ExpandedHeight:     "41",
		Expanded:           "0",
		Targeted:           "1",
		PannerValue:        "0.5",
		PannerInverted:     "true",
		PannerKeyframe:     "-91445760000000000,0.5,0,0,0,0,0,0",
		PannerName:         "Balance",
		ExplodedIndex:      ch - 1,
		ExplodedCount:      2,
		PremiereTrackType:  "Stereo",
		Enabled:            boolStr(true),
		Locked:             boolStr(false),
		OutputChannelIndex: ch,
	}
}

func audioClipID(n, ch int) string {
	return fmt.Sprintf("clipitem-audio-%d", 2*n-2+ch)
}

// audioClip builds the n-th clip of channel ch (1 or 2). Both channels link
// to each other so Premiere treats them as one stereo clip.
func audioClip(n, ch int, c timeline.Clip, seq config.SequenceParams, rate Rate) AudioClip {
	clip := AudioClip{
		ID:           audioClipID(n, ch),
		ChannelType:  "stereo",
		MasterClipID: fmt.Sprintf("masterclip-audio-%d", n),
		Name:         c.Name,
		Enabled:      boolStr(true),
		Duration:     c.Length(),
		Rate:         rate,
		Start:        c.Start,
		End:          c.End,
		In:           0,
		Out:          c.Length(),
		File:         AudioFile{ID: fmt.Sprintf("file-audio-%d", n)},
		SourceTrack:  SourceTrack{MediaType: "audio", TrackIndex: ch},
	}
	for link := 1; link <= 2; link++ {
		clip.Links = append(clip.Links, Link{
			LinkClipRef: audioClipID(n, link),
			MediaType:   "audio",
			TrackIndex:  link,
			ClipIndex:   n,
			GroupIndex:  1,
		})
	}

	if ch == 1 {
		fileRate := rate
		media := &AudioFileMedia{}
		media.Audio.SampleCharacteristics = AudioCharacteristics{Depth: seq.Depth, SampleRate: sourceSampleRate}
		media.Audio.ChannelCount = 2

		clip.File.Name = c.Name
		clip.File.PathURL = PathURL(c.Path)
		clip.File.Rate = &fileRate
		clip.File.Duration = c.Length()
		clip.File.Media = media
	}
	return clip
}

// Write encodes doc with the xml declaration and doctype.
func Write(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if _, err := io.WriteString(w, xml.Header+"<!DOCTYPE xmeml>\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xmeml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes doc to path, replacing any existing file.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, doc); err != nil {
		f.Close()
		return fmt.Errorf("write xml: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write xml: %w", err)
	}
	return f.Close()
}
