package engine

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/renderer"
	"github.com/ivlev/textshot/internal/script"
	"github.com/ivlev/textshot/internal/source"
	"github.com/ivlev/textshot/internal/system"
	"github.com/ivlev/textshot/internal/timeline"
	"github.com/ivlev/textshot/internal/xmeml"
)

const DefaultBenchmarkLog = "benchmark.log"

// Frame is one saved image and how long it is shown.
type Frame struct {
	Number   int
	Path     string // absolute
	Duration float64
	Speaker  string
}

// Result is the outcome of one run. Err is only set when the result is
// delivered through a Runner channel.
type Result struct {
	Script   string
	XMLPath  string
	Frames   []Frame
	Duration int // sequence length in frames
	Err      error
}

type Project struct {
	Config   *config.Config
	Profiles config.Profiles
	Renderer *renderer.Renderer
	Avatars  source.Source
	Skip     SkipFunc

	// BenchmarkLog receives one line per run when Config.ShowStats is set.
	BenchmarkLog string
	XMLOptions   xmeml.Options
}

func NewProject(cfg *config.Config, profiles config.Profiles, rend *renderer.Renderer, avatars source.Source) *Project {
	return &Project{
		Config:       cfg,
		Profiles:     profiles,
		Renderer:     rend,
		Avatars:      avatars,
		Skip:         SkipSet(cfg.SkipNumbers...),
		BenchmarkLog: DefaultBenchmarkLog,
		XMLOptions:   xmeml.DefaultOptions(),
	}
}

// Open validates cfg and loads every asset a run needs.
func Open(cfg *config.Config) (*Project, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profiles, err := config.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	avatarDir := cfg.AvatarDir
	if avatarDir == "" {
		avatarDir = "."
	}
	avatars, err := source.NewImageSource(avatarDir)
	if err != nil {
		return nil, fmt.Errorf("open avatar dir: %w", err)
	}

	rend, err := renderer.New(config.DefaultLayout(), renderer.Options{
		FontDir:   cfg.FontDir,
		BadgePath: cfg.BadgePath,
		EmojiDir:  cfg.EmojiDir,
	})
	if err != nil {
		return nil, err
	}

	return NewProject(cfg, profiles, rend, avatars), nil
}

func (p *Project) Close() error {
	if p.Renderer == nil {
		return nil
	}
	return p.Renderer.Close()
}

// FrameName is the file name of the n-th image.
func FrameName(n int) string {
	return fmt.Sprintf("%03d.png", n)
}

// SaveImages renders every frame of s into the output directory. Images
// already written stay on disk when it fails.
func (p *Project) SaveImages(ctx context.Context, s *script.Script, start time.Time) ([]Frame, error) {
	cfg := p.Config
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	skip := p.Skip
	if skip == nil {
		skip = NoSkip
	}
	maxLines := p.Renderer.Layout().MaxMessages

	var frames []Frame
	clock := start
	num := 1

	for _, block := range s.Blocks {
		if len(block.Messages) == 0 {
			continue
		}
		chat, err := p.chatFor(block.Speaker)
		if err != nil {
			return frames, err
		}

		for _, msg := range block.Messages {
			for _, delay := range script.Delays(msg.Delay, msg.Duplicates) {
				if err := ctx.Err(); err != nil {
					return frames, err
				}

				if len(chat.Lines) == maxLines {
					config.Log.WithFields(logrus.Fields{"speaker": block.Speaker, "line": msg.Line}).
						Debug("block overflows one frame, starting a new page")
					chat.Lines = nil
				}
				chat.Lines = append(chat.Lines, msg.Text)
				chat.Clock = clock

				for skip(num) {
					config.Log.WithField("frame", FrameName(num)).Info("skipping frame number")
					num++
				}

				path := filepath.Join(outDir, FrameName(num))
				if err := p.renderTo(path, chat); err != nil {
					return frames, err
				}
				frames = append(frames, Frame{Number: num, Path: path, Duration: delay, Speaker: block.Speaker})
				config.Log.WithFields(logrus.Fields{
					"frame":    FrameName(num),
					"speaker":  block.Speaker,
					"duration": delay,
				}).Debug("frame saved")

				clock = clock.Add(cfg.TimeStep)
				num++
			}
		}
	}
	return frames, nil
}

func (p *Project) chatFor(speaker string) (renderer.Chat, error) {
	profile, err := p.Profiles.Lookup(speaker)
	if err != nil {
		return renderer.Chat{}, err
	}
	col, err := profile.RGB()
	if err != nil {
		return renderer.Chat{}, err
	}
	avatar, err := p.Avatars.Get(profile.Avatar)
	if err != nil {
		return renderer.Chat{}, fmt.Errorf("load avatar for %q: %w", speaker, err)
	}
	return renderer.Chat{Speaker: speaker, Color: col, Avatar: avatar, Bot: profile.Bot}, nil
}

func (p *Project) renderTo(path string, chat renderer.Chat) error {
	img, err := p.Renderer.Render(chat)
	if err != nil {
		return err
	}
	defer system.PutImage(img)
	return savePNG(path, img)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	w := bufio.NewWriter(f)
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("save frame: %w", err)
	}
	return f.Close()
}

// Run reads the script, saves the images and writes the project XML.
func (p *Project) Run(ctx context.Context) (*Result, error) {
	cfg := p.Config
	startTime := time.Now()
	log := config.Log.WithField("script", filepath.Base(cfg.ScriptPath))

	lines, err := script.ReadLines(cfg.ScriptPath)
	if err != nil {
		return nil, err
	}
	s := script.Parse(lines)
	log.WithField("frames", s.Frames()).Info("script parsed")

	clock := cfg.StartTime
	if clock.IsZero() {
		clock = time.Now()
	}

	renderStart := time.Now()
	frames, err := p.SaveImages(ctx, s, clock)
	if err != nil {
		return nil, err
	}
	renderTime := time.Since(renderStart)

	audioSeconds := cfg.AudioDuration
	if audioSeconds == 0 {
		if audioSeconds, err = system.GetAudioDuration(cfg.AudioPath); err != nil {
			return nil, fmt.Errorf("read audio duration: %w", err)
		}
		log.WithField("duration", audioSeconds).Debug("audio duration measured")
	}
	audioPath, err := filepath.Abs(cfg.AudioPath)
	if err != nil {
		return nil, err
	}

	exportStart := time.Now()
	stills := make([]timeline.Still, len(frames))
	for i, f := range frames {
		stills[i] = timeline.Still{Path: f.Path, Duration: f.Duration}
	}
	video, audio, err := timeline.Build(stills, audioPath, audioSeconds, cfg.FPS)
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	if err := timeline.Validate(video); err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}

	opts := p.XMLOptions
	if opts.Sequence.Width == 0 {
		opts.Sequence = config.DefaultSequence()
	}
	opts.Sequence.Timebase = cfg.FPS
	doc, err := xmeml.New(video, audio, opts)
	if err != nil {
		return nil, fmt.Errorf("build xml: %w", err)
	}
	if err := xmeml.WriteFile(cfg.XMLPath, doc); err != nil {
		return nil, err
	}
	xmlPath, err := filepath.Abs(cfg.XMLPath)
	if err != nil {
		return nil, err
	}
	log.WithField("xml", xmlPath).Info("project written")

	if cfg.ShowStats {
		p.report(Stats{
			Build:  cfg.BuildVersion,
			Script: filepath.Base(cfg.ScriptPath),
			Frames: len(frames),
			Total:  time.Since(startTime),
			Render: renderTime,
			Export: time.Since(exportStart),
		})
	}

	return &Result{
		Script:   cfg.ScriptPath,
		XMLPath:  xmlPath,
		Frames:   frames,
		Duration: doc.Sequence.Duration,
	}, nil
}
