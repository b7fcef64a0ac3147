package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/engine"
	"github.com/ivlev/textshot/internal/script"
	"github.com/ivlev/textshot/internal/system"
	"github.com/ivlev/textshot/internal/ui"
)

var version = "dev"

const (
	defaultScriptsDir = "scripts"
	defaultUILog      = "textshot.log"
)

func main() {
	// A missing .env is fine; flags and defaults still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[-] textshot: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "textshot",
		Short:         "Render chat scripts into screenshots and a Premiere project",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger(logLevel, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("TEXTSHOT_LOG_LEVEL", "info"), "log level: debug, info, warn, error")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newUICmd())
	return root
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// runFlags are shared by generate and ui.
type runFlags struct {
	profiles      string
	avatars       string
	fonts         string
	badge         string
	emoji         string
	out           string
	xml           string
	audio         string
	audioDuration float64
	fps           int
	skip          string
	start         string
	stats         bool
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.profiles, "profiles", envOr("TEXTSHOT_PROFILES", config.DefaultProfilesFile), "speaker profiles YAML")
	flags.StringVar(&f.avatars, "avatars", envOr("TEXTSHOT_AVATARS", ""), "directory with avatar images (default: current directory)")
	flags.StringVar(&f.fonts, "fonts", envOr("TEXTSHOT_FONTS", ""), "directory with gg sans fonts (default: built-in Go fonts)")
	flags.StringVar(&f.badge, "badge", envOr("TEXTSHOT_BADGE", ""), "bot badge image (default: drawn APP badge)")
	flags.StringVar(&f.emoji, "emoji", envOr("TEXTSHOT_EMOJI", ""), "directory with emoji PNGs named by code point")
	flags.StringVar(&f.out, "out", config.DefaultOutputDir, "directory for the rendered images")
	flags.StringVar(&f.xml, "xml", config.DefaultXMLFile, "path of the project XML")
	flags.StringVar(&f.audio, "audio", envOr("TEXTSHOT_AUDIO", config.DefaultAudioFile), "notification sound placed under every image")
	flags.Float64Var(&f.audioDuration, "audio-duration", config.DefaultAudioDuration, "sound length in seconds (0 reads it from the file)")
	flags.IntVar(&f.fps, "fps", config.DefaultFPS, "sequence timebase")
	flags.StringVar(&f.skip, "skip", "", "image numbers to leave out, e.g. 3,7-9")
	flags.StringVar(&f.start, "start", "", "clock shown on the first message, HH:MM (default: now)")
	flags.BoolVar(&f.stats, "stats", false, "print a performance report and append it to "+engine.DefaultBenchmarkLog)
}

func (f *runFlags) config(now time.Time) (config.Config, error) {
	skip, err := engine.ParseSkipList(f.skip)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid --skip value: %w", err)
	}
	start, err := parseClock(f.start, now)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid --start value: %w", err)
	}

	return config.Config{
		OutputDir:     f.out,
		XMLPath:       f.xml,
		ProfilesPath:  f.profiles,
		AvatarDir:     f.avatars,
		FontDir:       f.fonts,
		BadgePath:     f.badge,
		EmojiDir:      f.emoji,
		AudioPath:     f.audio,
		AudioDuration: f.audioDuration,
		FPS:           f.fps,
		StartTime:     start,
		TimeStep:      config.DefaultTimeStep,
		SkipNumbers:   skip,
		ShowStats:     f.stats,
		BuildVersion:  version,
	}, nil
}

// parseClock puts an HH:MM wall clock on the day of now.
func parseClock(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

// resolveAudio keeps path when the file exists and otherwise falls back to
// the newest mp3/wav in the same directory.
func resolveAudio(path string) (string, bool) {
	if _, err := os.Stat(path); err == nil {
		return path, false
	}
	latest, err := system.FindLatestAudio(filepath.Dir(path))
	if err != nil {
		return path, false
	}
	return latest, true
}

func latestScript(dir string) (string, error) {
	path, err := system.FindLatestScript(dir)
	if err != nil {
		return "", fmt.Errorf("no script given: %w", err)
	}
	return path, nil
}

func newGenerateCmd() *cobra.Command {
	var (
		f          runFlags
		workers    int
		scriptsDir string
	)

	cmd := &cobra.Command{
		Use:   "generate [script...]",
		Short: "Render scripts into images and write the project XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			scripts := args
			if len(scripts) == 0 {
				latest, err := latestScript(scriptsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "[*] Using script: %s\n", latest)
				scripts = []string{latest}
			}

			base, err := f.config(time.Now())
			if err != nil {
				return err
			}
			if audio, found := resolveAudio(base.AudioPath); found {
				fmt.Fprintf(out, "[*] %s not found, using audio: %s\n", base.AudioPath, audio)
				base.AudioPath = audio
			} else if _, err := os.Stat(base.AudioPath); err != nil {
				fmt.Fprintf(out, "[!] Audio %s not found, the project will reference it anyway\n", base.AudioPath)
			}

			var jobs []engine.Job
			for _, cfg := range engine.BatchConfigs(base, scripts) {
				p, err := engine.Open(cfg)
				if err != nil {
					closeJobs(jobs)
					return fmt.Errorf("%s: %w", filepath.Base(cfg.ScriptPath), err)
				}
				jobs = append(jobs, p)
			}

			results, err := engine.RunBatch(cmd.Context(), jobs, workers)
			for _, res := range results {
				if res == nil {
					continue
				}
				fmt.Fprintf(out, "[+] %s: %d images, %d frames -> %s\n",
					filepath.Base(res.Script), len(res.Frames), res.Duration, res.XMLPath)
			}
			return err
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "scripts rendered in parallel")
	cmd.Flags().StringVar(&scriptsDir, "scripts", envOr("TEXTSHOT_SCRIPTS", defaultScriptsDir), "where to look for the newest script when none is given")
	return cmd
}

func closeJobs(jobs []engine.Job) {
	for _, j := range jobs {
		if c, ok := j.(io.Closer); ok {
			c.Close()
		}
	}
}

// starterDraft is what compose --init writes.
func starterDraft() *script.Draft {
	return &script.Draft{
		Users: []script.DraftUser{
			{Username: "Alice", Rows: []script.DraftRow{
				{Text: "hey @Bob, got a minute?", Delay: "1.5"},
				{Text: "it's **important**", Dup: "2"},
			}},
			{Username: "Bob", Rows: []script.DraftRow{
				{Text: "~~no~~ sure"},
			}},
		},
	}
}

func newComposeCmd() *cobra.Command {
	var (
		out       string
		initDraft bool
	)

	cmd := &cobra.Command{
		Use:   "compose <draft.yaml>",
		Short: "Turn a YAML draft into a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if initDraft {
				if _, err := os.Stat(args[0]); err == nil {
					return fmt.Errorf("%s already exists", args[0])
				}
				if err := script.WriteDraft(starterDraft(), args[0]); err != nil {
					return fmt.Errorf("write draft: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[+] Wrote starter draft to %s\n", args[0])
				return nil
			}

			d, err := script.ReadDraft(args[0])
			if err != nil {
				return fmt.Errorf("read draft: %w", err)
			}
			text, err := script.Compose(d)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = d.Filename
			}
			if path == "" {
				path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".txt"
			}
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return fmt.Errorf("write script: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Saved script to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "script path (default: the draft's filename)")
	cmd.Flags().BoolVar(&initDraft, "init", false, "write a starter draft to the given path instead")
	return cmd
}

func newUICmd() *cobra.Command {
	var (
		f          runFlags
		scriptsDir string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "ui [script]",
		Short: "Preview and generate a script interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("ui needs an interactive terminal, use generate instead")
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				latest, err := latestScript(scriptsDir)
				if err != nil {
					return err
				}
				path = latest
			}

			// Validate flags up front so mistakes show before the screen clears.
			if _, err := f.config(time.Now()); err != nil {
				return err
			}

			lf, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer lf.Close()
			level, _ := cmd.Flags().GetString("log-level")
			config.InitLogger(level, lf)

			newJob := func(scriptPath string) (engine.Job, error) {
				cfg, err := f.config(time.Now())
				if err != nil {
					return nil, err
				}
				cfg.ScriptPath = scriptPath
				if audio, found := resolveAudio(cfg.AudioPath); found {
					config.Log.WithField("audio", audio).Info("configured audio missing, using newest file")
					cfg.AudioPath = audio
				}
				return engine.Open(&cfg)
			}

			_, err = tea.NewProgram(ui.New(cmd.Context(), path, newJob)).Run()
			return err
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().StringVar(&scriptsDir, "scripts", envOr("TEXTSHOT_SCRIPTS", defaultScriptsDir), "where to look for the newest script when none is given")
	cmd.Flags().StringVar(&logFile, "log-file", defaultUILog, "log destination while the interface is open")
	return cmd
}
