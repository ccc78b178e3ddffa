package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"photoreader/internal/audio"
	"photoreader/internal/display"
	"photoreader/internal/service"
	"photoreader/internal/slideshow"
)

// textSink prints every render request. On a terminal each frame replaces
// the previous line.
type textSink struct {
	w        io.Writer
	loaded   *service.Loaded
	terminal bool

	mu       sync.Mutex
	frames   int
	limit    int
	finished bool
	done     chan struct{}
	once     sync.Once
}

func newTextSink(w io.Writer, loaded *service.Loaded, limit int) *textSink {
	s := &textSink{w: w, loaded: loaded, limit: limit, done: make(chan struct{})}
	if f, ok := w.(*os.File); ok {
		s.terminal = term.IsTerminal(int(f.Fd()))
	}
	return s
}

func (s *textSink) Display(req display.Request) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.frames++
	n := s.frames
	if s.terminal {
		fmt.Fprint(s.w, "\r\033[K")
		printRequest(s.w, req, s.loaded)
	} else {
		printRequest(s.w, req, s.loaded)
		fmt.Fprintln(s.w)
	}
	s.mu.Unlock()

	if s.limit > 0 && n >= s.limit {
		s.once.Do(func() { close(s.done) })
	}
}

// finish prints the summary line. Frames arriving later from a tick already
// in flight are dropped.
func (s *textSink) finish(index, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	if s.terminal {
		fmt.Fprintln(s.w)
	}
	fmt.Fprintf(s.w, "Stopped at %d of %d after %d frames\n", index, count, s.frames)
}

func stageSize(e *env, w, h int) image.Point {
	if w <= 0 {
		w = e.cfg.Stage.Width
	}
	if h <= 0 {
		h = e.cfg.Stage.Height
	}
	return image.Pt(w, h)
}

func newPlayCmd(getEnv func() *env) *cobra.Command {
	var (
		intervalFlag        float64
		reverseFlag         bool
		startFlag, endFlag  int
		viewFlag, ticksFlag int
		toneFlag            bool
		frequencyFlag       float64
	)
	playCmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Play a document headless, printing each frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv()
			ctx := cmd.Context()
			loaded, err := open(ctx, e, args[0])
			if err != nil {
				return err
			}

			// The load frame and the start frame come before the ticks.
			limit := 0
			if ticksFlag > 0 {
				limit = ticksFlag + 2
			}
			sink := newTextSink(cmd.OutOrStdout(), loaded, limit)
			opts := slideshow.Options{Renderer: sink, Logger: e.log.Named("controller")}
			if toneFlag {
				opts.Audio = audio.NewTone(e.log.Named("audio"))
			}
			ctrl := slideshow.NewController(opts)

			prefs, ok := e.store.Load()
			if !ok {
				prefs = e.cfg.Preferences()
			}
			prefs.Apply(ctrl)
			flags := cmd.Flags()
			if flags.Changed("view") {
				d := ctrl.Snapshot().Display
				d.ViewMode = viewFlag
				ctrl.SetDisplay(d)
			}

			ctrl.Load(loaded.Document)
			if flags.Changed("interval") {
				ctrl.SetInterval(intervalFlag)
			}
			if flags.Changed("reverse") {
				ctrl.SetReverse(reverseFlag)
			}
			if flags.Changed("start") {
				ctrl.SetStart(startFlag)
			}
			if flags.Changed("end") {
				ctrl.SetEnd(endFlag)
			}
			if toneFlag {
				a := ctrl.Snapshot().Audio
				a.Enabled = true
				if flags.Changed("frequency") {
					a.FrequencyHz = frequencyFlag
				}
				ctrl.SetAudio(a)
			}

			ctrl.Start(ctx)
			if ctrl.State() != slideshow.Playing {
				return fmt.Errorf("%s has nothing to play", loaded.Document.Title())
			}
			select {
			case <-sink.done:
			case <-ctx.Done():
			}
			ctrl.Stop()

			snap := ctrl.Snapshot()
			sink.finish(snap.Index, snap.UnitCount)
			return nil
		},
	}
	playCmd.Flags().Float64Var(&intervalFlag, "interval", 2.0, "Seconds per unit (0.1-60)")
	playCmd.Flags().BoolVar(&reverseFlag, "reverse", false, "Play from the end of the range backwards")
	playCmd.Flags().IntVar(&startFlag, "start", 1, "First unit of the range")
	playCmd.Flags().IntVar(&endFlag, "end", 0, "Last unit of the range")
	playCmd.Flags().IntVar(&viewFlag, "view", 1, "Units side by side for page images (1-3)")
	playCmd.Flags().IntVar(&ticksFlag, "ticks", 0, "Stop after this many timer steps, 0 runs until interrupted")
	playCmd.Flags().BoolVar(&toneFlag, "tone", false, "Play the accompanying tone")
	playCmd.Flags().Float64Var(&frequencyFlag, "frequency", slideshow.DefaultToneHz, "Tone frequency in Hz")
	return playCmd
}
