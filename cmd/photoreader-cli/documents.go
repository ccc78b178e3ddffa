package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photoreader/internal/content"
	"photoreader/internal/display"
	"photoreader/internal/playback"
	"photoreader/internal/render"
	"photoreader/internal/service"
)

const previewLength = 72

func newInfoCmd(getEnv func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Print the kind, unit count and title of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := open(cmd.Context(), getEnv(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			doc := loaded.Document
			fmt.Fprintf(out, "Title:  %s\n", doc.Title())
			fmt.Fprintf(out, "Kind:   %s\n", doc.Kind())
			fmt.Fprintf(out, "Format: %s\n", loaded.Format)
			fmt.Fprintf(out, "Units:  %d\n", doc.UnitCount())
			if loaded.Pages != nil {
				info, err := loaded.Pages.Info(cmd.Context(), 1)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "First:  %s (%dx%d, %d bytes)\n", info.Name, info.Width, info.Height, info.Size)
			}
			return nil
		},
	}
}

func newUnitsCmd(getEnv func() *env) *cobra.Command {
	var startFlag, endFlag int
	unitsCmd := &cobra.Command{
		Use:   "units [file]",
		Short: "Print the units of a document, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := open(cmd.Context(), getEnv(), args[0])
			if err != nil {
				return err
			}
			doc := loaded.Document
			rng := playback.NewRange(doc.UnitCount())
			if cmd.Flags().Changed("start") {
				rng = rng.WithStart(startFlag, doc.UnitCount())
			}
			if cmd.Flags().Changed("end") {
				rng = rng.WithEnd(endFlag, doc.UnitCount())
			}
			out := cmd.OutOrStdout()
			for i := rng.Start; i <= rng.End; i++ {
				fmt.Fprintf(out, "%d\t%s\n", i, unitLabel(loaded, i))
			}
			return nil
		},
	}
	unitsCmd.Flags().IntVar(&startFlag, "start", 1, "First unit (clamped)")
	unitsCmd.Flags().IntVar(&endFlag, "end", 0, "Last unit (clamped)")
	return unitsCmd
}

// unitLabel is a one-line description of a unit.
func unitLabel(loaded *service.Loaded, index int) string {
	if loaded.Pages != nil {
		return loaded.Pages.Name(index)
	}
	u, err := loaded.Document.Unit(index)
	if err != nil {
		return ""
	}
	if loaded.Document.Kind() == content.KindWordStream {
		return u.Text
	}
	var parts []string
	for _, b := range content.Blocks(u.Text) {
		parts = append(parts, b.Text)
	}
	return abbreviate(strings.Join(parts, " "), previewLength)
}

func abbreviate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func newSnapshotCmd(getEnv func() *env) *cobra.Command {
	var (
		indexFlag, viewFlag                int
		widthFlag, heightFlag              int
		rotateFlag, mirrorFlag             bool
		centerFlag, cornersFlag, guideFlag bool
	)
	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file] [out.png]",
		Short: "Render one frame of a document to a PNG file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv()
			loaded, err := open(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			cfg := display.Config{
				ViewMode:   viewFlag,
				Rotate:     rotateFlag,
				Mirror:     mirrorFlag,
				CenterDot:  centerFlag,
				CornerDots: cornersFlag,
				GuideLine:  guideFlag,
			}
			req := display.Build(loaded.Document, indexFlag, cfg)

			composer, err := render.NewComposer(e.log.Named("render"))
			if err != nil {
				return err
			}
			size := stageSize(e, widthFlag, heightFlag)
			img, err := composer.Compose(cmd.Context(), req, size)
			if img == nil {
				return err
			}
			if err != nil {
				// Slots that failed are left empty; the frame is still written.
				e.log.Warn("Frame rendered with errors", zap.Error(err))
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := render.WritePNG(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, units %v)\n", args[1], size.X, size.Y, req.Units())
			return nil
		},
	}
	snapshotCmd.Flags().IntVar(&indexFlag, "index", 1, "Unit to show first")
	snapshotCmd.Flags().IntVar(&viewFlag, "view", 1, "Units side by side for page images (1-3)")
	snapshotCmd.Flags().IntVar(&widthFlag, "width", 0, "Frame width, defaults to the configured stage")
	snapshotCmd.Flags().IntVar(&heightFlag, "height", 0, "Frame height, defaults to the configured stage")
	snapshotCmd.Flags().BoolVar(&rotateFlag, "rotate", false, "Rotate content 180 degrees")
	snapshotCmd.Flags().BoolVar(&mirrorFlag, "mirror", false, "Mirror content horizontally")
	snapshotCmd.Flags().BoolVar(&centerFlag, "center-dot", false, "Draw the center dot")
	snapshotCmd.Flags().BoolVar(&cornersFlag, "corner-dots", false, "Draw the corner dots")
	snapshotCmd.Flags().BoolVar(&guideFlag, "guide", false, "Draw the guide lines")
	return snapshotCmd
}

// printRequest writes a render request as one line of text.
func printRequest(w io.Writer, req display.Request, loaded *service.Loaded) {
	labels := make([]string, 0, len(req.Slots))
	for _, s := range req.Slots {
		labels = append(labels, fmt.Sprintf("%d:%s", s.Unit, abbreviate(unitLabel(loaded, s.Unit), 24)))
	}
	fmt.Fprintf(w, "#%d %s", req.Seq, strings.Join(labels, " | "))
}
