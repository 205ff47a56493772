package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"framecast/internal/config"
	"framecast/internal/encode"
	"framecast/internal/encode/gifenc"
	"framecast/internal/encode/webmenc"
	"framecast/internal/encode/zipenc"
	"framecast/internal/export"
	"framecast/internal/framesource"
	"framecast/internal/history"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

type exportFlags struct {
	format     string
	framesDir  string
	demo       bool
	demoFrames int
	width      int
	height     int
	fps        int
	quality    int
	output     string
	jsonOut    bool
}

func newExportCommand(cctx *commandContext) *cobra.Command {
	flags := exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one animation export",
		Long: `Render a frame sequence and encode it into a downloadable artifact.

Frames come from --frames (a directory of still images, lexical order) or
--demo (a synthetic sweep animation). The artifact lands in the configured
output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, cctx, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "gif", "Artifact format: gif, zip, or webm")
	cmd.Flags().StringVar(&flags.framesDir, "frames", "", "Directory containing the frame image sequence")
	cmd.Flags().BoolVar(&flags.demo, "demo", false, "Use the built-in demo animation instead of --frames")
	cmd.Flags().IntVar(&flags.demoFrames, "demo-frames", 10, "Number of frames the demo animation produces")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Frame width in pixels (config default when 0)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Frame height in pixels (config default when 0)")
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Playback frame rate (config default when 0)")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "GIF palette quality 1-10 (config default when 0)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Artifact base name (config default when empty)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

func runExport(cmd *cobra.Command, cctx *commandContext, flags exportFlags) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cctx.ensureLogger()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	opts := export.Options{
		Width:    valueOr(flags.width, cfg.Export.Width),
		Height:   valueOr(flags.height, cfg.Export.Height),
		FPS:      valueOr(flags.fps, cfg.Export.FPS),
		Quality:  valueOr(flags.quality, cfg.Export.Quality),
		Filename: stringOr(flags.output, cfg.Export.Filename),
	}

	renderer, totalFrames, err := buildRenderer(flags, opts)
	if err != nil {
		return err
	}

	// One export at a time per installation; concurrent runs would race on
	// the history database and the output file.
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "export.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire export lock: %w", err)
	}
	if !locked {
		return errors.New("another framecast export is already running")
	}
	defer func() { _ = lock.Unlock() }()

	encoders := map[export.Format]encode.Encoder{
		export.FormatGIF:     gifenc.New(logger),
		export.FormatArchive: zipenc.New(logger),
		export.FormatWebM: webmenc.New(webmenc.NewFFmpegRecorder(webmenc.RecorderConfig{
			Binary:         cfg.Video.FFmpegBinary,
			PreferredCodec: cfg.Video.PreferredCodec,
			FallbackCodec:  cfg.Video.FallbackCodec,
			ProbeTimeout:   time.Duration(cfg.Video.ProbeTimeout) * time.Second,
			Bitrate:        cfg.Video.Bitrate,
		}), logger),
	}

	orch := export.New(encoders, export.DirSaver{Dir: cfg.Paths.OutputDir}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopDisplay := startProgressDisplay(orch)
	started := time.Now().UTC()
	artifact, exportErr := orch.Export(ctx, renderer, totalFrames, format, opts)
	stopDisplay()

	recordHistory(cfg, logger, artifact, exportErr, totalFrames, format, opts, started)

	if exportErr != nil {
		return exportErr
	}

	if flags.jsonOut {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"job_id":   artifact.JobID,
			"artifact": artifact.FileName(),
			"path":     filepath.Join(cfg.Paths.OutputDir, artifact.FileName()),
			"bytes":    len(artifact.Data),
			"frames":   totalFrames,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d frames)\n",
		filepath.Join(cfg.Paths.OutputDir, artifact.FileName()),
		formatBytes(int64(len(artifact.Data))),
		totalFrames,
	)
	return nil
}

func buildRenderer(flags exportFlags, opts export.Options) (raster.Renderer, int, error) {
	switch {
	case flags.framesDir != "" && flags.demo:
		return nil, 0, errors.New("--frames and --demo are mutually exclusive")
	case flags.framesDir != "":
		seq, err := framesource.NewSequence(flags.framesDir, opts.Width, opts.Height)
		if err != nil {
			return nil, 0, err
		}
		return seq, seq.Len(), nil
	case flags.demo:
		if flags.demoFrames <= 0 {
			return nil, 0, fmt.Errorf("--demo-frames must be positive, got %d", flags.demoFrames)
		}
		demo := framesource.NewDemo(opts.Width, opts.Height, flags.demoFrames)
		return demo, demo.Len(), nil
	default:
		return nil, 0, errors.New("a frame source is required: pass --frames <dir> or --demo")
	}
}

// startProgressDisplay repaints a single status line while the job runs.
// Skipped when stdout is not a terminal so piped output stays clean.
func startProgressDisplay(orch *export.Orchestrator) (stop func()) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		painted := false
		for {
			select {
			case <-done:
				if painted {
					fmt.Fprint(os.Stdout, "\r\033[K")
				}
				return
			case <-ticker.C:
				if progress, ok := orch.Progress(); ok {
					line := fmt.Sprintf("%s %3.0f%%", progress.Stage, progress.Percent)
					if progress.Stage == export.StageRendering && progress.TotalFrames > 0 {
						line += fmt.Sprintf(" (%d/%d)", progress.CurrentFrame, progress.TotalFrames)
					}
					fmt.Fprintf(os.Stdout, "\r\033[K%s", line)
					painted = true
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// recordHistory persists the job outcome. History failures are logged, never
// surfaced; the export result already happened.
func recordHistory(cfg *config.Config, logger *slog.Logger, artifact *export.Artifact, exportErr error, totalFrames int, format export.Format, opts export.Options, started time.Time) {
	if !cfg.History.Enabled {
		return
	}

	rec := history.Record{
		Format:      string(format),
		TotalFrames: totalFrames,
		Width:       opts.Width,
		Height:      opts.Height,
		FPS:         opts.FPS,
		Filename:    opts.Filename + format.Extension(),
		Status:      history.StatusCompleted,
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
	}
	switch {
	case exportErr == nil:
		rec.ID = artifact.JobID
		rec.ArtifactBytes = int64(len(artifact.Data))
	case errors.Is(exportErr, export.ErrCancelled):
		rec.ID = uuid.NewString()
		rec.Status = history.StatusCancelled
		rec.Error = exportErr.Error()
	default:
		rec.ID = uuid.NewString()
		rec.Status = history.StatusFailed
		rec.Error = exportErr.Error()
	}

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("open history store failed", logging.Error(err))
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), rec); err != nil {
		logger.Warn("record job history failed", logging.Error(err))
	}
}
