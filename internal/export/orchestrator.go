package export

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"framecast/internal/encode"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

// defaultClearDelay is how long a terminal progress snapshot stays visible
// before the tracker resets to unset.
const defaultClearDelay = 2 * time.Second

// Orchestrator sequences rendering, dispatches to the encoder backend for
// the requested format, aggregates progress, and owns cancellation and
// cleanup. At most one job runs per orchestrator instance; a concurrent
// Export call is a caller error.
type Orchestrator struct {
	logger     *slog.Logger
	saver      Saver
	encoders   map[Format]encode.Encoder
	clearDelay time.Duration

	tracker Tracker
	running atomic.Bool
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithClearDelay overrides how long terminal progress lingers. Non-positive
// values disable clearing.
func WithClearDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.clearDelay = d }
}

// New constructs an orchestrator over the given encoder backends. saver may
// be nil when the caller handles artifact delivery itself.
func New(encoders map[Format]encode.Encoder, saver Saver, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:     logging.NewComponentLogger(logger, "export"),
		saver:      saver,
		encoders:   encoders,
		clearDelay: defaultClearDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Progress returns the last known progress snapshot, if any.
func (o *Orchestrator) Progress() (Progress, bool) {
	return o.tracker.Progress()
}

// Active reports whether a job is currently running.
func (o *Orchestrator) Active() bool {
	return o.tracker.Active()
}

// Export runs one complete job: render every frame in index order, encode
// the sequence with the backend for format, and hand the artifact to the
// saver. On any failure or cancellation no artifact is produced, Done is
// never reached, and every resource acquired by the job is released before
// the error returns.
func (o *Orchestrator) Export(ctx context.Context, renderer raster.Renderer, totalFrames int, format Format, opts Options) (*Artifact, error) {
	if totalFrames <= 0 {
		return nil, Wrap(ErrPrecondition, "export", fmt.Sprintf("total frames must be positive, got %d", totalFrames), nil)
	}
	if renderer == nil {
		return nil, Wrap(ErrPrecondition, "export", "frame renderer is required", nil)
	}
	encoder, ok := o.encoders[format]
	if !ok {
		return nil, Wrap(ErrPrecondition, "export", fmt.Sprintf("unsupported format %q", format), nil)
	}
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	opts = opts.withDefaults()
	job := newJob(totalFrames, format, opts)
	logger := o.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldFormat, string(format)),
	)

	o.tracker.begin()

	var frames []*raster.Frame
	defer func() {
		// Frame buffers, encoder workers, and streams are scoped to the
		// job; the encoders release their own resources and the buffer
		// references die here.
		frames = nil
		o.tracker.finish(o.clearDelay)
		o.running.Store(false)
	}()

	logger.Info("export started",
		logging.Int("total_frames", totalFrames),
		logging.Int("width", opts.Width),
		logging.Int("height", opts.Height),
		logging.Int("fps", opts.FPS),
	)

	frames, err := o.renderAll(ctx, renderer, totalFrames, logger)
	if err != nil {
		return nil, err
	}

	data, err := o.encodeAll(ctx, encoder, frames, job, logger)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		JobID:     job.ID,
		Data:      data,
		Extension: format.Extension(),
		Filename:  opts.Filename,
	}

	if o.saver != nil {
		if err := o.saver.Save(artifact.FileName(), artifact.Data); err != nil {
			logger.Error("artifact save failed", logging.Error(err))
			return nil, Wrap(ErrSave, "save", artifact.FileName(), err)
		}
	}

	o.tracker.set(Progress{Stage: StageDone, Percent: 100, CurrentFrame: totalFrames, TotalFrames: totalFrames})
	logger.Info("export complete",
		logging.String("artifact", artifact.FileName()),
		logging.Int("bytes", len(artifact.Data)),
		logging.Duration("elapsed", time.Since(job.StartedAt)),
	)
	return artifact, nil
}

// renderAll drives the render stage: sequential, strictly ascending indices,
// one progress update per frame. Cancellation is checked before every
// renderer call.
func (o *Orchestrator) renderAll(ctx context.Context, renderer raster.Renderer, totalFrames int, logger *slog.Logger) ([]*raster.Frame, error) {
	frames := make([]*raster.Frame, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, classify(ErrRender, "render", err)
		}

		frame, err := renderer.Render(ctx, i)
		if err != nil {
			logger.Error("frame render failed", logging.Int(logging.FieldFrame, i), logging.Error(err))
			return nil, classify(ErrRender, "render", err)
		}
		if frame == nil || frame.Image == nil {
			return nil, Wrap(ErrRender, "render", fmt.Sprintf("renderer returned no buffer for frame %d", i), nil)
		}

		frames = append(frames, frame)
		o.tracker.set(Progress{
			Stage:        StageRendering,
			Percent:      math.Round(100 * float64(i+1) / float64(totalFrames)),
			CurrentFrame: i + 1,
			TotalFrames:  totalFrames,
		})
	}
	logger.Debug("render stage complete", logging.Int("frames", len(frames)))
	return frames, nil
}

// encodeAll dispatches to the backend and remaps its local 0-100 progress
// onto the format's encode stage.
func (o *Orchestrator) encodeAll(ctx context.Context, encoder encode.Encoder, frames []*raster.Frame, job Job, logger *slog.Logger) ([]byte, error) {
	stage := job.Format.encodeStage()
	onProgress := func(percent float64) {
		o.tracker.set(Progress{Stage: stage, Percent: percent, TotalFrames: job.TotalFrames})
	}

	data, err := encoder.Encode(ctx, frames, encode.Options{
		Width:   job.Options.Width,
		Height:  job.Options.Height,
		FPS:     job.Options.FPS,
		Quality: job.Options.Quality,
	}, onProgress)
	if err != nil {
		logger.Error("encode stage failed",
			logging.String(logging.FieldStage, string(stage)),
			logging.Error(err),
		)
		return nil, classify(ErrEncode, string(stage), err)
	}
	return data, nil
}
