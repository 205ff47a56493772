package webmenc

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"time"

	"framecast/internal/encode"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

// Encoder implements the streaming-video backend of the export pipeline.
type Encoder struct {
	logger      *slog.Logger
	newRecorder func() Recorder
}

// New constructs a WebM encoder. newRecorder is invoked once per job so
// stream resources never outlive a single encoder invocation.
func New(newRecorder func() Recorder, logger *slog.Logger) *Encoder {
	return &Encoder{
		logger:      logging.NewComponentLogger(logger, "webmenc"),
		newRecorder: newRecorder,
	}
}

// Encode re-draws the pre-rendered frames one at a time onto a reusable
// surface, paced by a self-re-arming frame timer, and finalizes the
// recording once the last frame is written. Cancellation is checked at every
// re-arm point. Frame i+1 is never written earlier than one frame interval
// after frame i.
func (e *Encoder) Encode(ctx context.Context, frames []*raster.Frame, opts encode.Options, progress encode.Progress) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("webm encode: no frames")
	}

	rec := e.newRecorder()
	if err := rec.Start(ctx, opts.Width, opts.Height, opts.FPS); err != nil {
		return nil, fmt.Errorf("webm encode: %w", err)
	}

	finished := false
	defer func() {
		if !finished {
			rec.Abort()
		}
	}()

	interval := time.Duration(opts.FrameDurationMillis()) * time.Millisecond
	surface := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	e.logger.Debug("webm recording started",
		logging.Int("frames", len(frames)),
		logging.Duration("frame_interval", interval),
	)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for i, frame := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		draw.Draw(surface, surface.Rect, frame.Image, frame.Image.Rect.Min, draw.Src)
		if err := rec.WriteFrame(surface.Pix); err != nil {
			return nil, fmt.Errorf("webm encode: frame %d: %w", frame.Index, err)
		}
		if progress != nil {
			progress(float64(i+1) / float64(len(frames)) * 100)
		}

		timer.Reset(interval)
	}

	data, err := rec.Stop(ctx)
	if err != nil {
		return nil, fmt.Errorf("webm encode: %w", err)
	}

	finished = true
	e.logger.Debug("webm encode complete", logging.Int("bytes", len(data)))
	return data, nil
}
