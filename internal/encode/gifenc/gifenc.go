package gifenc

import (
	"context"
	"fmt"
	"log/slog"

	"framecast/internal/encode"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

// Encoder implements the looping-image backend of the export pipeline.
type Encoder struct {
	logger *slog.Logger
}

// New constructs a GIF encoder.
func New(logger *slog.Logger) *Encoder {
	return &Encoder{logger: logging.NewComponentLogger(logger, "gifenc")}
}

// Encode submits every frame to a fresh executor, then finalizes and waits
// for the compressed animation. Local progress covers submission in the
// first half of the range and compression in the second half, mirroring the
// two phases of the executor protocol.
func (e *Encoder) Encode(ctx context.Context, frames []*raster.Frame, opts encode.Options, progress encode.Progress) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("gif encode: no frames")
	}

	delayMS := opts.FrameDurationMillis()
	// GIF stores delays in centiseconds. A zero delay is treated as "viewer's
	// choice" by most decoders, so extreme frame rates clamp to 1cs.
	delayCS := (delayMS + 5) / 10
	if delayCS < 1 {
		delayCS = 1
	}

	ex := newExecutor(opts.Quality, delayCS)
	defer ex.close()

	e.logger.Debug("gif executor started",
		logging.Int("frames", len(frames)),
		logging.Int("delay_ms", delayMS),
		logging.Int("quality", opts.Quality),
	)

	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ex.submit(ctx, frame); err != nil {
			return nil, fmt.Errorf("gif encode: submit frame %d: %w", frame.Index, err)
		}
		if progress != nil {
			progress(float64(i+1) / float64(len(frames)) * 50)
		}
	}

	if err := ex.finalize(ctx); err != nil {
		return nil, fmt.Errorf("gif encode: finalize: %w", err)
	}

	for {
		select {
		case ev := <-ex.events:
			switch ev.kind {
			case eventProgress:
				if progress != nil {
					progress(50 + ev.percent/2)
				}
			case eventDone:
				e.logger.Debug("gif encode complete", logging.Int("bytes", len(ev.data)))
				return ev.data, nil
			case eventError:
				return nil, fmt.Errorf("gif encode: %w", ev.err)
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
