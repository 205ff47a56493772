package encode

import (
	"context"

	"framecast/internal/raster"
)

// Options carries the per-job parameters an encoder may need. Backends read
// only the fields that apply to their format.
type Options struct {
	Width   int
	Height  int
	FPS     int
	Quality int
}

// FrameDurationMillis returns the per-frame delay in milliseconds for the
// configured rate, rounded to the nearest integer.
func (o Options) FrameDurationMillis() int {
	if o.FPS <= 0 {
		return 0
	}
	return (1000 + o.FPS/2) / o.FPS
}

// Progress receives encoder-local progress in the range [0, 100]. Values are
// non-decreasing for the lifetime of one Encode call.
type Progress func(percent float64)

// Encoder turns a complete ordered frame sequence into a single artifact
// blob. Implementations must release every resource they acquire before
// returning, on success and on failure alike, and must honor ctx
// cancellation at each internal suspension point.
type Encoder interface {
	Encode(ctx context.Context, frames []*raster.Frame, opts Options, progress Progress) ([]byte, error)
}
