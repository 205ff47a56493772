package raster

import (
	"context"
	"image"
)

// Frame is one rendered animation frame: an owned RGBA pixel buffer plus its
// position in the sequence. The buffer must not be mutated after the frame is
// handed to the pipeline.
type Frame struct {
	Index int
	Image *image.RGBA
}

// Width returns the pixel width of the frame buffer.
func (f *Frame) Width() int {
	if f == nil || f.Image == nil {
		return 0
	}
	return f.Image.Rect.Dx()
}

// Height returns the pixel height of the frame buffer.
func (f *Frame) Height() int {
	if f == nil || f.Image == nil {
		return 0
	}
	return f.Image.Rect.Dy()
}

// Renderer produces the frame for a given index. Implementations must be
// deterministic for a fixed index within one export job.
type Renderer interface {
	Render(ctx context.Context, index int) (*Frame, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, index int) (*Frame, error)

func (f RendererFunc) Render(ctx context.Context, index int) (*Frame, error) {
	return f(ctx, index)
}
