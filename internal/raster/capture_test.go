package raster_test

import (
	"image"
	"image/color"
	"testing"

	"framecast/internal/raster"
)

func TestCaptureCopiesMatchingDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for i := range src.Pix {
		src.Pix[i] = uint8(i % 251)
	}

	frame, err := raster.Capture(src, 8, 6, 3)
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if frame.Index != 3 {
		t.Fatalf("frame index = %d, want 3", frame.Index)
	}
	if frame.Width() != 8 || frame.Height() != 6 {
		t.Fatalf("frame is %dx%d, want 8x6", frame.Width(), frame.Height())
	}
	for i := range src.Pix {
		if frame.Image.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel data diverges at byte %d", i)
		}
	}

	// The frame owns its buffer.
	src.Pix[0] ^= 0xff
	if frame.Image.Pix[0] == src.Pix[0] {
		t.Fatal("frame buffer aliases the source image")
	}
}

func TestCaptureScalesMismatchedSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	frame, err := raster.Capture(src, 10, 5, 0)
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if frame.Width() != 10 || frame.Height() != 5 {
		t.Fatalf("frame is %dx%d, want 10x5", frame.Width(), frame.Height())
	}
	// A uniform source stays uniform through resampling.
	c := frame.Image.RGBAAt(5, 2)
	if c.R != 200 || c.G != 100 || c.B != 50 {
		t.Fatalf("resampled color = %v", c)
	}
}

func TestCaptureRejectsBadInput(t *testing.T) {
	if _, err := raster.Capture(nil, 10, 10, 0); err == nil {
		t.Fatal("expected error for nil source")
	}
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := raster.Capture(src, 0, 10, 0); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := raster.Capture(src, 10, -1, 0); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestSolidFillsUniformly(t *testing.T) {
	frame := raster.Solid(color.RGBA{R: 10, G: 20, B: 30, A: 255}, 5, 3, 7)
	if frame.Index != 7 || frame.Width() != 5 || frame.Height() != 3 {
		t.Fatalf("unexpected frame geometry index=%d %dx%d", frame.Index, frame.Width(), frame.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			c := frame.Image.RGBAAt(x, y)
			if c != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v", x, y, c)
			}
		}
	}
}

func TestFrameNilSafety(t *testing.T) {
	var frame *raster.Frame
	if frame.Width() != 0 || frame.Height() != 0 {
		t.Fatal("nil frame must report zero dimensions")
	}
}
