package gifenc_test

import (
	"bytes"
	"context"
	"image/color"
	"image/gif"
	"testing"

	"framecast/internal/encode"
	"framecast/internal/encode/gifenc"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

func testFrames(n, width, height int) []*raster.Frame {
	frames := make([]*raster.Frame, 0, n)
	for i := 0; i < n; i++ {
		shade := uint8((i * 80) % 256)
		frames = append(frames, raster.Solid(color.RGBA{R: shade, G: 40, B: 200 - shade, A: 255}, width, height, i))
	}
	return frames
}

func TestEncodeProducesLoopingAnimation(t *testing.T) {
	enc := gifenc.New(logging.NewNop())
	opts := encode.Options{Width: 8, Height: 8, FPS: 2, Quality: 10}

	data, err := enc.Encode(context.Background(), testFrames(3, 8, 8), opts, nil)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid GIF: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(anim.Image))
	}
	if anim.LoopCount != 0 {
		t.Fatalf("expected infinite loop, got LoopCount=%d", anim.LoopCount)
	}
	for i, delay := range anim.Delay {
		if delay != 50 {
			t.Fatalf("frame %d delay = %d cs, want 50 (2 fps)", i, delay)
		}
	}
}

func TestDelayIndependentOfQuality(t *testing.T) {
	for _, quality := range []int{1, 10} {
		enc := gifenc.New(logging.NewNop())
		opts := encode.Options{Width: 8, Height: 8, FPS: 3, Quality: quality}

		data, err := enc.Encode(context.Background(), testFrames(2, 8, 8), opts, nil)
		if err != nil {
			t.Fatalf("quality %d: Encode returned error: %v", quality, err)
		}
		anim, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("quality %d: invalid GIF: %v", quality, err)
		}
		// round(1000/3) ms = 333 ms -> 33 cs, regardless of palette depth.
		for i, delay := range anim.Delay {
			if delay != 33 {
				t.Fatalf("quality %d frame %d: delay = %d cs, want 33", quality, i, delay)
			}
		}
	}
}

func TestDelayClampedAtExtremeFrameRates(t *testing.T) {
	enc := gifenc.New(logging.NewNop())
	// 500 fps rounds to a 2ms frame duration, which is 0cs; a zero GIF delay
	// means "viewer's choice" rather than "as fast as possible".
	opts := encode.Options{Width: 8, Height: 8, FPS: 500, Quality: 5}

	data, err := enc.Encode(context.Background(), testFrames(2, 8, 8), opts, nil)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid GIF: %v", err)
	}
	for i, delay := range anim.Delay {
		if delay != 1 {
			t.Fatalf("frame %d delay = %d cs, want clamp to 1", i, delay)
		}
	}
}

func TestEncodeProgressCoversBothPhases(t *testing.T) {
	enc := gifenc.New(logging.NewNop())
	opts := encode.Options{Width: 8, Height: 8, FPS: 2, Quality: 5}

	var reported []float64
	_, err := enc.Encode(context.Background(), testFrames(4, 8, 8), opts, func(percent float64) {
		reported = append(reported, percent)
	})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if len(reported) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] < reported[i-1] {
			t.Fatalf("progress regressed: %v -> %v", reported[i-1], reported[i])
		}
	}
	if last := reported[len(reported)-1]; last != 100 {
		t.Fatalf("final progress = %v, want 100", last)
	}
	// Submission progress must stay in the first half of the range.
	if first := reported[0]; first > 50 {
		t.Fatalf("first callback already at %v, submission phase skipped", first)
	}
}

func TestEncodeRejectsMismatchedDimensions(t *testing.T) {
	enc := gifenc.New(logging.NewNop())
	opts := encode.Options{Width: 8, Height: 8, FPS: 2, Quality: 5}

	frames := testFrames(2, 8, 8)
	frames = append(frames, raster.Solid(color.Black, 16, 8, 2))

	if _, err := enc.Encode(context.Background(), frames, opts, nil); err == nil {
		t.Fatal("expected error for mismatched frame dimensions")
	}
}

func TestEncodeRejectsEmptyInput(t *testing.T) {
	enc := gifenc.New(logging.NewNop())
	if _, err := enc.Encode(context.Background(), nil, encode.Options{FPS: 2, Quality: 5}, nil); err == nil {
		t.Fatal("expected error for empty frame slice")
	}
}

func TestEncodeHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enc := gifenc.New(logging.NewNop())
	opts := encode.Options{Width: 8, Height: 8, FPS: 2, Quality: 5}

	if _, err := enc.Encode(ctx, testFrames(3, 8, 8), opts, nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
