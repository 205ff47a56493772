package framesource

import (
	"context"
	"image"
	"image/color"
	"math"

	"framecast/internal/raster"
)

// oversample is the supersampling factor for the demo scene; the capture
// adapter scales the result down to the target dimensions.
const oversample = 2

// Demo renders a deterministic synthetic animation: a sine sweep with a
// moving marker dot. It exists for smoke-testing exports without real
// visualization frames.
type Demo struct {
	width  int
	height int
	total  int
}

// NewDemo builds a demo renderer producing total frames at the given
// dimensions.
func NewDemo(width, height, total int) *Demo {
	return &Demo{width: width, height: height, total: total}
}

// Len returns the number of frames the demo produces.
func (d *Demo) Len() int {
	return d.total
}

// Render draws frame index of the sweep. Deterministic for a fixed index.
func (d *Demo) Render(ctx context.Context, index int) (*raster.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := d.width * oversample
	h := d.height * oversample
	scene := image.NewRGBA(image.Rect(0, 0, w, h))

	phase := 0.0
	if d.total > 1 {
		phase = float64(index) / float64(d.total-1)
	}

	for y := 0; y < h; y++ {
		shade := uint8(16 + 32*y/h)
		for x := 0; x < w; x++ {
			scene.SetRGBA(x, y, color.RGBA{R: shade / 2, G: shade / 2, B: shade, A: 255})
		}
	}

	// Sine trace shifted by the frame phase.
	for x := 0; x < w; x++ {
		t := float64(x)/float64(w)*4*math.Pi + phase*2*math.Pi
		y := int(float64(h)/2 - math.Sin(t)*float64(h)/3)
		for dy := -oversample; dy <= oversample; dy++ {
			if y+dy >= 0 && y+dy < h {
				scene.SetRGBA(x, y+dy, color.RGBA{R: 80, G: 200, B: 255, A: 255})
			}
		}
	}

	// Marker dot riding the trace.
	mx := int(phase * float64(w-1))
	mt := float64(mx)/float64(w)*4*math.Pi + phase*2*math.Pi
	my := int(float64(h)/2 - math.Sin(mt)*float64(h)/3)
	radius := 4 * oversample
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			px, py := mx+dx, my+dy
			if px >= 0 && px < w && py >= 0 && py < h {
				scene.SetRGBA(px, py, color.RGBA{R: 255, G: 120, B: 60, A: 255})
			}
		}
	}

	return raster.Capture(scene, d.width, d.height, index)
}
