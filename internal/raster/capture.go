package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Capture rasterizes src onto a fresh width-by-height RGBA buffer and wraps
// it as the frame at index. Sources that do not match the target dimensions
// are scaled with Catmull-Rom resampling; matching sources are copied as-is.
func Capture(src image.Image, width, height, index int) (*Frame, error) {
	if src == nil {
		return nil, fmt.Errorf("capture frame %d: nil source image", index)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture frame %d: invalid dimensions %dx%d", index, width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		draw.Copy(dst, image.Point{}, src, bounds, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(dst, dst.Rect, src, bounds, draw.Src, nil)
	}

	return &Frame{Index: index, Image: dst}, nil
}

// Solid builds a uniformly colored frame. Used by tests and the demo
// renderer.
func Solid(c color.Color, width, height, index int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			row[x*4+0] = rgba.R
			row[x*4+1] = rgba.G
			row[x*4+2] = rgba.B
			row[x*4+3] = rgba.A
		}
	}
	return &Frame{Index: index, Image: img}
}
