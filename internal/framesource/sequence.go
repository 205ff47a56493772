package framesource

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"framecast/internal/raster"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// Sequence renders frames from a directory of still images, in lexical
// filename order. Each image is fit into the target dimensions and
// letterboxed on black, so mixed aspect ratios stay undistorted.
type Sequence struct {
	files  []string
	width  int
	height int
}

// NewSequence scans dir for image files. The directory contents are fixed at
// construction, keeping renders deterministic for the lifetime of a job.
func NewSequence(dir string, width, height int) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	sort.Strings(files)

	return &Sequence{files: files, width: width, height: height}, nil
}

// Len returns the number of frames in the sequence.
func (s *Sequence) Len() int {
	return len(s.files)
}

// Render decodes and letterboxes the image at index.
func (s *Sequence) Render(ctx context.Context, index int) (*raster.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.files) {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", index, len(s.files))
	}

	img, err := imaging.Open(s.files[index], imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(s.files[index]), err)
	}

	fitted := imaging.Fit(img, s.width, s.height, imaging.Lanczos)
	canvas := imaging.New(s.width, s.height, color.Black)
	composed := imaging.PasteCenter(canvas, fitted)

	return raster.Capture(composed, s.width, s.height, index)
}
