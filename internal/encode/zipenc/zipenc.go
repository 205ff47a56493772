package zipenc

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zip"

	"framecast/internal/encode"
	"framecast/internal/logging"
	"framecast/internal/raster"
)

// maxFrames is the largest sequence the fixed 4-digit entry naming can
// represent. Longer sequences are rejected rather than widening the padding.
const maxFrames = 9999

// Encoder implements the frame-archive backend of the export pipeline.
type Encoder struct {
	logger *slog.Logger
}

// New constructs a frame-archive encoder.
func New(logger *slog.Logger) *Encoder {
	return &Encoder{logger: logging.NewComponentLogger(logger, "zipenc")}
}

// Encode serializes each frame to PNG and stores it under a zero-padded
// sequential name in index order. Progress is reported once per archived
// frame.
func (e *Encoder) Encode(ctx context.Context, frames []*raster.Frame, opts encode.Options, progress encode.Progress) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("archive encode: no frames")
	}
	if len(frames) > maxFrames {
		return nil, fmt.Errorf("archive encode: %d frames exceeds the %d entry limit", len(frames), maxFrames)
	}

	pngEncoder := png.Encoder{CompressionLevel: png.BestCompression}
	modified := time.Now().UTC()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return nil, err
		}

		name := fmt.Sprintf("frame_%04d.png", i+1)
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("archive encode: create entry %s: %w", name, err)
		}
		if err := pngEncoder.Encode(entry, frame.Image); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("archive encode: write entry %s: %w", name, err)
		}

		if progress != nil {
			progress(float64(i+1) / float64(len(frames)) * 100)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive encode: finalize archive: %w", err)
	}

	e.logger.Debug("archive encode complete",
		logging.Int("frames", len(frames)),
		logging.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}
