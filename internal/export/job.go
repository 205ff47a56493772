package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Format identifies one of the three artifact container formats.
type Format string

const (
	// FormatGIF produces a palette-based looping image.
	FormatGIF Format = "gif"
	// FormatArchive produces a ZIP archive of PNG stills.
	FormatArchive Format = "zip"
	// FormatWebM produces a real-time captured WebM video.
	FormatWebM Format = "webm"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatGIF, FormatArchive, FormatWebM}
}

// ParseFormat maps user input onto a Format.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatGIF:
		return FormatGIF, nil
	case FormatArchive:
		return FormatArchive, nil
	case FormatWebM:
		return FormatWebM, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected gif, zip, or webm)", value)
	}
}

// Extension returns the artifact file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatGIF:
		return ".gif"
	case FormatArchive:
		return ".zip"
	case FormatWebM:
		return ".webm"
	default:
		return ""
	}
}

// encodeStage returns the progress stage label used while this format's
// backend runs. The archive backend is the only one reporting Compressing.
func (f Format) encodeStage() Stage {
	if f == FormatArchive {
		return StageCompressing
	}
	return StageEncoding
}

// Options carries the per-job export parameters. Zero values fall back to
// the documented defaults; out-of-range quality is clamped rather than
// rejected.
type Options struct {
	Width    int
	Height   int
	FPS      int
	Quality  int
	Filename string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 600
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.FPS <= 0 {
		o.FPS = 2
	}
	if o.Quality <= 0 {
		o.Quality = 10
	}
	if o.Quality > 10 {
		o.Quality = 10
	}
	o.Filename = strings.TrimSpace(o.Filename)
	if o.Filename == "" {
		o.Filename = "export"
	}
	return o
}

// Job is the immutable unit of work: one export invocation. It lives for the
// duration of a single Export call and is never reused.
type Job struct {
	ID          string
	TotalFrames int
	Format      Format
	Options     Options
	StartedAt   time.Time
}

func newJob(totalFrames int, format Format, opts Options) Job {
	return Job{
		ID:          uuid.NewString(),
		TotalFrames: totalFrames,
		Format:      format,
		Options:     opts,
		StartedAt:   time.Now().UTC(),
	}
}
