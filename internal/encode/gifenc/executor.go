package gifenc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"sync"

	"framecast/internal/raster"
)

type requestKind int

const (
	requestSubmit requestKind = iota
	requestFinalize
)

type request struct {
	kind  requestKind
	frame *raster.Frame
}

type eventKind int

const (
	eventProgress eventKind = iota
	eventDone
	eventError
)

type event struct {
	kind    eventKind
	percent float64
	data    []byte
	err     error
}

// executor owns the quantization and compression work for one GIF job. It
// runs on its own goroutine and communicates exclusively through channels.
type executor struct {
	delayCS int
	colors  int

	requests chan request
	events   chan event

	stopOnce sync.Once
	stop     chan struct{}
}

// newExecutor starts the worker goroutine. quality is the 1-10 palette
// quality knob; delayCS is the per-frame delay in GIF centiseconds.
func newExecutor(quality, delayCS int) *executor {
	e := &executor{
		delayCS:  delayCS,
		colors:   paletteSize(quality),
		requests: make(chan request, 1),
		events:   make(chan event, 8),
		stop:     make(chan struct{}),
	}
	go e.run()
	return e
}

// paletteSize maps the 1-10 quality knob onto a power-of-two palette depth
// between 16 and 256 colors.
func paletteSize(quality int) int {
	if quality < 1 {
		quality = 1
	}
	if quality > 10 {
		quality = 10
	}
	return 1 << uint(4+(quality-1)*4/9)
}

// submit hands one frame to the executor, blocking until accepted. An error
// event already emitted by the executor aborts the submission.
func (e *executor) submit(ctx context.Context, frame *raster.Frame) error {
	select {
	case e.requests <- request{kind: requestSubmit, frame: frame}:
		return nil
	case ev := <-e.events:
		if ev.kind == eventError {
			return ev.err
		}
		return fmt.Errorf("gif executor: unexpected event during submit")
	case <-e.stop:
		return fmt.Errorf("gif executor: stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finalize asks the executor to compress everything submitted so far. The
// answer arrives on the events channel.
func (e *executor) finalize(ctx context.Context) error {
	select {
	case e.requests <- request{kind: requestFinalize}:
		return nil
	case <-e.stop:
		return fmt.Errorf("gif executor: stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close tears the executor down. Safe to call multiple times and after the
// worker already exited.
func (e *executor) close() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *executor) run() {
	var frames []*raster.Frame

	for {
		select {
		case req := <-e.requests:
			switch req.kind {
			case requestSubmit:
				if err := e.checkFrame(req.frame, frames); err != nil {
					e.emit(event{kind: eventError, err: err})
					return
				}
				frames = append(frames, req.frame)
			case requestFinalize:
				e.compress(frames)
				return
			}
		case <-e.stop:
			return
		}
	}
}

func (e *executor) checkFrame(frame *raster.Frame, accepted []*raster.Frame) error {
	if frame == nil || frame.Image == nil {
		return fmt.Errorf("gif executor: submitted frame has no pixel buffer")
	}
	if len(accepted) == 0 {
		return nil
	}
	first := accepted[0]
	if frame.Width() != first.Width() || frame.Height() != first.Height() {
		return fmt.Errorf("gif executor: frame %d dimensions %dx%d differ from %dx%d",
			frame.Index, frame.Width(), frame.Height(), first.Width(), first.Height())
	}
	return nil
}

// compress quantizes each accepted frame and assembles the animation. Frame
// quantization dominates the runtime, so progress is emitted per frame.
func (e *executor) compress(frames []*raster.Frame) {
	if len(frames) == 0 {
		e.emit(event{kind: eventError, err: fmt.Errorf("gif executor: finalize with no frames")})
		return
	}

	anim := &gif.GIF{LoopCount: 0}
	pal := palette.Plan9[:e.colors]

	for i, frame := range frames {
		select {
		case <-e.stop:
			return
		default:
		}

		bounds := frame.Image.Bounds()
		paletted := image.NewPaletted(bounds, pal)
		draw.FloydSteinberg.Draw(paletted, bounds, frame.Image, bounds.Min)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, e.delayCS)

		e.emit(event{kind: eventProgress, percent: float64(i+1) / float64(len(frames)) * 100})
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		e.emit(event{kind: eventError, err: fmt.Errorf("gif executor: encode: %w", err)})
		return
	}

	e.emit(event{kind: eventDone, data: buf.Bytes()})
}

func (e *executor) emit(ev event) {
	select {
	case e.events <- ev:
	case <-e.stop:
	}
}
