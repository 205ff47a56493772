package webmenc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Recorder is the capture-stream primitive the encoder drives. One recorder
// instance serves exactly one job; every implementation must discard any
// buffered chunks when the stream is aborted.
type Recorder interface {
	// Start probes codec support and opens the stream for the given
	// geometry. Called exactly once, before any frame is written.
	Start(ctx context.Context, width, height, fps int) error
	// WriteFrame submits one RGBA surface (width*height*4 bytes).
	WriteFrame(pix []byte) error
	// Stop ends the stream and assembles the captured chunks into the
	// final container blob. Finalization is asynchronous work that this
	// call awaits.
	Stop(ctx context.Context) ([]byte, error)
	// Abort tears the stream down without producing an artifact.
	Abort()
}

// RecorderConfig carries the external encoder settings for the production
// recorder.
type RecorderConfig struct {
	Binary         string
	PreferredCodec string
	FallbackCodec  string
	ProbeTimeout   time.Duration
	Bitrate        string
}

// ffmpegRecorder streams raw RGBA frames into an ffmpeg process and collects
// the muxed WebM from its stdout.
type ffmpegRecorder struct {
	cfg RecorderConfig

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
	copied chan error

	abortOnce sync.Once
}

// NewFFmpegRecorder returns a factory producing one recorder per job.
func NewFFmpegRecorder(cfg RecorderConfig) func() Recorder {
	return func() Recorder {
		return &ffmpegRecorder{cfg: cfg, copied: make(chan error, 1)}
	}
}

func (r *ffmpegRecorder) Start(ctx context.Context, width, height, fps int) error {
	codec, err := r.selectCodec(ctx)
	if err != nil {
		return err
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", codec,
		"-b:v", r.cfg.Bitrate,
		"-f", "webm",
		"pipe:1",
	}

	cmd := exec.Command(r.cfg.Binary, args...)
	cmd.Stderr = &r.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("webm recorder: open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("webm recorder: open stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("webm recorder: start %s: %w", r.cfg.Binary, err)
	}

	go func() {
		_, copyErr := io.Copy(&r.stdout, stdout)
		r.copied <- copyErr
		close(r.copied)
	}()

	r.cmd = cmd
	r.stdin = stdin
	return nil
}

// selectCodec runs the one-time capability probe: the preferred codec is
// used when the ffmpeg build declares an encoder for it, otherwise the
// fallback container codec.
func (r *ffmpegRecorder) selectCodec(ctx context.Context) (string, error) {
	if r.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ProbeTimeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, r.cfg.Binary, "-hide_banner", "-encoders").Output()
	if err != nil {
		return "", fmt.Errorf("webm recorder: probe encoders: %w", err)
	}
	return chooseCodec(string(out), r.cfg.PreferredCodec, r.cfg.FallbackCodec), nil
}

// chooseCodec scans ffmpeg -encoders output for the preferred codec name.
func chooseCodec(encoderList, preferred, fallback string) string {
	if preferred == "" {
		return fallback
	}
	for _, line := range strings.Split(encoderList, "\n") {
		fields := strings.Fields(line)
		// Encoder rows look like "V....D libvpx-vp9  libvpx VP9 encoder".
		if len(fields) >= 2 && fields[1] == preferred {
			return preferred
		}
	}
	if fallback == "" {
		return preferred
	}
	return fallback
}

func (r *ffmpegRecorder) WriteFrame(pix []byte) error {
	if r.stdin == nil {
		return fmt.Errorf("webm recorder: stream not started")
	}
	if _, err := r.stdin.Write(pix); err != nil {
		return fmt.Errorf("webm recorder: write frame: %w", err)
	}
	return nil
}

func (r *ffmpegRecorder) Stop(ctx context.Context) ([]byte, error) {
	if r.cmd == nil {
		return nil, fmt.Errorf("webm recorder: stream not started")
	}
	if err := r.stdin.Close(); err != nil {
		r.Abort()
		return nil, fmt.Errorf("webm recorder: close stream: %w", err)
	}

	select {
	case copyErr := <-r.copied:
		waitErr := r.cmd.Wait()
		if waitErr != nil {
			return nil, fmt.Errorf("webm recorder: %s: %w: %s", r.cfg.Binary, waitErr, tail(r.stderr.String()))
		}
		if copyErr != nil {
			return nil, fmt.Errorf("webm recorder: read output: %w", copyErr)
		}
		return r.stdout.Bytes(), nil
	case <-ctx.Done():
		r.Abort()
		return nil, ctx.Err()
	}
}

func (r *ffmpegRecorder) Abort() {
	r.abortOnce.Do(func() {
		if r.stdin != nil {
			_ = r.stdin.Close()
		}
		if r.cmd != nil && r.cmd.Process != nil {
			_ = r.cmd.Process.Kill()
			// The copier owns r.stdout until it exits; wait for it before
			// touching the buffer. The channel is closed after the single
			// send, so this also returns when Stop already drained it.
			<-r.copied
			_ = r.cmd.Wait()
		}
		r.stdout.Reset()
	})
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	const limit = 300
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}
