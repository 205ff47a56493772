package webmenc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const sampleEncoderList = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 V....D libvpx               libvpx VP8 (codec vp8)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D libopus              libopus Opus
`

func TestChooseCodecPrefersDeclaredEncoder(t *testing.T) {
	if got := chooseCodec(sampleEncoderList, "libvpx-vp9", "libvpx"); got != "libvpx-vp9" {
		t.Fatalf("chooseCodec = %q, want libvpx-vp9", got)
	}
}

func TestChooseCodecFallsBackWhenMissing(t *testing.T) {
	list := strings.ReplaceAll(sampleEncoderList, "libvpx-vp9", "libaom-av1")
	if got := chooseCodec(list, "libvpx-vp9", "libvpx"); got != "libvpx" {
		t.Fatalf("chooseCodec = %q, want libvpx", got)
	}
}

func TestChooseCodecPartialNamesDoNotMatch(t *testing.T) {
	// "libvpx" must not be satisfied by the "libvpx-vp9" row.
	list := strings.ReplaceAll(sampleEncoderList, " V....D libvpx               libvpx VP8 (codec vp8)\n", "")
	if got := chooseCodec(list, "libvpx", "libvpx-vp9"); got != "libvpx-vp9" {
		t.Fatalf("chooseCodec = %q, want libvpx-vp9", got)
	}
}

func TestChooseCodecEmptyConfig(t *testing.T) {
	if got := chooseCodec(sampleEncoderList, "", "libvpx"); got != "libvpx" {
		t.Fatalf("empty preference: got %q, want libvpx", got)
	}
	if got := chooseCodec("", "libvpx-vp9", ""); got != "libvpx-vp9" {
		t.Fatalf("empty fallback: got %q, want libvpx-vp9", got)
	}
}

// writeFakeEncoderBinary creates a stand-in for ffmpeg: it answers the
// capability probe, then streams output continuously until killed.
func writeFakeEncoderBinary(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake binary requires a unix platform")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := `#!/bin/sh
if [ "$2" = "-encoders" ]; then
	echo " V....D libvpx-vp9           fake VP9 encoder"
	exit 0
fi
while :; do
	printf 'webmchunk-webmchunk-webmchunk-' || exit 0
done
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func fakeRecorderConfig(binary string) RecorderConfig {
	return RecorderConfig{
		Binary:         binary,
		PreferredCodec: "libvpx-vp9",
		FallbackCodec:  "libvpx",
		ProbeTimeout:   5 * time.Second,
		Bitrate:        "1M",
	}
}

func TestAbortWaitsForOutputCopier(t *testing.T) {
	rec := NewFFmpegRecorder(fakeRecorderConfig(writeFakeEncoderBinary(t)))()

	if err := rec.Start(context.Background(), 4, 4, 10); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := rec.WriteFrame(make([]byte, 4*4*4)); err != nil {
		t.Fatalf("WriteFrame returned error: %v", err)
	}

	// Let the stream fill the output buffer so the copier is mid-write when
	// the abort lands.
	time.Sleep(50 * time.Millisecond)

	rec.Abort()
	rec.Abort()

	inner := rec.(*ffmpegRecorder)
	if inner.stdout.Len() != 0 {
		t.Fatalf("buffered output survived the abort: %d bytes", inner.stdout.Len())
	}
}

func TestAbortAfterFailedStopIsSafe(t *testing.T) {
	rec := NewFFmpegRecorder(fakeRecorderConfig(writeFakeEncoderBinary(t)))()

	if err := rec.Start(context.Background(), 4, 4, 10); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rec.Stop(ctx); err == nil {
		t.Fatal("expected Stop to fail under a cancelled context")
	}

	// Stop's cancellation path already aborted; a second abort must not
	// block on the drained copier channel.
	done := make(chan struct{})
	go func() {
		rec.Abort()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Abort blocked after the stream was already torn down")
	}
}

func TestTailTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := tail(long)
	if len(got) != 303 || !strings.HasPrefix(got, "...") {
		t.Fatalf("tail returned %d bytes with prefix %q", len(got), got[:3])
	}
	if short := tail("  error line  "); short != "error line" {
		t.Fatalf("tail(short) = %q", short)
	}
}
