package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the pipeline failure taxonomy. Callers classify with
// errors.Is.
var (
	// ErrPrecondition marks jobs rejected before any stage began; no
	// resources were acquired.
	ErrPrecondition = errors.New("precondition failed")
	// ErrRender marks a frame renderer failure; the job aborts with no
	// artifact and encoding never starts.
	ErrRender = errors.New("render failed")
	// ErrEncode marks a backend failure during the encode stage; rendered
	// frames are discarded.
	ErrEncode = errors.New("encode failed")
	// ErrSave marks a failure handing the finished artifact to the save
	// primitive.
	ErrSave = errors.New("save failed")
	// ErrBusy is returned when Export is called while another job is
	// running on the same orchestrator.
	ErrBusy = errors.New("export already in progress")
	// ErrCancelled is the distinct terminal state for caller-triggered
	// cancellation. Resources are released exactly as on failure.
	ErrCancelled = errors.New("export cancelled")
)

// Wrap tags err with a sentinel marker and operation context for later
// classification.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrEncode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// classify routes context cancellation onto ErrCancelled and everything else
// onto the given marker.
func classify(marker error, operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrCancelled, operation, "", err)
	}
	return Wrap(marker, operation, "", err)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "export failure"
	}
	return strings.Join(parts, ": ")
}
