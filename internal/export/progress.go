package export

import (
	"sync/atomic"
	"time"
)

// Stage identifies the phase an export job is in.
type Stage string

const (
	StageRendering   Stage = "rendering"
	StageEncoding    Stage = "encoding"
	StageCompressing Stage = "compressing"
	StageDone        Stage = "done"
)

// Progress is the read-only status value observers poll. CurrentFrame and
// TotalFrames are populated during the render stage; encode-stage updates
// carry only the percent.
type Progress struct {
	Stage        Stage
	Percent      float64
	CurrentFrame int
	TotalFrames  int
}

// Tracker holds the latest progress snapshot for one orchestrator. Updates
// are whole-value replacements; readers never observe a partially written
// Progress.
type Tracker struct {
	snap   atomic.Pointer[Progress]
	active atomic.Bool
	gen    atomic.Uint64
}

// Progress returns the last known progress and whether one is set.
func (t *Tracker) Progress() (Progress, bool) {
	p := t.snap.Load()
	if p == nil {
		return Progress{}, false
	}
	return *p, true
}

// Active reports whether a job is currently running.
func (t *Tracker) Active() bool {
	return t.active.Load()
}

func (t *Tracker) begin() {
	t.gen.Add(1)
	t.snap.Store(nil)
	t.active.Store(true)
}

// set publishes a snapshot, clamping percent so it never decreases within a
// stage and never exceeds 100.
func (t *Tracker) set(p Progress) {
	if current := t.snap.Load(); current != nil && current.Stage == p.Stage && p.Percent < current.Percent {
		p.Percent = current.Percent
	}
	if p.Percent > 100 {
		p.Percent = 100
	}
	if p.Percent < 0 {
		p.Percent = 0
	}
	t.snap.Store(&p)
}

// finish marks the job terminal and schedules the snapshot to clear after
// the given delay, unless a newer job has started by then. A non-positive
// delay leaves the snapshot in place. The clearing is UI ergonomics, not
// part of the pipeline contract.
func (t *Tracker) finish(clearAfter time.Duration) {
	t.active.Store(false)
	if clearAfter <= 0 {
		return
	}
	gen := t.gen.Load()
	time.AfterFunc(clearAfter, func() {
		if t.gen.Load() == gen && !t.active.Load() {
			t.snap.Store(nil)
		}
	})
}
