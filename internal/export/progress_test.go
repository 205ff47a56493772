package export

import (
	"testing"
	"time"
)

func TestTrackerClampsRegressionWithinStage(t *testing.T) {
	var tr Tracker
	tr.begin()

	tr.set(Progress{Stage: StageRendering, Percent: 40})
	tr.set(Progress{Stage: StageRendering, Percent: 25})

	p, ok := tr.Progress()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if p.Percent != 40 {
		t.Fatalf("percent regressed: got %v, want 40", p.Percent)
	}
}

func TestTrackerAllowsResetAcrossStages(t *testing.T) {
	var tr Tracker
	tr.begin()

	tr.set(Progress{Stage: StageRendering, Percent: 100})
	tr.set(Progress{Stage: StageEncoding, Percent: 0})

	p, _ := tr.Progress()
	if p.Stage != StageEncoding || p.Percent != 0 {
		t.Fatalf("expected encoding at 0, got %s at %v", p.Stage, p.Percent)
	}
}

func TestTrackerCapsAtHundred(t *testing.T) {
	var tr Tracker
	tr.begin()

	tr.set(Progress{Stage: StageEncoding, Percent: 130})
	p, _ := tr.Progress()
	if p.Percent != 100 {
		t.Fatalf("expected cap at 100, got %v", p.Percent)
	}

	tr.set(Progress{Stage: StageEncoding, Percent: -5})
	p, _ = tr.Progress()
	if p.Percent != 100 {
		t.Fatalf("negative update must not lower the snapshot, got %v", p.Percent)
	}
}

func TestTrackerFinishWithoutDelayKeepsSnapshot(t *testing.T) {
	var tr Tracker
	tr.begin()
	tr.set(Progress{Stage: StageDone, Percent: 100})
	tr.finish(0)

	if tr.Active() {
		t.Fatal("tracker must be inactive after finish")
	}
	if _, ok := tr.Progress(); !ok {
		t.Fatal("snapshot must survive when no clear delay is set")
	}
}

func TestTrackerNewJobSupersedesScheduledClear(t *testing.T) {
	var tr Tracker
	tr.begin()
	tr.set(Progress{Stage: StageDone, Percent: 100})
	tr.finish(20 * time.Millisecond)

	// A new job starting before the timer fires must not have its snapshot
	// wiped by the stale clear.
	tr.begin()
	tr.set(Progress{Stage: StageRendering, Percent: 10})

	time.Sleep(60 * time.Millisecond)

	p, ok := tr.Progress()
	if !ok {
		t.Fatal("stale clear wiped the new job's snapshot")
	}
	if p.Stage != StageRendering {
		t.Fatalf("unexpected stage %s", p.Stage)
	}
}
