package history

import "time"

// Status is the terminal state a job finished in.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Record is one finished export job.
type Record struct {
	ID            string
	Format        string
	TotalFrames   int
	Width         int
	Height        int
	FPS           int
	Filename      string
	Status        Status
	ArtifactBytes int64
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}
