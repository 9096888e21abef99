package store

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run tracks one pipeline invocation while it is of interest to API clients.
// Durable state lives in the checkpoint store; this is the cheap, expiring
// view for status polling.
type Run struct {
	SessionID  string
	UserID     uint
	DocumentID uint
	Status     RunStatus
	QuizID     uint
	QuestionID uint
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
