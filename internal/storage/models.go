package storage

import (
	"time"
)

// Turn is one completed conversation turn as recorded in the audit log.
// The log is write-only from the engine's perspective: it is never read
// back into a live session, only inspected through the turns command.
type Turn struct {
	ID            string
	SessionID     string
	CreatedAt     time.Time
	Focus         string // focused project name, empty for broad mode
	UserText      string
	AssistantText string
	Model         string
}
