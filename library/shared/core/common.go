package core

import (
	"time"
)

type BookIDString = string
type RequestIDString = string
type SubmissionIDString = string
type EmailString = string

// OccurredAtTS is when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, the resolution postgres keeps.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
