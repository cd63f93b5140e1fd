package core

import (
	"time"
)

const BookAvailabilityChangedEventType = "BookAvailabilityChanged"

// BookAvailabilityChanged records that the availability write of a transition went through, which completes it.
type BookAvailabilityChanged struct {
	RequestID  RequestIDString
	BookID     BookIDString
	Available  bool
	OccurredAt OccurredAtTS
}

func BuildBookAvailabilityChanged(
	requestID RequestIDString,
	bookID BookIDString,
	available bool,
	occurredAt time.Time,
) BookAvailabilityChanged {

	return BookAvailabilityChanged{
		RequestID:  requestID,
		BookID:     bookID,
		Available:  available,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookAvailabilityChanged) EventType() string {
	return BookAvailabilityChangedEventType
}

func (e BookAvailabilityChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookAvailabilityChanged) IsErrorEvent() bool {
	return false
}
