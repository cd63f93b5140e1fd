package core

import (
	"time"
)

const BookAvailabilityRepairScheduledEventType = "BookAvailabilityRepairScheduled"

// BookAvailabilityRepairScheduled records that a repeated transition found
// the availability write of an earlier one missing.
type BookAvailabilityRepairScheduled struct {
	RequestID  RequestIDString
	BookID     BookIDString
	Available  bool
	OccurredAt OccurredAtTS
}

func BuildBookAvailabilityRepairScheduled(
	requestID RequestIDString,
	bookID BookIDString,
	available bool,
	occurredAt time.Time,
) BookAvailabilityRepairScheduled {

	return BookAvailabilityRepairScheduled{
		RequestID:  requestID,
		BookID:     bookID,
		Available:  available,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookAvailabilityRepairScheduled) EventType() string {
	return BookAvailabilityRepairScheduledEventType
}

func (e BookAvailabilityRepairScheduled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookAvailabilityRepairScheduled) IsErrorEvent() bool {
	return false
}
