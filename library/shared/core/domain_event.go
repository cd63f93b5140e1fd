package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a lifecycle fact written to the journal.
type DomainEvent interface {
	EventType() string
	HasOccurredAt() time.Time
	IsErrorEvent() bool
}

// Payload keys used in journal filter predicates.
const (
	PayloadKeyBookID       = "BookID"
	PayloadKeyRequestID    = "RequestID"
	PayloadKeySubmissionID = "SubmissionID"
)

// BookLifecycleEventTypes are all event types that describe what happens to a book's borrow requests.
// Every lifecycle command filters on all of them so that commands on the same book serialize.
func BookLifecycleEventTypes() []string {
	return []string{
		BorrowRequestSubmittedEventType,
		BorrowRequestFiledEventType,
		SubmittingBorrowRequestFailedEventType,
		BorrowRequestAcceptedEventType,
		BorrowRequestRejectedEventType,
		DecidingBorrowRequestFailedEventType,
		BorrowedBookReturnedEventType,
		ReturningBorrowedBookFailedEventType,
		BookAvailabilityRepairScheduledEventType,
		BookAvailabilityChangedEventType,
		BorrowTransitionCompensatedEventType,
	}
}
