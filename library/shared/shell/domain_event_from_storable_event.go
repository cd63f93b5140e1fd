package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

var (
	ErrMappingToDomainEventFailed           = errors.New("mapping to domain event failed")
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom maps storable events in order, failing on the first one that does not map.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BorrowRequestSubmittedEventType:
		return unmarshalAs[core.BorrowRequestSubmitted](payload)

	case core.BorrowRequestFiledEventType:
		return unmarshalAs[core.BorrowRequestFiled](payload)

	case core.SubmittingBorrowRequestFailedEventType:
		return unmarshalAs[core.SubmittingBorrowRequestFailed](payload)

	case core.BorrowRequestAcceptedEventType:
		return unmarshalAs[core.BorrowRequestAccepted](payload)

	case core.BorrowRequestRejectedEventType:
		return unmarshalAs[core.BorrowRequestRejected](payload)

	case core.DecidingBorrowRequestFailedEventType:
		return unmarshalAs[core.DecidingBorrowRequestFailed](payload)

	case core.BorrowedBookReturnedEventType:
		return unmarshalAs[core.BorrowedBookReturned](payload)

	case core.ReturningBorrowedBookFailedEventType:
		return unmarshalAs[core.ReturningBorrowedBookFailed](payload)

	case core.BookAvailabilityRepairScheduledEventType:
		return unmarshalAs[core.BookAvailabilityRepairScheduled](payload)

	case core.BookAvailabilityChangedEventType:
		return unmarshalAs[core.BookAvailabilityChanged](payload)

	case core.BorrowTransitionCompensatedEventType:
		return unmarshalAs[core.BorrowTransitionCompensated](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalAs[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
