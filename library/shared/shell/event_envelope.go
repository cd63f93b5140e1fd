package shell

import (
	"errors"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

var ErrEventEnvelopeFromStorableEventFailed = errors.New("event envelope from storable event failed")

type EventEnvelopes = []EventEnvelope

// EventEnvelope is a journal event with its metadata and position.
type EventEnvelope struct {
	DomainEvent    core.DomainEvent
	EventMetadata  EventMetadata
	SequenceNumber uint
}

func EventEnvelopeFrom(storableEvent eventstore.StorableEvent) (EventEnvelope, error) {
	metadata, err := EventMetadataFrom(storableEvent)
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromStorableEventFailed, err)
	}

	domainEvent, err := DomainEventFrom(storableEvent)
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromStorableEventFailed, err)
	}

	return EventEnvelope{
		DomainEvent:    domainEvent,
		EventMetadata:  metadata,
		SequenceNumber: storableEvent.SequenceNumber,
	}, nil
}

func EventEnvelopesFrom(storableEvents eventstore.StorableEvents) (EventEnvelopes, error) {
	envelopes := make(EventEnvelopes, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		envelope, err := EventEnvelopeFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		envelopes = append(envelopes, envelope)
	}

	return envelopes, nil
}

// DomainEventsOf drops the metadata.
func DomainEventsOf(envelopes EventEnvelopes) core.DomainEvents {
	events := make(core.DomainEvents, 0, len(envelopes))
	for _, envelope := range envelopes {
		events = append(events, envelope.DomainEvent)
	}

	return events
}
