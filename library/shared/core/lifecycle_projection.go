package core

import (
	"time"
)

// JournalStatusOf returns the status the journal last recorded for a request.
// The boolean is false when the journal never saw a transition of it.
func JournalStatusOf(history DomainEvents, requestID RequestIDString) (RequestStatus, bool) {
	var status RequestStatus
	found := false

	for _, event := range history {
		switch e := event.(type) {
		case BorrowRequestAccepted:
			if e.RequestID == requestID {
				status, found = StatusAccepted, true
			}

		case BorrowRequestRejected:
			if e.RequestID == requestID {
				status, found = StatusRejected, true
			}

		case BorrowedBookReturned:
			if e.RequestID == requestID {
				status, found = StatusReturned, true
			}

		case BorrowTransitionCompensated:
			if e.RequestID == requestID {
				status, found = e.RestoredStatus, true
			}
		}
	}

	return status, found
}

// EffectiveStatus prefers the journal over the store, the store may lag behind a transition in flight.
func EffectiveStatus(history DomainEvents, request BorrowRequest) RequestStatus {
	if status, ok := JournalStatusOf(history, request.ID); ok {
		return status
	}

	return request.Status
}

// OpenTransition is a transition whose store writes were never confirmed.
type OpenTransition struct {
	Event DomainEvent
	Plan  TransitionPlan
}

// OpenTransitions lists transitions with an availability write that have neither
// a BookAvailabilityChanged nor a BorrowTransitionCompensated after them.
// A later transition of the same request supersedes an earlier open one.
func OpenTransitions(history DomainEvents) []OpenTransition {
	open := make(map[RequestIDString]OpenTransition)
	order := make([]RequestIDString, 0)

	for _, event := range history {
		if plan, ok := PlanFor(event); ok {
			if _, seen := open[plan.RequestID]; !seen {
				order = append(order, plan.RequestID)
			}

			if plan.SetsAvailability {
				open[plan.RequestID] = OpenTransition{Event: event, Plan: plan}
			} else {
				delete(open, plan.RequestID)
			}

			continue
		}

		switch e := event.(type) {
		case BookAvailabilityChanged:
			delete(open, e.RequestID)
		case BorrowTransitionCompensated:
			delete(open, e.RequestID)
		}
	}

	transitions := make([]OpenTransition, 0, len(open))
	for _, requestID := range order {
		if transition, ok := open[requestID]; ok {
			transitions = append(transitions, transition)
		}
	}

	return transitions
}

// SubmissionClaim is a BorrowRequestSubmitted without a BorrowRequestFiled
// or a SubmittingBorrowRequestFailed for the same submission.
type SubmissionClaim struct {
	SubmissionID  SubmissionIDString
	BookID        BookIDString
	BorrowerEmail EmailString
	OccurredAt    time.Time
}

func (c SubmissionClaim) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.OccurredAt) > ttl
}

// PendingSubmissionClaims returns unfinished claims in journal order.
func PendingSubmissionClaims(history DomainEvents) []SubmissionClaim {
	claims := make(map[SubmissionIDString]SubmissionClaim)
	order := make([]SubmissionIDString, 0)

	for _, event := range history {
		switch e := event.(type) {
		case BorrowRequestSubmitted:
			claims[e.SubmissionID] = SubmissionClaim{
				SubmissionID:  e.SubmissionID,
				BookID:        e.BookID,
				BorrowerEmail: e.BorrowerEmail,
				OccurredAt:    e.OccurredAt,
			}
			order = append(order, e.SubmissionID)

		case BorrowRequestFiled:
			delete(claims, e.SubmissionID)

		case SubmittingBorrowRequestFailed:
			delete(claims, e.SubmissionID)
		}
	}

	pending := make([]SubmissionClaim, 0, len(claims))
	for _, submissionID := range order {
		if claim, ok := claims[submissionID]; ok {
			pending = append(pending, claim)
			delete(claims, submissionID)
		}
	}

	return pending
}
