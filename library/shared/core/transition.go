package core

// TransitionPlan lists the store writes a lifecycle event stands for.
// StatusFrom/StatusTo are empty when the request status stays as it is.
// SetsAvailability is false when the book is not touched.
type TransitionPlan struct {
	RequestID        RequestIDString
	BookID           BookIDString
	StatusFrom       RequestStatus
	StatusTo         RequestStatus
	SetsAvailability bool
	Available        bool
}

func (p TransitionPlan) WritesStatus() bool {
	return p.StatusTo != ""
}

// PlanFor maps a transition event to its writes. It returns false for events that are not transitions.
func PlanFor(event DomainEvent) (TransitionPlan, bool) {
	switch e := event.(type) {
	case BorrowRequestAccepted:
		return TransitionPlan{
			RequestID:        e.RequestID,
			BookID:           e.BookID,
			StatusFrom:       StatusPending,
			StatusTo:         StatusAccepted,
			SetsAvailability: true,
			Available:        false,
		}, true

	case BorrowRequestRejected:
		return TransitionPlan{
			RequestID:  e.RequestID,
			BookID:     e.BookID,
			StatusFrom: StatusPending,
			StatusTo:   StatusRejected,
		}, true

	case BorrowedBookReturned:
		return TransitionPlan{
			RequestID:        e.RequestID,
			BookID:           e.BookID,
			StatusFrom:       StatusAccepted,
			StatusTo:         StatusReturned,
			SetsAvailability: true,
			Available:        true,
		}, true

	case BookAvailabilityRepairScheduled:
		return TransitionPlan{
			RequestID:        e.RequestID,
			BookID:           e.BookID,
			SetsAvailability: true,
			Available:        e.Available,
		}, true

	default:
		return TransitionPlan{}, false
	}
}

// IsSagaCompletion is true for the events that close an open transition.
func IsSagaCompletion(event DomainEvent) bool {
	switch event.(type) {
	case BookAvailabilityChanged, BorrowTransitionCompensated:
		return true
	default:
		return false
	}
}
