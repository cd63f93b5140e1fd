package core

import (
	"slices"
	"time"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
	StatusReturned RequestStatus = "returned"
)

// IsOpen is true while the request holds the book: pending or accepted.
func (s RequestStatus) IsOpen() bool {
	return s == StatusPending || s == StatusAccepted
}

// IsTerminal is true for rejected and returned.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusReturned
}

// CanTransitionTo encodes pending -> accepted|rejected and accepted -> returned.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected
	case StatusAccepted:
		return next == StatusReturned
	default:
		return false
	}
}

// IsKnown reports whether s is one of the four statuses.
func (s RequestStatus) IsKnown() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusReturned:
		return true
	default:
		return false
	}
}

// BorrowRequest is a record of the requests resource. BookTitle is copied at creation.
type BorrowRequest struct {
	ID            RequestIDString `json:"id,omitempty"`
	BookID        BookIDString    `json:"bookId"`
	BookTitle     string          `json:"bookTitle"`
	BorrowerName  string          `json:"borrowerName"`
	BorrowerEmail EmailString     `json:"borrowerEmail"`
	Date          time.Time       `json:"date"`
	Status        RequestStatus   `json:"status"`
}

// SortNewestFirst orders requests by date, newest first, ties broken by id.
func SortNewestFirst(requests []BorrowRequest) []BorrowRequest {
	sorted := slices.Clone(requests)

	slices.SortStableFunc(sorted, func(a, b BorrowRequest) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return sorted
}

// OpenRequestsFor returns the pending or accepted requests of a book.
func OpenRequestsFor(bookID BookIDString, requests []BorrowRequest) []BorrowRequest {
	open := make([]BorrowRequest, 0)

	for _, request := range requests {
		if request.BookID == bookID && request.Status.IsOpen() {
			open = append(open, request)
		}
	}

	return open
}
