package borroweligibility

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	ReasonNotSignedIn      = "sign in to borrow books"
	ReasonAdmin            = "admins cannot borrow books"
	ReasonBookUnavailable  = "book is not available"
	ReasonAlreadyRequested = "you already have an open request for this book"
)

// Evaluate is pure. requests are the viewer's requests with their effective status.
func Evaluate(viewer session.Session, book core.Book, requests []core.BorrowRequest) Result {
	switch {
	case viewer.IsZero() || viewer.Email == "":
		return notEligible(ReasonNotSignedIn)

	case viewer.IsAdmin():
		return notEligible(ReasonAdmin)

	case !book.Available:
		return notEligible(ReasonBookUnavailable)
	}

	for _, request := range requests {
		if request.BookID == book.ID && request.BorrowerEmail == viewer.Email && request.Status.IsOpen() {
			return notEligible(ReasonAlreadyRequested)
		}
	}

	return Result{Eligible: true}
}

func notEligible(reason string) Result {
	return Result{Reason: reason}
}
