// Package borroweligibility answers whether the viewer may ask to borrow a book.
//
// The answer is advisory. Submitting a borrow request checks again.
package borroweligibility

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	queryType = "BorrowEligibility"
)

type Query struct {
	BookID core.BookIDString
	Viewer session.Session
}

func BuildQuery(bookID core.BookIDString, viewer session.Session) Query {
	return Query{BookID: bookID, Viewer: viewer}
}

func (q Query) QueryType() string {
	return queryType
}
