// Package bookdetails shows one book together with whether the viewer may borrow it.
package bookdetails

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	queryType = "BookDetails"
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

type Details struct {
	Book        core.Book                `json:"book"`
	Eligibility borroweligibility.Result `json:"eligibility"`
}
