package borrowrequests

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	queryType = "BorrowRequests"
)

type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine"
)

type Query struct {
	Scope  Scope
	Status core.RequestStatus
	Viewer session.Session
}

// AllRequests is the admin listing. An empty status lists every status.
func AllRequests(status core.RequestStatus, viewer session.Session) Query {
	return Query{Scope: ScopeAll, Status: status, Viewer: viewer}
}

// MyRequests is the borrower listing.
func MyRequests(viewer session.Session) Query {
	return Query{Scope: ScopeMine, Viewer: viewer}
}

func (q Query) QueryType() string {
	return queryType
}
