// Package coversuggestion proposes a cover URL for the admin book form.
//
// A missing hit and a failed lookup both give the empty suggestion, the admin then
// enters a cover by hand.
package coversuggestion

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	queryType = "CoverSuggestion"
)

type Query struct {
	Title  string `validate:"notblank"`
	Author string `validate:"notblank"`
	Viewer session.Session
}

func BuildQuery(title, author string, viewer session.Session) Query {
	return Query{Title: title, Author: author, Viewer: viewer}
}

func (q Query) QueryType() string {
	return queryType
}

// Suggestion is empty when nothing was found.
type Suggestion struct {
	Cover string `json:"cover"`
}
