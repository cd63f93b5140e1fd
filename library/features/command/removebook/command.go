// Package removebook implements an admin deleting a book from the catalog.
//
// A book that a pending or accepted request refers to stays, so does a book with a
// submission in flight.
package removebook

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "RemoveBook"
)

type Command struct {
	BookID core.BookIDString `validate:"notblank"`
	Actor  session.Session
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID core.BookIDString, actor session.Session) Command {
	return Command{BookID: bookID, Actor: actor}
}
