// Package editbook implements an admin changing catalog fields of a book.
//
// The patch is applied to the current record and the merged book has to pass the same
// rules as a new one before the patch is sent.
package editbook

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "EditBook"
)

type Command struct {
	BookID core.BookIDString `validate:"notblank"`
	Patch  core.BookPatch
	Actor  session.Session
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID core.BookIDString, patch core.BookPatch, actor session.Session) Command {
	return Command{
		BookID: bookID,
		Patch:  patch,
		Actor:  actor,
	}
}
