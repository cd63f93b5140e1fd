// Package addbook implements an admin adding a book to the catalog.
package addbook

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "AddBook"
)

// Command carries the admin form of a new book. The book starts out available.
type Command struct {
	Title       string
	Author      string
	Category    string
	Cover       string
	Description string
	IsNew       bool
	IsPopular   bool
	Actor       session.Session
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(title, author, category, cover, description string, isNew, isPopular bool, actor session.Session) Command {
	return Command{
		Title:       title,
		Author:      author,
		Category:    category,
		Cover:       cover,
		Description: description,
		IsNew:       isNew,
		IsPopular:   isPopular,
		Actor:       actor,
	}
}

// Book is the record to create.
func (c Command) Book() core.Book {
	return core.Book{
		Title:       c.Title,
		Author:      c.Author,
		Category:    c.Category,
		Available:   true,
		IsNew:       c.IsNew,
		IsPopular:   c.IsPopular,
		Cover:       c.Cover,
		Description: c.Description,
	}
}
