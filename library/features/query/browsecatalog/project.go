package browsecatalog

import (
	"strings"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Filter narrows the catalog. All set conditions must hold.
type Filter struct {
	// Category "" or "all" matches any category.
	Category string `query:"category"`

	// Query matches a case-insensitive substring of the title or the author.
	Query string `query:"q"`

	AvailableOnly bool `query:"available"`
	PopularOnly   bool `query:"popular"`
	NewOnly       bool `query:"new"`
}

// Apply returns the books matching the filter, keeping their order.
func Apply(books []core.Book, filter Filter) []core.Book {
	matching := make([]core.Book, 0, len(books))
	needle := strings.ToLower(filter.Query)

	for _, book := range books {
		if filter.matches(book, needle) {
			matching = append(matching, book)
		}
	}

	return matching
}

func (f Filter) matches(book core.Book, needle string) bool {
	if f.Category != "" && f.Category != core.CategoryAll && book.Category != f.Category {
		return false
	}

	if needle != "" &&
		!strings.Contains(strings.ToLower(book.Title), needle) &&
		!strings.Contains(strings.ToLower(book.Author), needle) {
		return false
	}

	if f.AvailableOnly && !book.Available {
		return false
	}

	if f.PopularOnly && !book.IsPopular {
		return false
	}

	if f.NewOnly && !book.IsNew {
		return false
	}

	return true
}

// Project marks the books the open requests refer to.
func Project(books []core.Book, openRequests []core.BorrowRequest) Catalog {
	held := make(map[core.BookIDString]bool, len(openRequests))
	for _, request := range openRequests {
		if request.Status.IsOpen() {
			held[request.BookID] = true
		}
	}

	entries := make([]Entry, 0, len(books))
	for _, book := range books {
		entries = append(entries, Entry{Book: book, BorrowedByYou: held[book.ID]})
	}

	return Catalog{Entries: entries, Count: len(entries)}
}
