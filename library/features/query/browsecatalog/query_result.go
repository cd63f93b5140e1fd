package browsecatalog

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Entry is a book as the viewer sees it in the catalog.
type Entry struct {
	core.Book
	BorrowedByYou bool `json:"borrowedByYou"`
}

// Catalog is the filtered catalog in the order of the books resource.
type Catalog struct {
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
}
