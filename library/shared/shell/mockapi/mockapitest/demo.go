package mockapitest

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// WithDemoData seeds a small catalog and one admin account (admin@library.local / admin).
func WithDemoData() Option {
	return func(s *Server) {
		for _, book := range demoBooks() {
			s.AddBook(book)
		}

		s.AddAccount(core.Account{
			Username:  "admin",
			Email:     "admin@library.local",
			Password:  "admin",
			Role:      core.RoleAdmin,
			CreatedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		})
	}
}

func demoBooks() []core.Book {
	return []core.Book{
		{
			Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Category: core.CategoryFiction,
			Available: true, IsPopular: true,
			Cover: "https://covers.openlibrary.org/b/isbn/9780441478125-L.jpg",
		},
		{
			Title: "A Brief History of Time", Author: "Stephen Hawking", Category: core.CategoryScience,
			Available: true, IsPopular: true,
			Cover: "https://covers.openlibrary.org/b/isbn/9780553380163-L.jpg",
		},
		{
			Title: "The Guns of August", Author: "Barbara W. Tuchman", Category: core.CategoryHistory,
			Available: true,
			Cover:     "https://covers.openlibrary.org/b/isbn/9780345476098-L.jpg",
		},
		{
			Title: "The Go Programming Language", Author: "Alan Donovan", Category: core.CategoryTechnology,
			Available: true, IsNew: true,
			Cover: "https://covers.openlibrary.org/b/isbn/9780134190440-L.jpg",
		},
		{
			Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Category: core.CategoryNonFiction,
			Available: true, IsNew: true,
			Cover: "https://covers.openlibrary.org/b/isbn/9780374533557-L.jpg",
		},
	}
}
