// Package returnborrowedbook implements a borrower returning the book of an accepted request.
//
// The request status is written first, then the book is marked available again.
package returnborrowedbook
