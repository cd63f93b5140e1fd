// Package submitborrowrequest implements asking to borrow a book.
//
// At most one pending or accepted request exists per book. The requests resource
// cannot enforce that, so the desk does: a fresh scan of the book's requests, the
// unfinished submission claims in the journal, and the conditional append of the
// claim on the book scope, which serializes racing submitters.
//
// The book's availability is not touched, that happens when an admin accepts.
package submitborrowrequest
