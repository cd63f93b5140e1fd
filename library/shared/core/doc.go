// Package core holds the borrow desk domain: the records kept in the external
// stores (Book, Account, BorrowRequest), the lifecycle events written to the
// journal, the decision result returned by pure Decide functions and the error
// taxonomy every layer reports with.
package core
