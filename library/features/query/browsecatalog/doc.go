// Package browsecatalog implements browsing and filtering the catalog.
//
// Filtering is a pure function over the listed books. The handler marks the books the
// viewer currently holds a pending or accepted request for, which is what hides the
// borrow action for them.
package browsecatalog
