// Package shell is the imperative shell around the functional core of the borrow desk.
//
// It maps domain events to and from the journal's storable events, retries
// conditional appends on concurrency conflicts, runs the two-step store writes
// of a lifecycle transition as a saga, and carries the observability helpers
// that the command and query wrappers use.
package shell
