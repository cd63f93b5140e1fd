// Package borrowrequests lists borrow requests, newest first.
//
// Admins see all requests, optionally narrowed to one status. Borrowers see their own.
// Statuses are the effective ones: a transition the journal recorded wins over a store
// record the saga has not updated yet.
package borrowrequests
