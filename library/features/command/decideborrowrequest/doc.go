// Package decideborrowrequest implements an admin accepting or rejecting a pending borrow request.
//
// Accepting writes the request status and then marks the book unavailable, rejecting
// only writes the status. Both writes go through shell.Saga.
package decideborrowrequest
