// Package mockapi holds the clients of the three third-party REST resources the desk works on:
// books, accounts and borrow requests.
//
// Every failure to reach a resource, every 5xx and every undecodable body is
// reported as core.ErrNetworkFailure. A 404 on a single record is reported as
// the record's not-found error. MockAPI-style stores answer 404 to a filtered
// listing without hits, which is read as an empty list.
package mockapi
