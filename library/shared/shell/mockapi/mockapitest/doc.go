// Package mockapitest is an in-memory stand-in for the books, accounts and requests
// resources. Tests start it with Start, the borrowdesk mockapi command serves it
// on a port.
//
// It reproduces the quirks the clients have to cope with: filtered listings match
// query parameters as substrings and answer 404 instead of an empty list. FailNext
// injects 503 answers to exercise retries and compensation.
package mockapitest
