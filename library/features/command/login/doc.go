// Package login implements signing in against the accounts resource.
//
// The account list is fetched and scanned, the first exact email match with a
// matching password wins. The session is replaced as a whole, subscribers of the
// session manager are notified.
package login
