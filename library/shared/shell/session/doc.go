// Package session holds who is signed in.
//
// A Manager keeps the current Session, persists it in a Store and notifies
// subscribers when it changes. The CLI persists into a SQLiteStore in the user
// config dir, tests use a MemoryStore. The token of a session comes from a
// TokenIssuer: a fixed placeholder by default, a signed JWT for the HTTP API.
package session
