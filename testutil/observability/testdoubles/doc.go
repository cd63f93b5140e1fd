// Package testdoubles has spies for the observability interfaces of the journal and the command handlers.
//
// Every spy is safe for concurrent use and only records when constructed with recordCalls=true.
package testdoubles
