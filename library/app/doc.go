// Package app wires the desk together: it opens the stores, the journal and the
// session from a config.Config and builds the observable feature handlers on top.
// The CLI and the HTTP server both start from here.
package app
