// Package config loads the borrow desk configuration.
//
// Values are resolved in three layers: built-in defaults, then an optional
// JSON file, then BORROWDESK_* environment variables. The result is
// validated with struct tags before it is handed out.
//
// The package also builds the journal's database handles (pgx pool,
// database/sql with lib/pq, sqlx) from the journal section.
package config
