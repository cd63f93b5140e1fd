// Package adapters hides the differences between pgx, database/sql and sqlx
// behind the two calls the postgres engine needs: Query and Exec.
package adapters
