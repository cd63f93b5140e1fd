// Package postgresengine is the PostgreSQL engine of the lifecycle journal.
//
// Queries are built with goqu. A conditional append is a single INSERT ... SELECT
// whose SELECT only yields rows while the max sequence number of the filtered
// stream still has the expected value, so a concurrent writer makes it affect
// zero rows, which is reported as eventstore.ErrConcurrencyConflict.
//
// Three connection types are supported: a pgx pool, database/sql (with lib/pq)
// and sqlx.
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("borrow_lifecycle_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.EnsureSchema(ctx)
package postgresengine
