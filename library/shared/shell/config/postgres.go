package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql and sqlx
)

var ErrOpeningJournalDBFailed = errors.New("opening journal database failed")

// PGXPoolConfig builds the pool config of the pgx journal driver.
func (c JournalConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	dbConfig.MaxConns = int32(c.MaxConns) //nolint:gosec // bounded by validation
	dbConfig.MinConns = int32(c.MinConns) //nolint:gosec // bounded by validation
	dbConfig.MaxConnLifetime = c.MaxConnLifetime.Std()
	dbConfig.MaxConnIdleTime = c.MaxConnIdleTime.Std()
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout.Std()

	return dbConfig, nil
}

// OpenPGXPool connects and pings.
func (c JournalConfig) OpenPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	return pool, nil
}

// OpenSQLDB opens a database/sql handle through lib/pq and pings it.
func (c JournalConfig) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	c.applyPoolSettings(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	return db, nil
}

// OpenSQLX opens a sqlx handle through lib/pq and pings it.
func (c JournalConfig) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningJournalDBFailed, err)
	}

	c.applyPoolSettings(db.DB)

	return db, nil
}

func (c JournalConfig) applyPoolSettings(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxConns)
	db.SetMaxIdleConns(c.MinConns)
	db.SetConnMaxLifetime(c.MaxConnLifetime.Std())
	db.SetConnMaxIdleTime(c.MaxConnIdleTime.Std())
}
