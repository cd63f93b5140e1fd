package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when the max sequence number of the filtered stream moved.
	ErrConcurrencyConflict = errors.New("concurrency conflict, the event stream was modified concurrently")

	ErrEmptyEventsTableName        = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection       = errors.New("nil database connection supplied")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrScanningDBRowFailed         = errors.New("scanning the database row failed")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrBuildingStorableEventFailed = errors.New("building the storable event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrEnsuringSchemaFailed        = errors.New("ensuring the events schema failed")
	ErrNoEventsToAppend            = errors.New("no events to append")
)

// MaxSequenceNumberUint is the highest sequence number found for a dynamic event stream.
type MaxSequenceNumberUint = uint
