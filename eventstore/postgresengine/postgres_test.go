package postgresengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-borrow-desk/testutil/observability/testdoubles"
)

const envTestDSN = "BORROWDESK_TEST_POSTGRES_DSN"

var fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)

type engineFactory struct {
	name string
	open func(t *testing.T, dsn string, opts ...postgresengine.Option) *postgresengine.EventStore
}

func engineFactories() []engineFactory {
	return []engineFactory{
		{
			name: "pgx",
			open: func(t *testing.T, dsn string, opts ...postgresengine.Option) *postgresengine.EventStore {
				pool, err := pgxpool.New(context.Background(), dsn)
				require.NoError(t, err)
				t.Cleanup(pool.Close)

				es, err := postgresengine.NewEventStoreFromPGXPool(pool, opts...)
				require.NoError(t, err)

				return es
			},
		},
		{
			name: "database/sql",
			open: func(t *testing.T, dsn string, opts ...postgresengine.Option) *postgresengine.EventStore {
				db, err := sql.Open("postgres", dsn)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				es, err := postgresengine.NewEventStoreFromSQLDB(db, opts...)
				require.NoError(t, err)

				return es
			},
		},
		{
			name: "sqlx",
			open: func(t *testing.T, dsn string, opts ...postgresengine.Option) *postgresengine.EventStore {
				db, err := sqlx.Open("postgres", dsn)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				es, err := postgresengine.NewEventStoreFromSQLX(db, opts...)
				require.NoError(t, err)

				return es
			},
		},
	}
}

func givenDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envTestDSN)
	}

	return dsn
}

// givenFreshTable creates a uniquely named events table and drops it after the test.
func givenFreshTable(t *testing.T, dsn string) string {
	t.Helper()

	table := "events_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
		pool.Close()
	})

	return table
}

func givenEngine(t *testing.T, factory engineFactory, opts ...postgresengine.Option) *postgresengine.EventStore {
	t.Helper()

	dsn := givenDSN(t)
	table := givenFreshTable(t, dsn)

	es := factory.open(t, dsn, append([]postgresengine.Option{postgresengine.WithTableName(table)}, opts...)...)
	require.NoError(t, es.EnsureSchema(context.Background()))

	return es
}

func filterForBook(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("bookId", bookID)).
		Finalize()
}

func givenEventForBook(t *testing.T, eventType, bookID string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(
		eventType,
		occurredAt,
		[]byte(fmt.Sprintf(`{"bookId":%q}`, bookID)),
		[]byte(`{"messageId":"m-1"}`),
	)
	require.NoError(t, err)

	return event
}

func Test_NewEventStore_Error_WhenTableNameIsInvalid(t *testing.T) {
	testCases := []struct {
		name      string
		tableName string
		wantErr   error
	}{
		{name: "empty", tableName: "", wantErr: eventstore.ErrEmptyEventsTableName},
		{name: "upper case", tableName: "Events", wantErr: postgresengine.ErrInvalidTableName},
		{name: "injection", tableName: "events; drop table x", wantErr: postgresengine.ErrInvalidTableName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := postgresengine.NewEventStoreFromSQLDB(&sql.DB{}, postgresengine.WithTableName(tc.tableName))

			// assert
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func Test_NewEventStore_Error_WhenConnectionIsNil(t *testing.T) {
	// act
	_, err := postgresengine.NewEventStoreFromPGXPool(nil)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)
}

func Test_EnsureSchema_IsRepeatable(t *testing.T) {
	for _, factory := range engineFactories() {
		t.Run(factory.name, func(t *testing.T) {
			// arrange
			es := givenEngine(t, factory)

			// act
			err := es.EnsureSchema(context.Background())

			// assert
			assert.NoError(t, err)
		})
	}
}

func Test_AppendAndQuery(t *testing.T) {
	for _, factory := range engineFactories() {
		t.Run(factory.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es := givenEngine(t, factory)
			require.NoError(t, es.Append(ctx, filterForBook("2"), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "2", fakeClock)))

			// act
			err := es.Append(ctx, filterForBook("1"), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock),
				givenEventForBook(t, "BorrowRequestAccepted", "1", fakeClock.Add(time.Minute)),
			)

			// assert
			require.NoError(t, err)

			events, maxSequenceNumber, err := es.Query(ctx, filterForBook("1"))
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, "BorrowRequestSubmitted", events[0].EventType)
			assert.Equal(t, "BorrowRequestAccepted", events[1].EventType)
			assert.True(t, fakeClock.Equal(events[0].OccurredAt))
			assert.JSONEq(t, `{"messageId":"m-1"}`, string(events[0].MetadataJSON))
			assert.Equal(t, events[1].SequenceNumber, maxSequenceNumber)
		})
	}
}

func Test_Query_WithEventTypesAndTimeBounds(t *testing.T) {
	for _, factory := range engineFactories() {
		t.Run(factory.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es := givenEngine(t, factory)
			require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock),
				givenEventForBook(t, "BorrowRequestAccepted", "1", fakeClock.Add(time.Hour)),
				givenEventForBook(t, "BorrowRequestAccepted", "2", fakeClock.Add(2*time.Hour)),
			))

			filter := eventstore.BuildEventFilter().
				OccurredFrom(fakeClock.Add(time.Minute)).
				Matching().
				AnyEventTypeOf("BorrowRequestAccepted").
				AndAllPredicatesOf(eventstore.P("bookId", "1")).
				Finalize()

			// act
			events, _, err := es.Query(ctx, filter)

			// assert
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, "BorrowRequestAccepted", events[0].EventType)
			assert.JSONEq(t, `{"bookId":"1"}`, string(events[0].PayloadJSON))
		})
	}
}

func Test_Append_Error_WhenStreamMoved(t *testing.T) {
	for _, factory := range engineFactories() {
		t.Run(factory.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es := givenEngine(t, factory)
			require.NoError(t, es.Append(ctx, filterForBook("1"), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock)))

			// act
			err := es.Append(ctx, filterForBook("1"), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock))

			// assert
			assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		})
	}
}

func Test_Append_Concurrent_OnlyOneWriterWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEngine(t, engineFactories()[0])

	const writers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	// act
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := es.Append(ctx, filterForBook("1"), 0,
				givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 1, succeeded)

	events, _, err := es.Query(ctx, filterForBook("1"))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func Test_Query_Error_WhenContextIsCanceled(t *testing.T) {
	// arrange
	es := givenEngine(t, engineFactories()[0])
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, _, err := es.Query(ctx, filterForBook("1"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
}

func Test_Observability_IsReported(t *testing.T) {
	// arrange
	ctx := context.Background()
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	tracing := testdoubles.NewTracingCollectorSpy(true)

	es := givenEngine(t, engineFactories()[0],
		postgresengine.WithContextualLogger(logger),
		postgresengine.WithMetrics(metrics),
		postgresengine.WithTracing(tracing),
	)

	// act
	require.NoError(t, es.Append(ctx, filterForBook("1"), 0,
		givenEventForBook(t, "BorrowRequestSubmitted", "1", fakeClock)))
	_, _, err := es.Query(ctx, filterForBook("1"))

	// assert
	require.NoError(t, err)
	assert.NotEmpty(t, logger.GetRecords())
	assert.NotEmpty(t, metrics.GetDurationRecords())
	assert.NotEmpty(t, tracing.GetSpanRecords())
}
