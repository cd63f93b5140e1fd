package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "borrow_lifecycle_events"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"

	cteContext      = "context"
	cteVals         = "vals"
	dialectPostgres = "postgres"
	aliasMaxSeq     = "max_seq"
	castText        = "?::text"
	castTimestamp   = "?::timestamp with time zone"
	castJsonb       = "?::jsonb"
	containsJsonb   = "payload @> ?::jsonb"
)

// EventStore is the postgres engine of the lifecycle journal.
// It works on top of a pgx pool, a database/sql handle or a sqlx handle.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql handle, typically opened with lib/pq.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx handle.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// TableName returns the configured events table.
func (es *EventStore) TableName() string {
	return es.eventTableName
}

// Query returns the events matching the filter in sequence order,
// together with the max sequence number of this dynamic event stream.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, span := es.startSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, err)
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeBuildQuery})

		return nil, 0, err
	}

	start := time.Now()
	rows, err := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logSQL(ctx, operationQuery, sqlQuery, duration)

	if err != nil {
		es.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		es.recordError(ctx, operationQuery, errorTypeDatabase)
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	events, maxSequenceNumber, err := es.scanEvents(ctx, rows)
	if err != nil {
		es.recordError(ctx, operationQuery, errorTypeScan)
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeScan})

		return nil, 0, err
	}

	es.recordDuration(ctx, metricQueryDuration, operationQuery, duration)
	es.recordValue(ctx, metricEventsQueried, operationQuery, float64(len(events)))
	es.logOperation(ctx, logMsgQueryCompleted, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(duration))
	es.finishSpan(span, statusSuccess, map[string]string{spanAttrEventCount: itoa(len(events)), spanAttrMaxSequence: utoa(maxSequenceNumber)})

	return events, maxSequenceNumber, nil
}

func (es *EventStore) scanEvents(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var (
		eventType      string
		occurredAt     time.Time
		payload        []byte
		metadata       []byte
		sequenceNumber int64
	)

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); err != nil {
			es.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
		if err != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, err, logAttrEventType, eventType)

			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
		events = append(events, event.WithSequenceNumber(maxSequenceNumber))
	}

	return events, maxSequenceNumber, nil
}

// Append writes the events only if the max sequence number of the filtered stream
// still equals expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
// Pass the same filter that was used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if len(storableEvents) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	ctx, span := es.startSpan(ctx, spanNameAppend, map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  itoa(len(storableEvents)),
		spanAttrExpectedSeq: utoa(expectedMaxSequenceNumber),
		spanAttrEventType:   storableEvents[0].EventType,
	})

	sqlQuery, err := es.buildInsertQuery(storableEvents, filter, expectedMaxSequenceNumber)
	if err != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, err, logAttrEventCount, len(storableEvents))
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeBuildQuery})

		return err
	}

	start := time.Now()
	result, err := es.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	es.logSQL(ctx, operationAppend, sqlQuery, duration)

	if err != nil {
		es.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		es.recordError(ctx, operationAppend, errorTypeDatabase)
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, err)
		es.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < int64(len(storableEvents)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(storableEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		es.recordCounter(ctx, metricConcurrencyConflicts, operationAppend)
		es.finishSpan(span, statusConflict, map[string]string{spanAttrErrorType: errorTypeConcurrencyConflict})

		return eventstore.ErrConcurrencyConflict
	}

	es.recordDuration(ctx, metricAppendDuration, operationAppend, duration)
	es.recordValue(ctx, metricEventsAppended, operationAppend, float64(len(storableEvents)))
	es.logOperation(ctx, logMsgEventsAppended, logAttrEventCount, len(storableEvents), logAttrDurationMS, toMilliseconds(duration))
	es.finishSpan(span, statusSuccess, map[string]string{spanAttrRowsAffected: itoa(int(rowsAffected))})

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := es.withWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	sqlQuery, _, err := selectStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds one INSERT ... SELECT guarded by the max sequence number CTE.
// Multiple events are selected from a UNION ALL so they are appended atomically.
func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt, err := es.withWhereClause(filter, cteStmt)
	if err != nil {
		return "", err
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		row := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = row
			continue
		}

		valuesStmt = valuesStmt.UnionAll(row)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (es *EventStore) withWhereClause(filter eventstore.Filter, stmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	itemExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpression := goqu.And()

		if len(item.EventTypes()) > 0 {
			eventTypes := make([]any, 0, len(item.EventTypes()))
			for _, eventType := range item.EventTypes() {
				eventTypes = append(eventTypes, eventType)
			}

			itemExpression = itemExpression.Append(goqu.C(colEventType).In(eventTypes...))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions, err := predicateExpressionsFor(item)
			if err != nil {
				return nil, err
			}

			if item.AllPredicatesMustMatch() {
				itemExpression = itemExpression.Append(goqu.And(predicateExpressions...))
			} else {
				itemExpression = itemExpression.Append(goqu.Or(predicateExpressions...))
			}
		}

		itemExpressions = append(itemExpressions, itemExpression)
	}

	whereExpression := goqu.And()

	if len(itemExpressions) > 0 {
		whereExpression = whereExpression.Append(goqu.Or(itemExpressions...))
	}

	if !filter.OccurredFrom().IsZero() {
		whereExpression = whereExpression.Append(goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		whereExpression = whereExpression.Append(goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	if whereExpression.IsEmpty() {
		return stmt, nil
	}

	return stmt.Where(whereExpression), nil
}

// predicateExpressionsFor renders each predicate as a jsonb containment check.
// The JSON document is passed as a literal so goqu escapes it.
func predicateExpressionsFor(item eventstore.FilterItem) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0, len(item.Predicates()))

	for _, predicate := range item.Predicates() {
		document, err := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
		if err != nil {
			return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
		}

		expressions = append(expressions, goqu.L(containsJsonb, document))
	}

	return expressions, nil
}
