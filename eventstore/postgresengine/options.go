package postgresengine

import (
	"regexp"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
)

type (
	Logger           = eventstore.Logger
	ContextualLogger = eventstore.ContextualLogger
	MetricsCollector = eventstore.MetricsCollector
	TracingCollector = eventstore.TracingCollector
	SpanContext      = eventstore.SpanContext
)

var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Option configures an EventStore.
type Option func(*EventStore) error

// WithTableName sets the events table. Only lower case identifiers are accepted
// because the name ends up in DDL.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		if !validTableName.MatchString(tableName) {
			return ErrInvalidTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger.
//
// Debug: SQL with timing. Info: event counts, durations, concurrency conflicts.
// Warn: cleanup failures. Error: failed operations.
func WithLogger(logger Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, it takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}
