package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
)

var ErrInvalidTableName = errors.New("table name must be a lower case sql identifier")

// EnsureSchema creates the events table and its indexes if they do not exist yet.
// It is safe to call on every start.
func (es *EventStore) EnsureSchema(ctx context.Context) error {
	table := es.eventTableName

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	append_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_event_type_idx ON %s (event_type)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_occurred_at_idx ON %s (occurred_at)`, table, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_payload_idx ON %s USING gin (payload jsonb_path_ops)`, table, table),
	}

	for _, statement := range statements {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgSchemaFailed, err, logAttrTable, table)
			es.recordError(ctx, operationSchema, errorTypeDatabase)

			return errors.Join(eventstore.ErrEnsuringSchemaFailed, err)
		}
	}

	es.logOperation(ctx, logMsgSchemaEnsured, logAttrTable, table)

	return nil
}
