package shell

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	sagaStepStatus       = "status"
	sagaStepAvailability = "availability"
	sagaStepCompensation = "compensation"
	sagaStepCompletion   = "completion"

	logMsgSagaStepFailed        = "saga step failed"
	logMsgSagaCompensated       = "saga compensated"
	logMsgSagaIncomplete        = "saga left incomplete"
	logMsgSagaCompletionMissing = "saga completion could not be journaled"
)

// TransitionWriter performs the store writes of a lifecycle transition.
type TransitionWriter interface {
	UpdateRequestStatus(ctx context.Context, requestID core.RequestIDString, status core.RequestStatus) error
	SetBookAvailability(ctx context.Context, bookID core.BookIDString, available bool) error
}

// Saga applies a core.TransitionPlan to the stores: the status write first, then the availability write.
//
// Each write is retried on core.ErrNetworkFailure. When the availability write stays
// failed, the status write is undone and BorrowTransitionCompensated is journaled.
// When that fails too, the transition stays open in the journal for reconciliation.
type Saga struct {
	writer           TransitionWriter
	journal          EventStore
	retryOptions     []RetryOption
	now              func() time.Time
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
}

type SagaOption func(*Saga)

// WithSagaRetryOptions tunes the backoff of the store writes.
// The retryable error set is always core.ErrNetworkFailure.
func WithSagaRetryOptions(opts ...RetryOption) SagaOption {
	return func(s *Saga) {
		s.retryOptions = opts
	}
}

func WithSagaClock(now func() time.Time) SagaOption {
	return func(s *Saga) {
		s.now = now
	}
}

func WithSagaLogger(logger Logger) SagaOption {
	return func(s *Saga) {
		s.logger = logger
	}
}

func WithSagaContextualLogger(logger ContextualLogger) SagaOption {
	return func(s *Saga) {
		s.contextualLogger = logger
	}
}

func WithSagaMetrics(collector MetricsCollector) SagaOption {
	return func(s *Saga) {
		s.metricsCollector = collector
	}
}

func NewSaga(writer TransitionWriter, journal EventStore, opts ...SagaOption) Saga {
	saga := Saga{
		writer:  writer,
		journal: journal,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(&saga)
	}

	return saga
}

// Run executes the plan. metadata is the metadata of the journaled transition event,
// the outcome events are caused by it.
func (s Saga) Run(ctx context.Context, plan core.TransitionPlan, metadata EventMetadata) error {
	kind := transitionKind(plan)

	if plan.WritesStatus() {
		if err := s.withRetry(ctx, func(ctx context.Context) error {
			return s.writer.UpdateRequestStatus(ctx, plan.RequestID, plan.StatusTo)
		}); err != nil {
			s.logStepFailed(ctx, plan, sagaStepStatus, err)

			return s.compensated(ctx, plan, metadata, err)
		}
	}

	if !plan.SetsAvailability {
		RecordSagaOutcome(ctx, s.metricsCollector, kind, StatusSuccess)
		return nil
	}

	availabilityErr := s.withRetry(ctx, func(ctx context.Context) error {
		return s.writer.SetBookAvailability(ctx, plan.BookID, plan.Available)
	})

	if availabilityErr != nil {
		s.logStepFailed(ctx, plan, sagaStepAvailability, availabilityErr)

		if !plan.WritesStatus() {
			return s.incomplete(ctx, plan, availabilityErr)
		}

		compensationErr := s.withRetry(ctx, func(ctx context.Context) error {
			return s.writer.UpdateRequestStatus(ctx, plan.RequestID, plan.StatusFrom)
		})

		if compensationErr != nil {
			s.logStepFailed(ctx, plan, sagaStepCompensation, compensationErr)
			return s.incomplete(ctx, plan, errors.Join(availabilityErr, compensationErr))
		}

		return s.compensated(ctx, plan, metadata, availabilityErr)
	}

	completed := core.BuildBookAvailabilityChanged(plan.RequestID, plan.BookID, plan.Available, s.now())
	if err := AppendToBookScope(ctx, s.journal, plan.BookID, metadata.Next(), completed); err != nil {
		// the stores are consistent, reconciliation only finds a redundant write to repeat
		s.logStepFailed(ctx, plan, sagaStepCompletion, err)
		logWarn(ctx, s.logger, s.contextualLogger, logMsgSagaCompletionMissing, LogAttrRequestID, plan.RequestID)
	}

	RecordSagaOutcome(ctx, s.metricsCollector, kind, StatusSuccess)

	return nil
}

// compensated journals that the request is back at plan.StatusFrom.
func (s Saga) compensated(ctx context.Context, plan core.TransitionPlan, metadata EventMetadata, cause error) error {
	if !plan.WritesStatus() {
		return s.incomplete(ctx, plan, cause)
	}

	event := core.BuildBorrowTransitionCompensated(plan.RequestID, plan.BookID, plan.StatusFrom, cause.Error(), s.now())
	if err := AppendToBookScope(ctx, s.journal, plan.BookID, metadata.Next(), event); err != nil {
		return s.incomplete(ctx, plan, errors.Join(cause, err))
	}

	logWarn(ctx, s.logger, s.contextualLogger, logMsgSagaCompensated,
		LogAttrRequestID, plan.RequestID,
		LogAttrBookID, plan.BookID,
		LogAttrError, cause.Error(),
	)
	RecordSagaOutcome(ctx, s.metricsCollector, transitionKind(plan), StatusCompensated)

	return errors.Join(core.ErrTransitionRolledBack, cause)
}

func (s Saga) incomplete(ctx context.Context, plan core.TransitionPlan, cause error) error {
	logError(ctx, s.logger, s.contextualLogger, logMsgSagaIncomplete,
		LogAttrRequestID, plan.RequestID,
		LogAttrBookID, plan.BookID,
		LogAttrError, cause.Error(),
	)
	RecordSagaOutcome(ctx, s.metricsCollector, transitionKind(plan), StatusIncomplete)

	return errors.Join(core.ErrTransitionIncomplete, cause)
}

func (s Saga) withRetry(ctx context.Context, fn RetryableFunc) error {
	opts := append([]RetryOption{}, s.retryOptions...)
	opts = append(opts, WithRetryableErrors(core.ErrNetworkFailure))

	_, err := RetryWithExponentialBackoff(ctx, fn, opts...)

	return err
}

func (s Saga) logStepFailed(ctx context.Context, plan core.TransitionPlan, step string, err error) {
	logWarn(ctx, s.logger, s.contextualLogger, logMsgSagaStepFailed,
		LogAttrStep, step,
		LogAttrRequestID, plan.RequestID,
		LogAttrBookID, plan.BookID,
		LogAttrError, err.Error(),
	)
}

func transitionKind(plan core.TransitionPlan) string {
	if plan.WritesStatus() {
		return "transition_" + string(plan.StatusTo)
	}

	return "availability_repair"
}
