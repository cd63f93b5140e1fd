package reconcileavailability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

const (
	defaultClaimTTL = 2 * time.Minute

	failureInfoClaimExpired = "submission claim expired"

	logMsgDriftFound  = "book unavailable without accepted request"
	logMsgPassSummary = "reconciliation pass finished"
)

// ErrReconciliationIncomplete means some repairs failed, the report lists them. The next pass retries.
var ErrReconciliationIncomplete = errors.New("reconciliation incomplete")

type BookLister interface {
	ListBooks(ctx context.Context) ([]core.Book, error)
}

type RequestStore interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
	UpdateRequestStatus(ctx context.Context, id core.RequestIDString, status core.RequestStatus) error
}

// TransitionRunner applies the store writes of a journaled transition, shell.Saga implements it.
type TransitionRunner interface {
	Run(ctx context.Context, plan core.TransitionPlan, metadata shell.EventMetadata) error
}

type CommandHandler struct {
	journal  shell.EventStore
	books    BookLister
	requests RequestStore
	saga     TransitionRunner
	claimTTL time.Duration
	logger   shell.Logger
}

type Option func(*CommandHandler)

func WithClaimTTL(ttl time.Duration) Option {
	return func(h *CommandHandler) {
		h.claimTTL = ttl
	}
}

func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

func NewCommandHandler(
	journal shell.EventStore,
	books BookLister,
	requests RequestStore,
	saga TransitionRunner,
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		journal:  journal,
		books:    books,
		requests: requests,
		saga:     saga,
		claimTTL: defaultClaimTTL,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle runs one pass and returns the Report as output, also when some repairs failed.
// A repair that fails does not stop the others.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	report, err := h.reconcile(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)).WithOutput(report), err
	}

	if report.Repairs() == 0 {
		return shell.NewIdempotentResult(shell.SingleAttempt(nil)).WithOutput(report), nil
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(report), nil
}

func (h CommandHandler) reconcile(ctx context.Context, command Command) (Report, error) {
	report := newReport()

	envelopes, err := shell.LoadLifecycleEnvelopes(ctx, h.journal)
	if err != nil {
		return report, err
	}

	books, err := h.books.ListBooks(ctx)
	if err != nil {
		return report, err
	}

	requests, err := h.requests.ListRequests(ctx, mockapi.RequestFilter{})
	if err != nil {
		return report, err
	}

	actions := Plan(shell.DomainEventsOf(envelopes), books, requests, command.OccurredAt, h.claimTTL)

	var failures []error
	fail := func(what string, id string, err error) {
		failure := fmt.Errorf("%s %s: %w", what, id, err)
		failures = append(failures, failure)
		report.Failures = append(report.Failures, failure.Error())
	}

	for _, transition := range actions.Redrive {
		if err := h.saga.Run(ctx, transition.Plan, metadataOf(envelopes, transition.Event)); err != nil {
			fail("redriving transition of request", transition.Plan.RequestID, err)
			continue
		}
		report.RedrivenTransitions = append(report.RedrivenTransitions, transition.Plan.RequestID)
	}

	for _, request := range actions.StatusRepairs {
		if err := h.requests.UpdateRequestStatus(ctx, request.ID, request.Status); err != nil {
			fail("repairing status of request", request.ID, err)
			continue
		}
		report.RepairedStatuses = append(report.RepairedStatuses, request.ID)
	}

	for _, request := range actions.Flips {
		if err := h.flip(ctx, request, command.OccurredAt); err != nil {
			fail("marking unavailable book", request.BookID, err)
			continue
		}
		report.FlippedBooks = append(report.FlippedBooks, request.BookID)
	}

	for _, claim := range actions.StaleClaims {
		if err := h.closeClaim(ctx, claim, command.OccurredAt); err != nil {
			fail("closing submission claim", claim.SubmissionID, err)
			continue
		}
		report.ClosedClaims = append(report.ClosedClaims, claim.SubmissionID)
	}

	for _, book := range actions.Drift {
		report.DriftedBooks = append(report.DriftedBooks, book.ID)
		h.logWarn(logMsgDriftFound, shell.LogAttrBookID, book.ID)
	}

	h.logInfo(logMsgPassSummary, "repairs", report.Repairs(), "drifted", len(report.DriftedBooks), "failures", len(failures))

	if len(failures) > 0 {
		return report, errors.Join(append([]error{ErrReconciliationIncomplete}, failures...)...)
	}

	return report, nil
}

// flip journals the repair before running it, so an interrupted flip is redriven by the next pass.
func (h CommandHandler) flip(ctx context.Context, request core.BorrowRequest, now time.Time) error {
	event := core.BuildBookAvailabilityRepairScheduled(request.ID, request.BookID, false, now)
	metadata := shell.NewCommandMetadata()

	if err := shell.AppendToBookScope(ctx, h.journal, request.BookID, metadata, event); err != nil {
		return err
	}

	plan, _ := core.PlanFor(event)

	return h.saga.Run(ctx, plan, metadata)
}

func (h CommandHandler) closeClaim(ctx context.Context, claim core.SubmissionClaim, now time.Time) error {
	event := core.BuildSubmittingBorrowRequestFailed(
		claim.SubmissionID,
		claim.BookID,
		claim.BorrowerEmail,
		failureInfoClaimExpired,
		now,
	)

	return shell.AppendToBookScope(ctx, h.journal, claim.BookID, shell.NewCommandMetadata(), event)
}

// metadataOf finds the metadata of a journaled event, outcomes of a redrive are caused by it.
func metadataOf(envelopes shell.EventEnvelopes, event core.DomainEvent) shell.EventMetadata {
	for _, envelope := range envelopes {
		if envelope.DomainEvent == event {
			return envelope.EventMetadata
		}
	}

	return shell.NewCommandMetadata()
}

func (h CommandHandler) logInfo(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Info(msg, args...)
	}
}

func (h CommandHandler) logWarn(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}
