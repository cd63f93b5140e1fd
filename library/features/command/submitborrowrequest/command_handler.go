package submitborrowrequest

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

const (
	defaultClaimTTL = 2 * time.Minute

	logMsgFilingNotJournaled = "borrow request filed but not journaled"
)

// BookReader is what the CommandHandler needs from the books resource.
type BookReader interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
}

// RequestStore is what the CommandHandler needs from the requests resource.
type RequestStore interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
	CreateRequest(ctx context.Context, request core.BorrowRequest) (core.BorrowRequest, error)
}

// CommandHandler runs Query -> Read -> Decide -> Append with retry, then files the request.
//
// The claim is appended conditionally on the book scope of the journal, so of two racing
// submitters one gets a concurrency conflict, retries, and then sees the other's claim.
type CommandHandler struct {
	journal      shell.EventStore
	books        BookReader
	requests     RequestStore
	claimTTL     time.Duration
	now          func() time.Time
	logger       shell.Logger
	retryOptions []shell.RetryOption
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithClaimTTL sets after how long an unfinished claim no longer blocks the book.
func WithClaimTTL(ttl time.Duration) Option {
	return func(h *CommandHandler) {
		h.claimTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *CommandHandler) {
		h.now = now
	}
}

func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

func NewCommandHandler(journal shell.EventStore, books BookReader, requests RequestStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		journal:  journal,
		books:    books,
		requests: requests,
		claimTTL: defaultClaimTTL,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the created request as output, or the borrower's existing open request
// when the result is idempotent.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := shell.ValidateStruct(command); err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	var (
		book     core.Book
		existing core.BorrowRequest
		metadata shell.EventMetadata
		result   core.DecisionResult
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		history, err := shell.LoadBookHistory(ctx, h.journal, command.BookID)
		if err != nil {
			return err
		}

		book, err = h.books.GetBook(ctx, command.BookID)
		if err != nil {
			return err
		}

		requests, err := h.requests.ListRequests(ctx, mockapi.RequestFilter{BookID: command.BookID})
		if err != nil {
			return err
		}

		result = Decide(history.Events(), book, requests, command, h.now(), h.claimTTL)

		if result.IsIdempotent() {
			existing, _ = OpenRequestOf(history.Events(), requests, command.BookID, command.BorrowerEmail)
			return nil
		}

		metadata = shell.NewCommandMetadata()
		if err := shell.AppendToHistory(ctx, h.journal, history, metadata, result.Event); err != nil {
			return err
		}

		return result.HasError()
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if result.IsIdempotent() {
		return shell.NewIdempotentResult(retryMetrics).WithOutput(existing), nil
	}

	created, err := h.file(ctx, command, book, metadata)
	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics).WithOutput(created), nil
}

// file creates the pending request and closes the claim with Filed, or with Failed if the create failed.
func (h CommandHandler) file(
	ctx context.Context,
	command Command,
	book core.Book,
	metadata shell.EventMetadata,
) (core.BorrowRequest, error) {

	created, err := h.requests.CreateRequest(ctx, core.BorrowRequest{
		BookID:        command.BookID,
		BookTitle:     book.Title,
		BorrowerName:  command.BorrowerName,
		BorrowerEmail: command.BorrowerEmail,
		Date:          command.OccurredAt,
		Status:        core.StatusPending,
	})

	if err != nil {
		failed := core.BuildSubmittingBorrowRequestFailed(
			command.SubmissionID,
			command.BookID,
			command.BorrowerEmail,
			err.Error(),
			h.now(),
		)

		if appendErr := shell.AppendToBookScope(ctx, h.journal, command.BookID, metadata.Next(), failed); appendErr != nil {
			return core.BorrowRequest{}, errors.Join(err, appendErr)
		}

		return core.BorrowRequest{}, err
	}

	filed := core.BuildBorrowRequestFiled(command.SubmissionID, created.ID, command.BookID, command.BorrowerEmail, h.now())

	if err := shell.AppendToBookScope(ctx, h.journal, command.BookID, metadata.Next(), filed); err != nil && h.logger != nil {
		// the claim expires after claimTTL, the store scan still finds the request
		h.logger.Warn(logMsgFilingNotJournaled, shell.LogAttrRequestID, created.ID, shell.LogAttrError, err.Error())
	}

	return created, nil
}
