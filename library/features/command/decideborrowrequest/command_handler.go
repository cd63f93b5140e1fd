package decideborrowrequest

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

// BookReader is what the CommandHandler needs from the books resource.
type BookReader interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
}

// RequestReader is what the CommandHandler needs from the requests resource.
type RequestReader interface {
	GetRequest(ctx context.Context, id core.RequestIDString) (core.BorrowRequest, error)
}

// TransitionRunner applies the store writes of a journaled transition, shell.Saga implements it.
type TransitionRunner interface {
	Run(ctx context.Context, plan core.TransitionPlan, metadata shell.EventMetadata) error
}

// CommandHandler runs Query -> Read -> Decide -> Append with retry, then hands the
// journaled transition to the saga.
type CommandHandler struct {
	journal      shell.EventStore
	books        BookReader
	requests     RequestReader
	saga         TransitionRunner
	retryOptions []shell.RetryOption
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

func NewCommandHandler(
	journal shell.EventStore,
	books BookReader,
	requests RequestReader,
	saga TransitionRunner,
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		journal:  journal,
		books:    books,
		requests: requests,
		saga:     saga,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the request with its new status as output.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := shell.ValidateStruct(command); err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	if !command.Actor.IsAdmin() {
		return shell.NewErrorResult(shell.SingleAttempt(core.ErrForbidden)), core.ErrForbidden
	}

	var (
		request  core.BorrowRequest
		metadata shell.EventMetadata
		result   core.DecisionResult
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var err error

		request, err = h.requests.GetRequest(ctx, command.RequestID)
		if err != nil {
			return err
		}

		history, err := shell.LoadBookHistory(ctx, h.journal, request.BookID)
		if err != nil {
			return err
		}

		book, err := h.books.GetBook(ctx, request.BookID)
		if err != nil {
			return err
		}

		result = Decide(history.Events(), request, book, command)
		request.Status = core.EffectiveStatus(history.Events(), request)

		if result.IsIdempotent() {
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
		return shell.NewIdempotentResult(retryMetrics).WithOutput(request), nil
	}

	plan, _ := core.PlanFor(result.Event)
	if err := h.saga.Run(ctx, plan, metadata); err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	request.Status = command.Outcome

	return shell.NewSuccessResult(retryMetrics).WithOutput(request), nil
}
