package app

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/addbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/editbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/login"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/logout"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/registeraccount"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/removebook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/returnborrowedbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/submitborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borrowrequests"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/browsecatalog"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/coversuggestion"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/reconcileavailability"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

// Dependencies are the capabilities the handlers are built from.
// Everything below Covers is optional.
type Dependencies struct {
	Stores  mockapi.Stores
	Journal shell.EventStore
	Covers  coversuggestion.CoverLookup

	Issuer   session.TokenIssuer
	Hasher   password.Hasher
	Sessions *session.Manager // only the CLI keeps a session

	ClaimTTL     time.Duration
	RetryOptions []shell.RetryOption
	Clock        func() time.Time

	Logger           shell.Logger
	ContextualLogger shell.ContextualLogger
	MetricsCollector shell.MetricsCollector
	TracingCollector shell.TracingCollector
}

// Handlers contains all command and query handlers of the desk, each wrapped for observability.
type Handlers struct {
	// Command handlers.
	RegisterAccount     shell.CoreCommandHandler[registeraccount.Command]
	Login               shell.CoreCommandHandler[login.Command]
	Logout              shell.CoreCommandHandler[logout.Command] // nil without Dependencies.Sessions
	AddBook             shell.CoreCommandHandler[addbook.Command]
	EditBook            shell.CoreCommandHandler[editbook.Command]
	RemoveBook          shell.CoreCommandHandler[removebook.Command]
	SubmitBorrowRequest shell.CoreCommandHandler[submitborrowrequest.Command]
	DecideBorrowRequest shell.CoreCommandHandler[decideborrowrequest.Command]
	ReturnBorrowedBook  shell.CoreCommandHandler[returnborrowedbook.Command]
	Reconcile           shell.CoreCommandHandler[reconcileavailability.Command]

	// Query handlers.
	BrowseCatalog     shell.CoreQueryHandler[browsecatalog.Query, browsecatalog.Catalog]
	BookDetails       shell.CoreQueryHandler[bookdetails.Query, bookdetails.Details]
	BorrowEligibility shell.CoreQueryHandler[borroweligibility.Query, borroweligibility.Result]
	BorrowRequests    shell.CoreQueryHandler[borrowrequests.Query, borrowrequests.Listing]
	CoverSuggestion   shell.CoreQueryHandler[coversuggestion.Query, coversuggestion.Suggestion]
}

// NewHandlers creates all handlers. The lifecycle handlers share one saga.
func NewHandlers(deps Dependencies) (*Handlers, error) {
	deps = withDefaults(deps)
	stores := deps.Stores

	saga := shell.NewSaga(stores, deps.Journal, sagaOptions(deps)...)

	var err error
	handlers := &Handlers{}

	loginOptions := []login.Option{login.WithTokenIssuer(deps.Issuer)}
	if deps.Sessions != nil {
		loginOptions = append(loginOptions, login.WithSessionEstablisher(deps.Sessions))

		if handlers.Logout, err = wrapCommand[logout.Command](logout.NewCommandHandler(deps.Sessions), deps); err != nil {
			return nil, fmt.Errorf("failed to create Logout handler: %w", err)
		}
	}

	if handlers.RegisterAccount, err = wrapCommand[registeraccount.Command](
		registeraccount.NewCommandHandler(stores.Accounts, registeraccount.WithPasswordHasher(deps.Hasher)),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create RegisterAccount handler: %w", err)
	}

	if handlers.Login, err = wrapCommand[login.Command](login.NewCommandHandler(stores.Accounts, loginOptions...), deps); err != nil {
		return nil, fmt.Errorf("failed to create Login handler: %w", err)
	}

	if handlers.AddBook, err = wrapCommand[addbook.Command](addbook.NewCommandHandler(stores.Books), deps); err != nil {
		return nil, fmt.Errorf("failed to create AddBook handler: %w", err)
	}

	if handlers.EditBook, err = wrapCommand[editbook.Command](editbook.NewCommandHandler(stores.Books), deps); err != nil {
		return nil, fmt.Errorf("failed to create EditBook handler: %w", err)
	}

	if handlers.RemoveBook, err = wrapCommand[removebook.Command](
		removebook.NewCommandHandler(deps.Journal, stores.Books, stores.Requests,
			removebook.WithClaimTTL(deps.ClaimTTL),
			removebook.WithClock(deps.Clock),
		),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create RemoveBook handler: %w", err)
	}

	submitOptions := []submitborrowrequest.Option{
		submitborrowrequest.WithRetryOptions(deps.RetryOptions...),
		submitborrowrequest.WithClaimTTL(deps.ClaimTTL),
		submitborrowrequest.WithClock(deps.Clock),
	}
	if deps.Logger != nil {
		submitOptions = append(submitOptions, submitborrowrequest.WithLogger(deps.Logger))
	}

	if handlers.SubmitBorrowRequest, err = wrapCommand[submitborrowrequest.Command](
		submitborrowrequest.NewCommandHandler(deps.Journal, stores.Books, stores.Requests, submitOptions...),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create SubmitBorrowRequest handler: %w", err)
	}

	if handlers.DecideBorrowRequest, err = wrapCommand[decideborrowrequest.Command](
		decideborrowrequest.NewCommandHandler(deps.Journal, stores.Books, stores.Requests, saga,
			decideborrowrequest.WithRetryOptions(deps.RetryOptions...),
		),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create DecideBorrowRequest handler: %w", err)
	}

	if handlers.ReturnBorrowedBook, err = wrapCommand[returnborrowedbook.Command](
		returnborrowedbook.NewCommandHandler(deps.Journal, stores.Books, stores.Requests, saga,
			returnborrowedbook.WithRetryOptions(deps.RetryOptions...),
		),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create ReturnBorrowedBook handler: %w", err)
	}

	reconcileOptions := []reconcileavailability.Option{reconcileavailability.WithClaimTTL(deps.ClaimTTL)}
	if deps.Logger != nil {
		reconcileOptions = append(reconcileOptions, reconcileavailability.WithLogger(deps.Logger))
	}

	if handlers.Reconcile, err = wrapCommand[reconcileavailability.Command](
		reconcileavailability.NewCommandHandler(deps.Journal, stores.Books, stores.Requests, saga, reconcileOptions...),
		deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create ReconcileAvailability handler: %w", err)
	}

	if handlers.BrowseCatalog, err = wrapQuery[browsecatalog.Query, browsecatalog.Catalog](
		browsecatalog.NewQueryHandler(stores.Books, stores.Requests, deps.Journal), deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create BrowseCatalog handler: %w", err)
	}

	if handlers.BookDetails, err = wrapQuery[bookdetails.Query, bookdetails.Details](
		bookdetails.NewQueryHandler(stores.Books, stores.Requests, deps.Journal), deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create BookDetails handler: %w", err)
	}

	if handlers.BorrowEligibility, err = wrapQuery[borroweligibility.Query, borroweligibility.Result](
		borroweligibility.NewQueryHandler(stores.Books, stores.Requests, deps.Journal), deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create BorrowEligibility handler: %w", err)
	}

	if handlers.BorrowRequests, err = wrapQuery[borrowrequests.Query, borrowrequests.Listing](
		borrowrequests.NewQueryHandler(stores.Requests, deps.Journal), deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create BorrowRequests handler: %w", err)
	}

	coverOptions := []coversuggestion.Option{}
	if deps.Logger != nil {
		coverOptions = append(coverOptions, coversuggestion.WithLogger(deps.Logger))
	}

	if handlers.CoverSuggestion, err = wrapQuery[coversuggestion.Query, coversuggestion.Suggestion](
		coversuggestion.NewQueryHandler(deps.Covers, coverOptions...), deps,
	); err != nil {
		return nil, fmt.Errorf("failed to create CoverSuggestion handler: %w", err)
	}

	return handlers, nil
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Issuer == nil {
		deps.Issuer = session.PlaceholderIssuer{}
	}

	if deps.Hasher == nil {
		deps.Hasher = password.PlaintextHasher{}
	}

	if deps.ClaimTTL == 0 {
		deps.ClaimTTL = 2 * time.Minute
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return deps
}

func sagaOptions(deps Dependencies) []shell.SagaOption {
	opts := []shell.SagaOption{shell.WithSagaClock(deps.Clock)}

	if len(deps.RetryOptions) > 0 {
		opts = append(opts, shell.WithSagaRetryOptions(deps.RetryOptions...))
	}

	if deps.Logger != nil {
		opts = append(opts, shell.WithSagaLogger(deps.Logger))
	}

	if deps.ContextualLogger != nil {
		opts = append(opts, shell.WithSagaContextualLogger(deps.ContextualLogger))
	}

	if deps.MetricsCollector != nil {
		opts = append(opts, shell.WithSagaMetrics(deps.MetricsCollector))
	}

	return opts
}

func wrapCommand[C shell.Command](
	handler shell.CoreCommandHandler[C],
	deps Dependencies,
) (shell.CoreCommandHandler[C], error) {

	return observable.NewCommandWrapper(handler,
		observable.WithCommandLogging[C](deps.Logger),
		observable.WithCommandContextualLogging[C](deps.ContextualLogger),
		observable.WithCommandMetrics[C](deps.MetricsCollector),
		observable.WithCommandTracing[C](deps.TracingCollector),
	)
}

func wrapQuery[Q shell.Query, R any](
	handler shell.CoreQueryHandler[Q, R],
	deps Dependencies,
) (shell.CoreQueryHandler[Q, R], error) {

	return observable.NewQueryWrapper(handler,
		observable.WithQueryLogging[Q, R](deps.Logger),
		observable.WithQueryContextualLogging[Q, R](deps.ContextualLogger),
		observable.WithQueryMetrics[Q, R](deps.MetricsCollector),
		observable.WithQueryTracing[Q, R](deps.TracingCollector),
	)
}
