package borrowrequests

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

type RequestLister interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
}

type QueryHandler struct {
	requests RequestLister
	journal  shell.QueriesEvents
}

func NewQueryHandler(requests RequestLister, journal shell.QueriesEvents) QueryHandler {
	return QueryHandler{requests: requests, journal: journal}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Listing, error) {
	filter, err := filterFor(query)
	if err != nil {
		return Listing{}, err
	}

	requests, err := h.requests.ListRequests(ctx, filter)
	if err != nil {
		return Listing{}, err
	}

	history, err := shell.LoadLifecycleHistory(ctx, h.journal)
	if err != nil {
		return Listing{}, err
	}

	return Project(history, requests, query.Status), nil
}

func filterFor(query Query) (mockapi.RequestFilter, error) {
	if query.Status != "" && !query.Status.IsKnown() {
		return mockapi.RequestFilter{}, core.ValidationError{Fields: map[string]string{"status": "unknown status"}}
	}

	switch query.Scope {
	case ScopeAll:
		if !query.Viewer.IsAdmin() {
			return mockapi.RequestFilter{}, core.ErrForbidden
		}

		return mockapi.RequestFilter{}, nil

	case ScopeMine:
		if query.Viewer.Email == "" {
			return mockapi.RequestFilter{}, core.ErrAuthenticationFailed
		}

		return mockapi.RequestFilter{BorrowerEmail: query.Viewer.Email}, nil

	default:
		return mockapi.RequestFilter{}, core.ValidationError{Fields: map[string]string{"scope": "unknown scope"}}
	}
}
