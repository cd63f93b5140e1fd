package coversuggestion

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/openlibrary"
)

const logMsgLookupFailed = "cover lookup failed"

// CoverLookup is implemented by openlibrary.Client.
type CoverLookup interface {
	LookupCover(ctx context.Context, title, author string) (string, error)
}

type QueryHandler struct {
	covers CoverLookup
	logger shell.Logger
}

type Option func(*QueryHandler)

func WithLogger(logger shell.Logger) Option {
	return func(h *QueryHandler) {
		h.logger = logger
	}
}

func NewQueryHandler(covers CoverLookup, opts ...Option) QueryHandler {
	handler := QueryHandler{covers: covers}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle only fails for non-admins and blank input.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Suggestion, error) {
	if !query.Viewer.IsAdmin() {
		return Suggestion{}, core.ErrForbidden
	}

	if err := shell.ValidateStruct(query); err != nil {
		return Suggestion{}, err
	}

	cover, err := h.covers.LookupCover(ctx, query.Title, query.Author)
	if err != nil {
		if !errors.Is(err, openlibrary.ErrNoCoverFound) && h.logger != nil {
			h.logger.Warn(logMsgLookupFailed, "title", query.Title, "author", query.Author, shell.LogAttrError, err.Error())
		}

		return Suggestion{}, nil
	}

	return Suggestion{Cover: cover}, nil
}
