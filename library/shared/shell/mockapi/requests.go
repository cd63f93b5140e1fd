package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// RequestFilter narrows a listing. Empty fields do not filter.
type RequestFilter struct {
	BorrowerEmail core.EmailString
	BookID        core.BookIDString
}

func (f RequestFilter) matches(request core.BorrowRequest) bool {
	if f.BorrowerEmail != "" && request.BorrowerEmail != f.BorrowerEmail {
		return false
	}

	if f.BookID != "" && request.BookID != f.BookID {
		return false
	}

	return true
}

// RequestsClient talks to the borrow requests resource.
type RequestsClient struct {
	baseURL   string
	transport transport
}

func NewRequestsClient(baseURL string, opts ...Option) *RequestsClient {
	return &RequestsClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: newTransport(opts),
	}
}

// ListRequests passes the filter as query parameters and applies it again locally,
// MockAPI-style stores match query parameters as substrings.
func (c *RequestsClient) ListRequests(ctx context.Context, filter RequestFilter) ([]core.BorrowRequest, error) {
	query := url.Values{}
	if filter.BorrowerEmail != "" {
		query.Set("borrowerEmail", filter.BorrowerEmail)
	}
	if filter.BookID != "" {
		query.Set("bookId", filter.BookID)
	}

	target := c.baseURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	requests := make([]core.BorrowRequest, 0)

	err := c.transport.doJSON(ctx, http.MethodGet, target, nil, &requests)
	if errors.Is(err, errNotFound) {
		return []core.BorrowRequest{}, nil
	}
	if err != nil {
		return nil, err
	}

	matching := make([]core.BorrowRequest, 0, len(requests))
	for _, request := range requests {
		if filter.matches(request) {
			matching = append(matching, request)
		}
	}

	return matching, nil
}

func (c *RequestsClient) GetRequest(ctx context.Context, id core.RequestIDString) (core.BorrowRequest, error) {
	var request core.BorrowRequest

	if err := c.transport.doJSON(ctx, http.MethodGet, c.requestURL(id), nil, &request); err != nil {
		return core.BorrowRequest{}, notFoundAs(err, core.ErrBorrowRequestNotFound)
	}

	return request, nil
}

func (c *RequestsClient) CreateRequest(ctx context.Context, request core.BorrowRequest) (core.BorrowRequest, error) {
	request.ID = ""
	var created core.BorrowRequest

	if err := c.transport.doJSON(ctx, http.MethodPost, c.baseURL, request, &created); err != nil {
		return core.BorrowRequest{}, err
	}

	return created, nil
}

// UpdateRequestStatus only sends the status field.
func (c *RequestsClient) UpdateRequestStatus(ctx context.Context, id core.RequestIDString, status core.RequestStatus) error {
	body := struct {
		Status core.RequestStatus `json:"status"`
	}{Status: status}

	err := c.transport.doJSON(ctx, http.MethodPut, c.requestURL(id), body, nil)

	return notFoundAs(err, core.ErrBorrowRequestNotFound)
}

func (c *RequestsClient) requestURL(id core.RequestIDString) string {
	return c.baseURL + "/" + url.PathEscape(id)
}
