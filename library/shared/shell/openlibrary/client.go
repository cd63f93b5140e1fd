// Package openlibrary looks up book covers in the Open Library search API.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

const (
	DefaultBaseURL       = "https://openlibrary.org"
	DefaultCoversBaseURL = "https://covers.openlibrary.org"

	defaultTimeout = 5 * time.Second

	logMsgSearchDone = "open library search"
)

var ErrNoCoverFound = errors.New("no cover found")

type searchResult struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	ISBN   []string `json:"isbn"`
	CoverI int64    `json:"cover_i"`
}

// Client searches by title and author and turns the first usable hit into a cover URL.
type Client struct {
	baseURL       string
	coversBaseURL string
	httpClient    *http.Client
	logger        shell.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

func WithLogger(logger shell.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL, coversBaseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		coversBaseURL: strings.TrimRight(coversBaseURL, "/"),
		httpClient:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LookupCover returns the large cover of the first hit that has an ISBN or a cover id.
// An ISBN wins over a cover id. ErrNoCoverFound means the search had no such hit.
func (c *Client) LookupCover(ctx context.Context, title, author string) (string, error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("author", author)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(core.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.logger != nil {
		c.logger.Debug(logMsgSearchDone, "status", resp.StatusCode, shell.LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)))
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Join(core.ErrNetworkFailure, fmt.Errorf("open library search: %s", resp.Status))
	}

	var result searchResult
	if err := jsoniter.ConfigFastest.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Join(core.ErrNetworkFailure, err)
	}

	for _, doc := range result.Docs {
		if len(doc.ISBN) > 0 && doc.ISBN[0] != "" {
			return c.coversBaseURL + "/b/isbn/" + url.PathEscape(doc.ISBN[0]) + "-L.jpg", nil
		}

		if doc.CoverI != 0 {
			return c.coversBaseURL + "/b/id/" + strconv.FormatInt(doc.CoverI, 10) + "-L.jpg", nil
		}
	}

	return "", ErrNoCoverFound
}
