package mockapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

const (
	defaultTimeout = 10 * time.Second

	logMsgRequestDone   = "mock api request"
	logMsgRequestFailed = "mock api request failed"
)

var (
	// errNotFound is translated into the resource specific not-found error by the clients.
	errNotFound = errors.New("resource answered 404")

	ErrUnexpectedStatus = errors.New("unexpected status from mock api")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewHTTPClient builds the client shared by the three resource clients.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

type transport struct {
	httpClient *http.Client
	logger     shell.Logger
}

// Option configures a resource client.
type Option func(*transport)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(t *transport) {
		t.httpClient = httpClient
	}
}

// WithLogger logs every call at debug and every failure at warn.
func WithLogger(logger shell.Logger) Option {
	return func(t *transport) {
		t.logger = logger
	}
}

func newTransport(opts []Option) transport {
	t := transport{httpClient: NewHTTPClient(defaultTimeout)}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

// doJSON sends body (when not nil) as JSON and decodes the answer into out (when not nil).
func (t transport) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logFailure(method, url, err)
		return errors.Join(core.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	t.logDone(method, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errNotFound

	case resp.StatusCode >= http.StatusInternalServerError:
		err = fmt.Errorf("%s %s: %s", method, url, resp.Status)
		t.logFailure(method, url, err)

		return errors.Join(core.ErrNetworkFailure, err)

	case resp.StatusCode >= http.StatusMultipleChoices:
		err = fmt.Errorf("%w: %s %s: %s", ErrUnexpectedStatus, method, url, resp.Status)
		t.logFailure(method, url, err)

		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.logFailure(method, url, err)
		return errors.Join(core.ErrNetworkFailure, fmt.Errorf("decoding %s %s: %w", method, url, err))
	}

	return nil
}

func (t transport) logDone(method, url string, status int, duration time.Duration) {
	if t.logger == nil {
		return
	}

	t.logger.Debug(logMsgRequestDone,
		"method", method,
		"url", url,
		"status", status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	)
}

func (t transport) logFailure(method, url string, err error) {
	if t.logger == nil {
		return
	}

	t.logger.Warn(logMsgRequestFailed, "method", method, "url", url, shell.LogAttrError, err.Error())
}
