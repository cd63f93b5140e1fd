package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/app"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	shutdownTimeout = 10 * time.Second

	logMsgListening    = "http server listening"
	logMsgShuttingDown = "http server shutting down"
)

var ErrNoTokenParser = errors.New("server needs a token parser")

// TokenParser verifies a bearer token and returns the session it was issued for.
// session.JWTIssuer implements it.
type TokenParser interface {
	Parse(token string) (session.Session, error)
}

type Server struct {
	echo     *echo.Echo
	handlers *app.Handlers
	tokens   TokenParser
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(handlers *app.Handlers, tokens TokenParser, opts ...Option) (*Server, error) {
	if tokens == nil {
		return nil, ErrNoTokenParser
	}

	s := &Server{
		handlers: handlers,
		tokens:   tokens,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = s.handleError

	s.registerMiddlewares(e)
	s.registerRoutes(e)
	s.echo = e

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on address until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(logMsgListening, "address", address)
		errCh <- s.echo.Start(address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info(logMsgShuttingDown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.echo.Shutdown(shutdownCtx)
	}
}
