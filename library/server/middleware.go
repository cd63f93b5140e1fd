package server

import (
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	contextKeyViewer = "viewer"

	logMsgHTTP       = "http"
	logMsgAuthFailed = "bearer token rejected"
)

func (s *Server) registerMiddlewares(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(s.accessLog())
}

// accessLog hands errors to the error handler first, so the logged status is the one sent.
func (s *Server) accessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			s.logger.Info(logMsgHTTP,
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
			)

			return nil
		}
	}
}

// authenticate puts the session of the bearer token into the context.
// With optional set, a request without Authorization header passes as anonymous.
func (s *Server) authenticate(optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: contextKeyViewer,
		Skipper: func(c echo.Context) bool {
			return optional && c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		ParseTokenFunc: func(_ echo.Context, auth string) (any, error) {
			return s.tokens.Parse(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			s.logger.Debug(logMsgAuthFailed, "error", err, "req_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return core.ErrAuthenticationFailed
		},
	})
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !viewer(c).IsAdmin() {
			return core.ErrForbidden
		}

		return next(c)
	}
}

// viewer is the zero session for anonymous requests.
func viewer(c echo.Context) session.Session {
	s, _ := c.Get(contextKeyViewer).(session.Session)

	return s
}
