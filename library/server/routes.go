package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	api.POST("/accounts/register", s.register)
	api.POST("/session/login", s.login)
	api.POST("/session/logout", s.logout)

	books := api.Group("/books", s.authenticate(true))
	books.GET("", s.browseCatalog)
	books.GET("/:id", s.bookDetails)
	books.GET("/:id/eligibility", s.borrowEligibility)

	signedIn := s.authenticate(false)
	api.POST("/books/:id/borrow-requests", s.submitBorrowRequest, signedIn)
	api.GET("/me/borrow-requests", s.myBorrowRequests, signedIn)
	api.POST("/borrow-requests/:id/return", s.returnBorrowedBook, signedIn)

	admin := api.Group("/admin", signedIn, requireAdmin)
	admin.POST("/books", s.addBook)
	admin.PUT("/books/:id", s.editBook)
	admin.DELETE("/books/:id", s.removeBook)
	admin.GET("/cover-suggestion", s.coverSuggestion)
	admin.GET("/borrow-requests", s.allBorrowRequests)
	admin.POST("/borrow-requests/:id/accept", s.acceptBorrowRequest)
	admin.POST("/borrow-requests/:id/reject", s.rejectBorrowRequest)
	admin.POST("/reconcile", s.reconcile)
}
