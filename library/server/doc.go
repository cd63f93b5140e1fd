// Package server exposes the desk over HTTP with echo.
//
// Protected routes expect "Authorization: Bearer <token>" with a token from POST /api/session/login.
// The catalog routes also answer anonymous callers, a token there only personalizes the answer.
// Admin routes live under /api/admin.
package server
