// Package router wires handlers and middleware onto the Echo instance.
// All application routes live under the /api prefix; the route shapes match
// what the web client calls.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/handler"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	// Probed by load balancers; deliberately outside /api.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the unauthenticated account endpoints: sign-up,
// login, token refresh/revocation and the password-reset flow.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/user")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	// Password reset: request a code, verify it, then set the new password
	// inside the verification window.
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/verify-otp", a.VerifyOTP)
	g.POST("/reset-password", a.ResetPassword)
}
