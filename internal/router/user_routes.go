package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/handler"
	"github.com/seatlotto/seat-lottery/internal/middleware"
)

// RegisterUser registers the authenticated player routes.  Admins can reach
// these too so an admin account can walk through the player flow when
// rehearsing a game.
func RegisterUser(e *echo.Echo, jwtSecret string, a *handler.AuthHandler, ug *handler.UserGameHandler, b *handler.BookingHandler, cache echo.MiddlewareFunc) {
	auth := e.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole("USER", "ADMIN"))

	// Browse endpoints.  The game lists are hot and safe to cache briefly.
	auth.GET("/game/listActiveGames", ug.ListActiveGames, cache)
	auth.GET("/game/listNonActiveGames", ug.ListNonActiveGames, cache)
	auth.GET("/game/getGameById/:id", ug.GetGame)
	auth.GET("/game/leaderboard/:id", ug.Leaderboard)

	// Joining and profile.
	auth.POST("/user/request", ug.MakeRequest)
	auth.PUT("/user/update-profile", a.UpdateProfile)

	// Checkout and booking.
	auth.POST("/user/create-payment-intent", b.CreatePaymentIntent)
	auth.POST("/user/process-payment", b.ProcessPayment)
	auth.POST("/user/select-seat", b.SelectSeat)
	auth.POST("/user/test-book-seat", b.TestBookSeat)
}
