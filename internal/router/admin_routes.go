package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/handler"
	"github.com/seatlotto/seat-lottery/internal/middleware"
)

// RegisterAdmin registers the game-administration routes.  Everything here
// except the seat grid is ADMIN-only; the seat grid is shared because seat
// selection renders from the same endpoint.
func RegisterAdmin(e *echo.Echo, jwtSecret string, a *handler.AuthHandler, ag *handler.AdminGameHandler) {
	// Players read the seat grid of a game while choosing a seat, so this
	// admin-prefixed route accepts both roles.  Occupant names are still
	// withheld from players while the game runs; see ListAllSeats.
	e.GET("/api/admin/listAllSeats/:id",
		ag.ListAllSeats,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole("USER", "ADMIN"))

	admin := e.Group("/api/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.POST("/createGame", ag.CreateGame)
	admin.GET("/listAllGames", ag.ListAllGames)
	admin.POST("/endGame/:id", ag.EndGame)
	admin.GET("/listRequests/:id", ag.ListRequests)
	admin.POST("/update/requestStatus/:id", ag.UpdateRequestStatus)
	admin.POST("/declareWinners", ag.DeclareWinners)
	admin.POST("/upload-image", ag.UploadImage)
	admin.PUT("/update-profile", a.UpdateProfile)
}
