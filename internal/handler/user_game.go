package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/model"
	"github.com/seatlotto/seat-lottery/internal/repository"
)

// UserGameHandler serves the player-facing game screens: browsing games,
// requesting to join, viewing a game and its leaderboard.
type UserGameHandler struct {
	Games    *repository.GameRepo
	Seats    *repository.SeatRepo
	Requests *repository.RequestRepo
}

func NewUserGameHandler(g *repository.GameRepo, s *repository.SeatRepo, r *repository.RequestRepo) *UserGameHandler {
	return &UserGameHandler{Games: g, Seats: s, Requests: r}
}

// gameView is a game row shaped for the client.
type gameView struct {
	ID             uint64     `json:"id"`
	GameName       string     `json:"gameName"`
	TotalSeats     int        `json:"totalSeats"`
	FreeSeats      int        `json:"freeSeats"`
	PaidSeats      int        `json:"paidSeats"`
	Status         string     `json:"status"`
	Description    *string    `json:"description"`
	AdditionalInfo *string    `json:"additionalInfo"`
	UniversalGift  *string    `json:"universalGift"`
	ImageURL       *string    `json:"imageUrl"`
	AvailableSeats int        `json:"availableSeats"`
	RequestStatus  string     `json:"requestStatus,omitempty"` // viewer's join request, "" = never requested
	CreatedAt      time.Time  `json:"createdAt"`
	EndedAt        *time.Time `json:"endedAt"`
}

func toGameView(g model.Game, available int, reqStatus string) gameView {
	return gameView{
		ID: g.ID, GameName: g.GameName,
		TotalSeats: g.TotalSeats, FreeSeats: g.FreeSeats, PaidSeats: g.PaidSeats,
		Status: g.Status, Description: g.Description, AdditionalInfo: g.AdditionalInfo,
		UniversalGift: g.UniversalGift, ImageURL: g.ImageURL,
		AvailableSeats: available, RequestStatus: reqStatus,
		CreatedAt: g.CreatedAt, EndedAt: g.EndedAt,
	}
}

func (h *UserGameHandler) listByStatus(c echo.Context, status string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	games, err := h.Games.ListByStatus(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list games failed"})
	}
	free, err := h.Seats.FreeCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
	}

	views := make([]gameView, 0, len(games))
	for _, g := range games {
		reqStatus, err := h.Requests.StatusFor(ctx, g.ID, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load requests failed"})
		}
		views = append(views, toGameView(g, free[g.ID], reqStatus))
	}
	return c.JSON(http.StatusOK, views)
}

// ListActiveGames returns ACTIVE games with seat availability and the
// viewer's request status per game.
func (h *UserGameHandler) ListActiveGames(c echo.Context) error {
	return h.listByStatus(c, model.GameStatusActive)
}

// ListNonActiveGames returns ENDED games, for the results/leaderboard
// browsing screen.
func (h *UserGameHandler) ListNonActiveGames(c echo.Context) error {
	return h.listByStatus(c, model.GameStatusEnded)
}

// GetGame returns one game with availability and the viewer's request
// status.
func (h *UserGameHandler) GetGame(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load game failed"})
	}
	free, err := h.Seats.FreeCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
	}
	reqStatus, err := h.Requests.StatusFor(ctx, g.ID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load requests failed"})
	}
	return c.JSON(http.StatusOK, toGameView(*g, free[g.ID], reqStatus))
}

// Leaderboard returns the declared winners of a game.
func (h *UserGameHandler) Leaderboard(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Games.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load game failed"})
	}
	winners, err := h.Seats.ListWinners(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load winners failed"})
	}
	if winners == nil {
		winners = []repository.WinnerRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"gameId": id, "winners": winners})
}

type joinReq struct {
	GameID uint64 `json:"gameId"`
}

// MakeRequest files a PENDING join request for the authenticated user.
// A user gets one request per game; re-requesting yields 409.
func (h *UserGameHandler) MakeRequest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil || req.GameID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Games.GetByID(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load game failed"})
	}
	if g.Status != model.GameStatusActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "game has ended"})
	}

	id, err := h.Requests.Create(ctx, req.GameID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already exists for this game"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     id,
		"gameId": req.GameID,
		"status": model.RequestStatusPending,
	})
}
