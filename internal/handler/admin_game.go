package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/config"
	"github.com/seatlotto/seat-lottery/internal/game"
	"github.com/seatlotto/seat-lottery/internal/model"
	q "github.com/seatlotto/seat-lottery/internal/queue"
	"github.com/seatlotto/seat-lottery/internal/repository"
	"github.com/seatlotto/seat-lottery/internal/service"
)

// AdminGameHandler serves the admin dashboard: game creation, request
// approval, seat monitoring, ending games and declaring winners.
type AdminGameHandler struct {
	Cfg      config.Config
	Games    *repository.GameRepo
	Seats    *repository.SeatRepo
	Requests *repository.RequestRepo
}

func NewAdminGameHandler(cfg config.Config, g *repository.GameRepo, s *repository.SeatRepo, r *repository.RequestRepo) *AdminGameHandler {
	return &AdminGameHandler{Cfg: cfg, Games: g, Seats: s, Requests: r}
}

// ----- game creation -----

// seatInput is one seat override in the create-game payload.  Price is a
// pointer so "absent" and "0" stay distinguishable.
type seatInput struct {
	SeatNumber int    `json:"seatNumber"`
	IsPaid     bool   `json:"isPaid"`
	Price      *int   `json:"price"`
	Gift       string `json:"gift"`
}

// createGameReq mirrors the create-game form.  The numeric fields are
// pointers because an untouched field and an explicit zero mean different
// things to the configuration reducer.
type createGameReq struct {
	GameName       string      `json:"gameName"`
	Description    string      `json:"description"`
	AdditionalInfo string      `json:"additionalInfo"`
	UniversalGift  string      `json:"universalGift"`
	ImageURL       string      `json:"imageUrl"`
	TotalSeats     *int        `json:"totalSeats"`
	FreeSeats      *int        `json:"freeSeats"`
	PaidSeats      *int        `json:"paidSeats"`
	UniversalPrice *int        `json:"universalPrice"`
	Seats          []seatInput `json:"seats"`
}

// CreateGame validates a game configuration and inserts the game with its
// full seat inventory in one transaction.  The payload is replayed through
// the same reducer the form uses, so the server enforces exactly the rules
// the form shows: editing totals resets the split, free-seat edits rederive
// paid seats, and the paid quota is a hard cap.
func (h *AdminGameHandler) CreateGame(c echo.Context) error {
	var req createGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	cfg := game.NewConfig()
	cfg.GameName = strings.TrimSpace(req.GameName)
	cfg.Description = req.Description
	cfg.AdditionalInfo = req.AdditionalInfo
	cfg.UniversalGift = req.UniversalGift
	cfg.ImageURL = req.ImageURL

	if req.TotalSeats != nil && !cfg.SetTotalSeats(*req.TotalSeats) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []string{fmt.Sprintf("Total seats must be between 1 and %d", game.MaxSeats)},
		})
	}
	if req.FreeSeats != nil && !cfg.SetFreeSeats(*req.FreeSeats) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []string{"Free seats must be between 0 and the total seat count"},
		})
	}
	if req.PaidSeats != nil && !cfg.SetPaidSeats(*req.PaidSeats) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []string{"Paid seats must be between 0 and the total seat count"},
		})
	}
	if req.UniversalPrice != nil {
		cfg.ApplyUniversalPrice(*req.UniversalPrice)
	}
	for _, in := range req.Seats {
		i := in.SeatNumber - 1
		if in.IsPaid {
			if err := cfg.SetSeatPaid(i, true); err != nil {
				if errors.Is(err, game.ErrPaidQuotaFull) {
					return c.JSON(http.StatusBadRequest, echo.Map{
						"errors": []string{fmt.Sprintf("Cannot mark seat %d paid: paid seat quota reached", in.SeatNumber)},
					})
				}
				return c.JSON(http.StatusBadRequest, echo.Map{
					"errors": []string{fmt.Sprintf("No such seat: %d", in.SeatNumber)},
				})
			}
			if in.Price != nil {
				if err := cfg.SetSeatPrice(i, *in.Price); err != nil {
					return c.JSON(http.StatusBadRequest, echo.Map{
						"errors": []string{fmt.Sprintf("No such seat: %d", in.SeatNumber)},
					})
				}
			}
		}
		if in.Gift != "" && i >= 0 && i < len(cfg.Seats) {
			cfg.Seats[i].Gift = in.Gift
		}
	}

	if violations := cfg.Validate(); len(violations) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": violations})
	}

	g := &model.Game{
		GameName:   cfg.GameName,
		TotalSeats: cfg.TotalSeats,
		FreeSeats:  cfg.FreeSeats,
		PaidSeats:  cfg.PaidSeats,
		Status:     model.GameStatusActive,
	}
	if cfg.Description != "" {
		g.Description = &cfg.Description
	}
	if cfg.AdditionalInfo != "" {
		g.AdditionalInfo = &cfg.AdditionalInfo
	}
	if cfg.UniversalGift != "" {
		g.UniversalGift = &cfg.UniversalGift
	}
	if cfg.ImageURL != "" {
		g.ImageURL = &cfg.ImageURL
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Games.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() { _ = tx.Rollback() }()

	if err := h.Games.CreateTx(ctx, tx, g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create game failed"})
	}
	seats := make([]model.Seat, 0, len(cfg.Seats))
	for _, s := range cfg.Normalized() {
		seats = append(seats, model.Seat{
			GameID:     g.ID,
			SeatNumber: s.SeatNumber,
			IsPaid:     s.IsPaid,
			Price:      s.Price,
			Gift:       s.Gift,
		})
	}
	if err := h.Seats.CreateBulkTx(ctx, tx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	return c.JSON(http.StatusCreated, toGameView(*g, g.TotalSeats, ""))
}

// ----- game administration -----

// ListAllGames returns every game regardless of status.
func (h *AdminGameHandler) ListAllGames(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	games, err := h.Games.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list games failed"})
	}
	free, err := h.Seats.FreeCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
	}
	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, toGameView(g, free[g.ID], ""))
	}
	return c.JSON(http.StatusOK, views)
}

// EndGame transitions an active game to ENDED.  Ending twice yields 409.
func (h *AdminGameHandler) EndGame(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Games.End(ctx, id, time.Now().UTC()); err != nil {
		switch {
		case errors.Is(err, repository.ErrGameNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "game already ended"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "end game failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.GameStatusEnded})
}

// ----- join requests -----

// ListRequests returns the join requests of a game, optionally filtered by
// ?status=PENDING|APPROVED|REJECTED.
func (h *AdminGameHandler) ListRequests(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", model.RequestStatusPending, model.RequestStatusApproved, model.RequestStatusRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Requests.ListByGame(ctx, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list requests failed"})
	}
	if rows == nil {
		rows = []repository.RequestRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

type decideReq struct {
	Status string `json:"status"` // APPROVED | REJECTED
}

// UpdateRequestStatus approves or rejects a PENDING join request.  The
// decision is final; re-deciding yields 409.
func (h *AdminGameHandler) UpdateRequestStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.RequestStatusApproved && status != model.RequestStatusRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be APPROVED or REJECTED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Decide(ctx, id, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already decided"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update request failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

// ----- seats -----

// seatRow is one seat in the monitoring/selection grid.
type seatRow struct {
	SeatNumber int             `json:"seatNumber"`
	IsPaid     bool            `json:"isPaid"`
	Price      int             `json:"price"`
	Gift       string          `json:"gift"`
	Status     game.SeatStatus `json:"status"`
	Username   string          `json:"username,omitempty"` // occupant, admins and ended games only
	Mine       bool            `json:"mine"`
}

// ListAllSeats returns the seat grid of a game with viewer-relative
// statuses.  Admins additionally see who occupies each seat; regular users
// see occupant names only once the game has ended, so a live lottery does
// not leak who holds what.
func (h *AdminGameHandler) ListAllSeats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}
	role, _ := c.Get("role").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load game failed"})
	}
	seats, err := h.Seats.ListByGame(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}

	showNames := role == "ADMIN" || g.Status == model.GameStatusEnded
	var names map[int]string
	if showNames {
		if names, err = h.Seats.OccupantNames(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load occupants failed"})
		}
	}

	viewerHasBooking := false
	for _, s := range seats {
		if s.IsOccupied && s.UserID != nil && *s.UserID == uid {
			viewerHasBooking = true
			break
		}
	}

	rows := make([]seatRow, 0, len(seats))
	for _, s := range seats {
		st := game.SeatState{
			SeatNumber: s.SeatNumber,
			Price:      s.Price,
			Occupied:   s.IsOccupied,
			Winner:     s.IsWinner,
		}
		if s.UserID != nil {
			st.OccupiedBy = *s.UserID
		}
		row := seatRow{
			SeatNumber: s.SeatNumber,
			IsPaid:     s.IsPaid,
			Price:      s.Price,
			Gift:       s.Gift,
			Status:     game.DeriveStatus(st, viewerHasBooking),
			Mine:       st.OccupiedBy == uid && s.IsOccupied,
		}
		if showNames {
			row.Username = names[s.SeatNumber]
		}
		rows = append(rows, row)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"gameId":     g.ID,
		"gameStatus": g.Status,
		"seats":      rows,
	})
}

// ----- winners -----

type declareWinnersReq struct {
	GameID      uint64 `json:"gameId"`
	SeatNumbers []int  `json:"seatNumbers"`
}

// DeclareWinners flags the given occupied seats of an ENDED game as
// winners and publishes a winners.declared event.  Re-declaring a seat is a
// no-op, so a retried request cannot double-declare.
func (h *AdminGameHandler) DeclareWinners(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req declareWinnersReq
	if err := c.Bind(&req); err != nil || req.GameID == 0 || len(req.SeatNumbers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId and seatNumbers required"})
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
	if g.Status != model.GameStatusEnded {
		return c.JSON(http.StatusConflict, echo.Map{"error": "winners can only be declared on an ended game"})
	}

	declared, err := h.Seats.DeclareWinners(ctx, req.GameID, req.SeatNumbers, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "declare winners failed"})
	}

	if declared > 0 {
		_ = service.PublishWinnersDeclared(ctx, q.WinnersDeclaredEvent{
			GameID:      g.ID,
			GameName:    g.GameName,
			SeatNumbers: req.SeatNumbers,
			DeclaredBy:  uid,
			DeclaredAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}

	winners, err := h.Seats.ListWinners(ctx, req.GameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load winners failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"gameId":        g.ID,
		"newlyDeclared": declared,
		"winners":       winners,
	})
}

// ----- image upload -----

// allowedImageExts gates the upload endpoint to browser-displayable types.
var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// UploadImage stores a multipart "image" file under the configured upload
// directory and returns its serving path.
func (h *AdminGameHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open upload failed"})
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload dir unavailable"})
	}
	name := fmt.Sprintf("game_%d%s", time.Now().UTC().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save upload failed"})
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"imageUrl": "/uploads/" + name})
}
