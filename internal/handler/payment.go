package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlotto/seat-lottery/internal/model"
	q "github.com/seatlotto/seat-lottery/internal/queue"
	"github.com/seatlotto/seat-lottery/internal/repository"
	"github.com/seatlotto/seat-lottery/internal/service"
)

// BookingHandler serves the checkout and seat-booking endpoints.  Paid
// seats go through the payment intent cycle before booking; free seats and
// the admin test path book directly.
type BookingHandler struct {
	Games    *repository.GameRepo
	Seats    *repository.SeatRepo
	Requests *repository.RequestRepo
	Users    *repository.UserRepo
	Payments *service.PaymentService
}

func NewBookingHandler(g *repository.GameRepo, s *repository.SeatRepo, r *repository.RequestRepo, u *repository.UserRepo, p *service.PaymentService) *BookingHandler {
	return &BookingHandler{Games: g, Seats: s, Requests: r, Users: u, Payments: p}
}

// ----- payment intents -----

type createIntentReq struct {
	GameID     uint64 `json:"gameId"`
	SeatNumber int    `json:"seatNumber"`
}

// CreatePaymentIntent opens a checkout for a paid seat.  The caller must be
// approved for the game, the seat must be a free-to-book paid seat, and the
// caller must not already hold a seat there.  The amount is always the
// stored seat price; the client never names a price.
func (h *BookingHandler) CreatePaymentIntent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createIntentReq
	if err := c.Bind(&req); err != nil || req.GameID == 0 || req.SeatNumber <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId and seatNumber required"})
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

	approved, err := h.Requests.IsApproved(ctx, req.GameID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check approval failed"})
	}
	if !approved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "join request not approved"})
	}

	seat, err := h.Seats.GetByNumber(ctx, req.GameID, req.SeatNumber)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seat failed"})
	}
	if !seat.IsPaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat is free; book it directly"})
	}
	if seat.IsOccupied {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
	}
	if _, err := h.Seats.UserSeat(ctx, req.GameID, uid); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already hold a seat in this game"})
	} else if !errors.Is(err, repository.ErrSeatNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check booking failed"})
	}

	intent, err := h.Payments.CreateIntent(ctx, uid, req.GameID, req.SeatNumber, seat.Price)
	if err != nil {
		if errors.Is(err, service.ErrPaymentsUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create intent failed"})
	}
	return c.JSON(http.StatusCreated, intent)
}

type processPaymentReq struct {
	IntentID string              `json:"intentId"`
	Card     service.CardDetails `json:"card"`
}

// ProcessPayment runs the charge for a pending intent.  Processing an
// already-paid intent is a no-op success.
func (h *BookingHandler) ProcessPayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req processPaymentReq
	if err := c.Bind(&req); err != nil || req.IntentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "intentId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	intent, err := h.Payments.Get(ctx, req.IntentID)
	if err != nil {
		if errors.Is(err, service.ErrIntentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment intent not found or expired"})
		}
		if errors.Is(err, service.ErrPaymentsUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load intent failed"})
	}
	if intent.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment intent not found or expired"})
	}

	intent, err = h.Payments.Process(ctx, req.IntentID, req.Card)
	if err != nil {
		if errors.Is(err, service.ErrCardDeclined) {
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "process payment failed"})
	}
	return c.JSON(http.StatusOK, intent)
}

// ----- seat booking -----

type selectSeatReq struct {
	GameID     uint64 `json:"gameId"`
	SeatNumber int    `json:"seatNumber"`
	IntentID   string `json:"intentId"` // required for paid seats
}

// SelectSeat books a seat for the authenticated user.  Free seats book
// directly; paid seats require a completed payment intent for exactly this
// seat.  The occupancy update is the race arbiter: a lost race yields 409
// and the client re-syncs.
func (h *BookingHandler) SelectSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req selectSeatReq
	if err := c.Bind(&req); err != nil || req.GameID == 0 || req.SeatNumber <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId and seatNumber required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seat, err := h.Seats.GetByNumber(ctx, req.GameID, req.SeatNumber)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seat failed"})
	}
	if seat.IsPaid {
		if req.IntentID == "" {
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment required for this seat"})
		}
		if err := h.Payments.VerifyPaid(ctx, req.IntentID, uid, req.GameID, req.SeatNumber); err != nil {
			switch {
			case errors.Is(err, service.ErrIntentNotPaid):
				return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment not completed"})
			case errors.Is(err, service.ErrIntentNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": "payment intent not found or expired"})
			case errors.Is(err, service.ErrPaymentsUnavailable):
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments unavailable"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify payment failed"})
			}
		}
	}
	return h.book(c, ctx, uid, req.GameID, req.SeatNumber, seat.Price, false)
}

// TestBookSeat books a seat without the payment step.  It exists for
// rehearsing a lottery end to end; approval, double-booking and occupancy
// rules still apply, and the published event is flagged test_mode.
func (h *BookingHandler) TestBookSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req selectSeatReq
	if err := c.Bind(&req); err != nil || req.GameID == 0 || req.SeatNumber <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId and seatNumber required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seat, err := h.Seats.GetByNumber(ctx, req.GameID, req.SeatNumber)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seat failed"})
	}
	return h.book(c, ctx, uid, req.GameID, req.SeatNumber, seat.Price, true)
}

// book is the shared booking path.  Inside one transaction it checks the
// game is active and the caller approved, refuses a second booking, marks
// the seat occupied, and auto-ends the game when the last seat fills.  The
// seat.booked event publishes only after commit.
func (h *BookingHandler) book(c echo.Context, ctx context.Context, uid, gameID uint64, seatNumber, price int, testMode bool) error {
	g, err := h.Games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load game failed"})
	}
	if g.Status != model.GameStatusActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "game has ended"})
	}
	approved, err := h.Requests.IsApproved(ctx, gameID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check approval failed"})
	}
	if !approved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "join request not approved"})
	}

	tx, err := h.Games.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := h.Seats.UserSeat(ctx, gameID, uid); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already hold a seat in this game"})
	} else if !errors.Is(err, repository.ErrSeatNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check booking failed"})
	}

	if err := h.Seats.BookTx(ctx, tx, gameID, seatNumber, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "book seat failed"})
		}
	}

	remaining, err := h.Seats.CountFreeTx(ctx, tx, gameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
	}
	gameEnded := remaining == 0
	if gameEnded {
		if err := h.Games.EndTx(ctx, tx, gameID, time.Now().UTC()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "end game failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	username := ""
	if u, err := h.Users.GetByID(ctx, uid); err == nil {
		username = u.Username
	}
	_ = service.PublishSeatBooked(ctx, q.SeatBookedEvent{
		GameID:     gameID,
		GameName:   g.GameName,
		SeatNumber: seatNumber,
		UserID:     uid,
		Username:   username,
		Price:      price,
		TestMode:   testMode,
		BookedAt:   time.Now().UTC().Format(time.RFC3339),
		GameEnded:  gameEnded,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"gameId":     gameID,
		"seatNumber": seatNumber,
		"price":      price,
		"gameEnded":  gameEnded,
		"testMode":   testMode,
	})
}
