package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seatlotto/seat-lottery/internal/utils"
)

// Payment intent statuses.
const (
	IntentStatusPending = "PENDING"
	IntentStatusPaid    = "PAID"
)

// intentTTL bounds how long an unpaid intent may be completed.  Expiry is
// enforced by Redis; an expired intent simply stops resolving.
const intentTTL = 30 * time.Minute

var (
	// ErrPaymentsUnavailable is returned when no Redis client is
	// configured; the payment endpoints cannot operate without the store.
	ErrPaymentsUnavailable = errors.New("payment store unavailable")
	// ErrIntentNotFound is returned for unknown or expired intents.
	ErrIntentNotFound = errors.New("payment intent not found or expired")
	// ErrIntentNotPaid is returned when seat selection references an
	// intent that has not completed payment.
	ErrIntentNotPaid = errors.New("payment not completed for this intent")
	// ErrCardDeclined is returned by the simulated processor for card
	// input that fails validation.
	ErrCardDeclined = errors.New("card declined")
)

// PaymentIntent is the transient record of a checkout in progress.  It
// lives only in Redis under its TTL; completed bookings are the durable
// record, not intents.
type PaymentIntent struct {
	ID         string `json:"id"`
	UserID     uint64 `json:"user_id"`
	GameID     uint64 `json:"game_id"`
	SeatNumber int    `json:"seat_number"`
	Amount     int    `json:"amount"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// CardDetails is the card input forwarded to the simulated processor.
// Only shape validation happens here; nothing is stored.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"` // MMYY
	CVC    string `json:"cvc"`
}

// PaymentService implements the create-intent / process / verify cycle on
// top of Redis.  It stands in for the hosted gateway the production system
// talks to, behind the same endpoint surface.
type PaymentService struct {
	rdb *redis.Client
}

// NewPaymentService returns a PaymentService.  rdb may be nil, in which
// case every operation reports ErrPaymentsUnavailable.
func NewPaymentService(rdb *redis.Client) *PaymentService {
	return &PaymentService{rdb: rdb}
}

func intentKey(id string) string { return "payment:intent:" + id }

// CreateIntent registers a pending intent for the given seat and amount
// and returns it.  The intent expires unpaid after 30 minutes.
func (s *PaymentService) CreateIntent(ctx context.Context, userID, gameID uint64, seatNumber, amount int) (*PaymentIntent, error) {
	if s.rdb == nil {
		return nil, ErrPaymentsUnavailable
	}
	id, err := utils.NewOTP(0) // numeric nonce; prefixed below
	if err != nil {
		return nil, err
	}
	intent := &PaymentIntent{
		ID:         fmt.Sprintf("pi_%d_%s", time.Now().UTC().UnixNano(), id),
		UserID:     userID,
		GameID:     gameID,
		SeatNumber: seatNumber,
		Amount:     amount,
		Status:     IntentStatusPending,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// Get loads an intent by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*PaymentIntent, error) {
	if s.rdb == nil {
		return nil, ErrPaymentsUnavailable
	}
	raw, err := s.rdb.Get(ctx, intentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	var intent PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

var expiryPattern = regexp.MustCompile(`^\d{4}$`)

// Process runs the simulated charge: the card must have a plausible shape
// and the intent must still be pending.  On success the intent is marked
// PAID.  There is no real gateway behind this; the endpoint contract is
// what matters.
func (s *PaymentService) Process(ctx context.Context, id string, card CardDetails) (*PaymentIntent, error) {
	intent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if intent.Status == IntentStatusPaid {
		return intent, nil // already charged; idempotent
	}
	if err := validateCard(card); err != nil {
		return nil, err
	}
	intent.Status = IntentStatusPaid
	if err := s.store(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// VerifyPaid asserts that the intent belongs to the user, targets the given
// seat, and has completed payment.  Seat selection calls this before
// booking.
func (s *PaymentService) VerifyPaid(ctx context.Context, id string, userID, gameID uint64, seatNumber int) error {
	intent, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if intent.UserID != userID || intent.GameID != gameID || intent.SeatNumber != seatNumber {
		return ErrIntentNotFound
	}
	if intent.Status != IntentStatusPaid {
		return ErrIntentNotPaid
	}
	return nil
}

func (s *PaymentService) store(ctx context.Context, intent *PaymentIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, intentKey(intent.ID), raw, intentTTL).Err()
}

// validateCard mirrors the shape checks the checkout form applies: 16+
// digit number, MMYY expiry, 3+ digit CVC.
func validateCard(card CardDetails) error {
	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) < 16 {
		return fmt.Errorf("%w: invalid card number", ErrCardDeclined)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: invalid card number", ErrCardDeclined)
		}
	}
	if !expiryPattern.MatchString(strings.ReplaceAll(card.Expiry, "/", "")) {
		return fmt.Errorf("%w: invalid expiry date", ErrCardDeclined)
	}
	if len(card.CVC) < 3 {
		return fmt.Errorf("%w: invalid cvc", ErrCardDeclined)
	}
	return nil
}
