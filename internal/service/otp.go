package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seatlotto/seat-lottery/internal/utils"
)

// otpTTL is how long a password-reset code stays valid.
const otpTTL = 10 * time.Minute

// resetTTL is how long a verified reset window stays open.
const resetTTL = 10 * time.Minute

var (
	// ErrOTPUnavailable is returned when no Redis client is configured.
	ErrOTPUnavailable = errors.New("otp store unavailable")
	// ErrOTPInvalid is returned for wrong, expired or already-used codes.
	ErrOTPInvalid = errors.New("invalid or expired code")
	// ErrResetNotVerified is returned when reset-password is called
	// without a prior successful verify-otp.
	ErrResetNotVerified = errors.New("otp not verified for this email")
)

// OTPService issues and verifies password-reset codes.  Codes live in
// Redis under a TTL and are single-use: verification deletes the code and
// opens a short reset window during which the password may be changed.
// Delivery (email) is out of scope here; issued codes are handed to the
// notifier via the application log.
type OTPService struct {
	rdb *redis.Client
}

// NewOTPService returns an OTPService.  rdb may be nil, in which case
// every operation reports ErrOTPUnavailable.
func NewOTPService(rdb *redis.Client) *OTPService {
	return &OTPService{rdb: rdb}
}

func otpKey(email string) string   { return "otp:code:" + email }
func resetKey(email string) string { return "otp:verified:" + email }

// Issue generates a 6-digit code for the email and stores it for otpTTL.
// Re-issuing replaces any previous code.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", ErrOTPUnavailable
	}
	email = normalizeEmail(email)
	code, err := utils.NewOTP(6)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return "", err
	}
	// Stand-in for the mailer integration.
	log.Printf("otp: issued password reset code for %s", email)
	return code, nil
}

// Verify checks the code for the email.  A correct code is consumed and a
// reset window is opened; a wrong code leaves the stored code in place so
// the user can retry until it expires.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	if s.rdb == nil {
		return ErrOTPUnavailable
	}
	email = normalizeEmail(email)
	stored, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if stored != strings.TrimSpace(code) {
		return ErrOTPInvalid
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, otpKey(email))
	pipe.Set(ctx, resetKey(email), "1", resetTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// ConsumeReset closes the reset window for the email, returning
// ErrResetNotVerified when none is open.  Called once by reset-password.
func (s *OTPService) ConsumeReset(ctx context.Context, email string) error {
	if s.rdb == nil {
		return ErrOTPUnavailable
	}
	email = normalizeEmail(email)
	n, err := s.rdb.Del(ctx, resetKey(email)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetNotVerified
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
