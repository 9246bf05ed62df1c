package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewOTP returns a zero-padded numeric one-time password of the given
// number of digits, generated from crypto/rand.  Used by the password
// reset flow.
func NewOTP(digits int) (string, error) {
	if digits <= 0 {
		digits = 6
	}
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
