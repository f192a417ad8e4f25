package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateOTP generates a numeric OTP of the given length, drawn uniformly
// from the full zero-padded space (000000-999999 for length 6). Leading
// zeros are kept. Length is capped at 18 so the draw fits in an int64.
func GenerateOTP(length int) (string, error) {
	if length < 1 || length > 18 {
		return "", fmt.Errorf("invalid OTP length %d", length)
	}

	space := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, space)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}

// GenerateLegacyToken generates an opaque link token with at least 128 bits
// of entropy. Only pre-cutover accounts still receive these.
func GenerateLegacyToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate legacy token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
