package grcAuth

import (
	"crypto/rand"
	"math/big"
	"strings"
)

func generateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		digits = defaultOTPDigits
	}

	var b strings.Builder
	b.Grow(digits)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// maskEmail keeps the first three characters and stars the rest. The masked
// form is the only shape of the destination address that leaves the engine;
// an address too short to carry a prefix is starred entirely.
func maskEmail(email string) string {
	if len(email) <= 3 {
		return strings.Repeat("*", len(email))
	}
	return email[:3] + strings.Repeat("*", len(email)-3)
}
