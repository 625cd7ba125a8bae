// File: /services/otp.go
package services

import (
	"crypto/rand"
	"math/big"
	"time"
)

const otpDigits = 6

// Clock lets tests move time forward past an OTP expiry.
type Clock func() time.Time

// GenerateOTP returns a zero-padded 6-digit numeric code.
func GenerateOTP() (string, error) {
	code := make([]byte, otpDigits)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
