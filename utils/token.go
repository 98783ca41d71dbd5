package utils

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// GenerateNumericCode returns a random code of n digits, for MFA and password resets.
func GenerateNumericCode(n int) (string, error) {
	code := make([]byte, n)
	max := big.NewInt(int64(len(digits)))
	for i := range code {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = digits[d.Int64()]
	}
	return string(code), nil
}
