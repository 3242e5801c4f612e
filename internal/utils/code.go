package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateCode returns an n-digit numeric verification code.
func GenerateCode(n int) string {
	const digits = "0123456789"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			out[i] = '0'
			continue
		}
		out[i] = digits[idx.Int64()]
	}
	return string(out)
}
