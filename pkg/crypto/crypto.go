package crypto

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// redeemAlphabet avoids characters users confuse when typing codes
// from printed cards (0/O, 1/I/L).
const redeemAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

func GenerateRedeemCode(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = redeemAlphabet[RandIntn(len(redeemAlphabet))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
