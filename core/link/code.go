package link

import (
	"crypto/rand"
	"math/big"
	"time"
)

// codeAlphabet excludes visually confusing characters: I, O, 0, 1.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
	maxAttempts  = 10
)

var (
	NowFunc = time.Now // mockable

	randIndexFunc = randIndex // mockable
)

func randIndex(n int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return int(i.Int64())
}

// generateCode draws a random 6-character code from the unambiguous alphabet.
func generateCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[randIndexFunc(len(codeAlphabet))]
	}
	return string(buf)
}
