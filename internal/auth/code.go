package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// codeAttempts bounds the retry loop; with the default code size a
// collision is already vanishingly unlikely.
const codeAttempts = 10

// NewConfirmationCode draws size random bytes and renders them as a
// 2*size hex string. taken reports whether a code is already assigned
// to some user; on collision a fresh code is drawn.
func NewConfirmationCode(size int, taken func(code string) (bool, error)) (string, error) {
	if size <= 0 {
		return "", errors.New("confirmation code size must be positive")
	}
	for i := 0; i < codeAttempts; i++ {
		buf := make([]byte, size)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("draw confirmation code: %w", err)
		}
		code := hex.EncodeToString(buf)
		inUse, err := taken(code)
		if err != nil {
			return "", fmt.Errorf("check confirmation code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique confirmation code")
}
