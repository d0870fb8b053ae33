package usecase

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes gives 192 bits of entropy, comfortably above the point where
// collisions or guessing matter at any realistic booking volume.
const tokenBytes = 24

// GenerateToken returns a URL-safe random token for cancel/modify links
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
