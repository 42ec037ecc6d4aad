package security

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const tokenKeyLength = 32

// DeriveTokenKey expands the channel secret into a dedicated signing key
// for web link tokens. Deriving instead of signing with the raw secret
// keeps the channel credential out of the token pipeline.
func DeriveTokenKey(channelSecret string, purpose string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(channelSecret), nil, []byte(purpose))
	key := make([]byte, tokenKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
