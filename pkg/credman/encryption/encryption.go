// Package encryption seals short secrets with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

const gcmPrefix = "gcm1:"

var ErrMalformed = errors.New("malformed sealed value")

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts value under key and returns "gcm1:" followed by the hex of
// nonce||ciphertext.
func Seal(value string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := gcm.Seal(nonce, nonce, []byte(value), nil)
	return gcmPrefix + hex.EncodeToString(out), nil
}

// Open reverses Seal.
func Open(sealed string, key []byte) (string, error) {
	if !strings.HasPrefix(sealed, gcmPrefix) {
		return "", ErrMalformed
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(sealed, gcmPrefix))
	if err != nil {
		return "", ErrMalformed
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", ErrMalformed
	}
	nonce, data := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
