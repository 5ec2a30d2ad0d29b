package identity

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// NewAEADDecryptor returns a Decryptor for contact fields sealed with
// XChaCha20-Poly1305 and stored base64-encoded as nonce||ciphertext.
// Empty ciphertext decrypts to the empty string.
func NewAEADDecryptor(key []byte) (Decryptor, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create aead: %w", err)
	}

	return func(ciphertext string) (string, error) {
		if ciphertext == "" {
			return "", nil
		}

		raw, err := base64.StdEncoding.DecodeString(ciphertext)
		if err != nil {
			return "", fmt.Errorf("decode ciphertext: %w", err)
		}
		if len(raw) < aead.NonceSize() {
			return "", fmt.Errorf("ciphertext shorter than nonce (%d bytes)", len(raw))
		}

		nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
		plain, err := aead.Open(nil, nonce, sealed, nil)
		if err != nil {
			return "", fmt.Errorf("open ciphertext: %w", err)
		}
		return string(plain), nil
	}, nil
}

// PlaintextDecryptor passes fields through unchanged. Fixture mode only.
func PlaintextDecryptor(ciphertext string) (string, error) {
	return ciphertext, nil
}
