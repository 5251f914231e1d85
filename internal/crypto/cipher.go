package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrAuthentication is returned when a ciphertext fails to decrypt, either
// because it was tampered with or because it was sealed under a different
// key. It is never allowed to surface as corrupted plaintext.
var ErrAuthentication = errors.New("ciphertext authentication failed")

// Cipher provides authenticated encryption (AES-256-GCM) under a single
// process-wide key. The key is read-only after construction, so a Cipher is
// safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from an explicit 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// NewDerivedCipher derives the key from a process secret with a one-way
// hash so that restarts stay compatible with previously encrypted data.
func NewDerivedCipher(secret string) (*Cipher, error) {
	key := sha256.Sum256([]byte(secret))

	return NewCipher(key[:])
}

// KeyFromHex decodes a hex-encoded 32-byte key as supplied by an operator.
func KeyFromHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	return key, nil
}

// Encrypt seals the plaintext with a fresh random nonce, prepended to the
// returned ciphertext. Repeated encryption of identical plaintext yields
// different ciphertexts.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Any tampered, truncated,
// or foreign input fails with ErrAuthentication.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrAuthentication
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}
