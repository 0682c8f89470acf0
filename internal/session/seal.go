package session

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealInfo = "accessgate/session-token"

// ErrSealCorrupt indicates ciphertext that cannot be authenticated. Callers
// treat it as absence of the persisted credential, never as a fatal error.
var ErrSealCorrupt = errors.New("session: sealed credential corrupt")

// Sealer encrypts the upstream bearer token before it touches Redis.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the sealing key from the configured session secret.
func NewSealer(secret string) (*Sealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts the token for storage.
func (s *Sealer) Seal(token string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a stored token. Any malformed or tampered input yields ErrSealCorrupt.
func (s *Sealer) Open(stored string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(stored)
	if err != nil {
		return "", ErrSealCorrupt
	}
	if len(raw) < s.aead.NonceSize() {
		return "", ErrSealCorrupt
	}
	nonce, sealed := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	token, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrSealCorrupt
	}
	return string(token), nil
}
