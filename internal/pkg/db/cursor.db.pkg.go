package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// cursorCrypto encodes pagination cursors opaquely so clients cannot forge or
// inspect them. The key is derived from the connection settings, which keeps
// cursors stable per deployment without extra configuration.
type cursorCrypto struct {
	gcm cipher.AEAD
}

func newCursorCrypto(seed []byte) (*cursorCrypto, error) {
	key := sha256.Sum256(seed)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to init cursor cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init cursor GCM: %w", err)
	}

	return &cursorCrypto{gcm: gcm}, nil
}

func (c *cursorCrypto) encode(plain string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.gcm.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *cursorCrypto) decode(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("malformed cursor: %w", err)
	}

	if len(raw) < c.gcm.NonceSize() {
		return "", fmt.Errorf("malformed cursor")
	}

	nonce, sealed := raw[:c.gcm.NonceSize()], raw[c.gcm.NonceSize():]
	plain, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: %w", err)
	}

	return string(plain), nil
}

// EncodeCursor wraps an ordering value (e.g. a created_at timestamp) into an
// opaque page cursor.
func (db *Database) EncodeCursor(value string) (string, error) {
	return db.cursorCrypto.encode(value)
}

// DecodeCursor unwraps a page cursor produced by EncodeCursor.
func (db *Database) DecodeCursor(cursor string) (string, error) {
	return db.cursorCrypto.decode(cursor)
}
