package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorCryptoRoundTrip(t *testing.T) {
	crypto, err := newCursorCrypto([]byte("user-pass-dbname"))
	require.NoError(t, err)

	plain := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC).Format(time.RFC3339Nano)

	encoded, err := crypto.encode(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, encoded)

	decoded, err := crypto.decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, plain, decoded)
}

func TestCursorCryptoRejectsTampering(t *testing.T) {
	crypto, err := newCursorCrypto([]byte("seed"))
	require.NoError(t, err)

	encoded, err := crypto.encode("2026-01-01T00:00:00Z")
	require.NoError(t, err)

	_, err = crypto.decode(encoded + "x")
	assert.Error(t, err)

	_, err = crypto.decode("!!not-base64!!")
	assert.Error(t, err)

	_, err = crypto.decode("")
	assert.Error(t, err)
}

func TestCursorCryptoKeysDiffer(t *testing.T) {
	a, err := newCursorCrypto([]byte("deployment-a"))
	require.NoError(t, err)
	b, err := newCursorCrypto([]byte("deployment-b"))
	require.NoError(t, err)

	encoded, err := a.encode("2026-01-01T00:00:00Z")
	require.NoError(t, err)

	_, err = b.decode(encoded)
	assert.Error(t, err)
}
