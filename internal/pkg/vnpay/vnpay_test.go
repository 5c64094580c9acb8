package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReturnURL(t *testing.T) {
	t.Run("complete success URL", func(t *testing.T) {
		params, ok := ParseReturnURL("https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_TxnRef=TOPUP-1")
		require.True(t, ok)
		assert.True(t, params.IsComplete())
		assert.True(t, params.IsSuccess())
		assert.Equal(t, "TOPUP-1", params.TxnRef)
	})

	t.Run("complete failure URL", func(t *testing.T) {
		params, ok := ParseReturnURL("https://pay.example.com/return?vnp_ResponseCode=24&vnp_TransactionStatus=02")
		require.True(t, ok)
		assert.True(t, params.IsComplete())
		assert.False(t, params.IsSuccess())
	})

	t.Run("response code alone is not complete", func(t *testing.T) {
		params, ok := ParseReturnURL("https://pay.example.com/return?vnp_ResponseCode=00")
		require.True(t, ok)
		assert.False(t, params.IsComplete())
		assert.False(t, params.IsSuccess())
	})

	t.Run("transaction status alone is not complete", func(t *testing.T) {
		params, ok := ParseReturnURL("https://pay.example.com/return?vnp_TransactionStatus=00")
		require.True(t, ok)
		assert.False(t, params.IsComplete())
	})

	t.Run("unrelated URL", func(t *testing.T) {
		params, ok := ParseReturnURL("https://pay.example.com/step2?token=abc")
		require.True(t, ok)
		assert.False(t, params.IsComplete())
	})

	t.Run("unparseable URL", func(t *testing.T) {
		_, ok := ParseReturnURL("://not-a-url")
		assert.False(t, ok)
	})
}

func signQuery(q url.Values, secret string) string {
	keys := make([]string, 0, len(q))
	for key := range q {
		if key == ParamSecureHash || key == ParamSecureHashType {
			continue
		}
		if strings.HasPrefix(key, "vnp_") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(q.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySecureHash(t *testing.T) {
	secret := "test-hash-secret"

	q := url.Values{}
	q.Set("vnp_TmnCode", "DEMO01")
	q.Set("vnp_TxnRef", "TOPUP-42")
	q.Set("vnp_Amount", "15000000")
	q.Set("vnp_ResponseCode", "00")
	q.Set("vnp_TransactionStatus", "00")

	t.Run("valid signature", func(t *testing.T) {
		signed := url.Values{}
		for k, v := range q {
			signed[k] = v
		}
		signed.Set(ParamSecureHash, signQuery(q, secret))
		signed.Set(ParamSecureHashType, "HmacSHA512")

		assert.True(t, VerifySecureHash(signed, secret))
	})

	t.Run("uppercase signature accepted", func(t *testing.T) {
		signed := url.Values{}
		for k, v := range q {
			signed[k] = v
		}
		signed.Set(ParamSecureHash, strings.ToUpper(signQuery(q, secret)))

		assert.True(t, VerifySecureHash(signed, secret))
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		signed := url.Values{}
		for k, v := range q {
			signed[k] = v
		}
		signed.Set(ParamSecureHash, signQuery(q, secret))
		signed.Set("vnp_Amount", "99900000")

		assert.False(t, VerifySecureHash(signed, secret))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		signed := url.Values{}
		for k, v := range q {
			signed[k] = v
		}
		signed.Set(ParamSecureHash, signQuery(q, "other-secret"))

		assert.False(t, VerifySecureHash(signed, secret))
	})

	t.Run("missing hash rejected", func(t *testing.T) {
		assert.False(t, VerifySecureHash(q, secret))
	})

	t.Run("non-vnp parameters do not affect the hash", func(t *testing.T) {
		signed := url.Values{}
		for k, v := range q {
			signed[k] = v
		}
		signed.Set(ParamSecureHash, signQuery(q, secret))
		signed.Set("utm_source", "app")

		assert.True(t, VerifySecureHash(signed, secret))
	})
}
