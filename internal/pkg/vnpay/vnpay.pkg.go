package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Gateway return URL query parameters. A URL is a completion URL only when
// both are present; success requires both to equal CodeSuccess.
const (
	ParamResponseCode      = "vnp_ResponseCode"
	ParamTransactionStatus = "vnp_TransactionStatus"
	ParamTxnRef            = "vnp_TxnRef"
	ParamSecureHash        = "vnp_SecureHash"
	ParamSecureHashType    = "vnp_SecureHashType"

	CodeSuccess = "00"
)

type Config struct {
	TmnCode    string
	HashSecret string
	ReturnURL  string
}

// ReturnParams are the completion-relevant fields of a gateway return URL.
type ReturnParams struct {
	ResponseCode      string
	TransactionStatus string
	TxnRef            string
}

// IsSuccess reports whether the return carries the joint success signature.
// Either code alone is not enough.
func (p ReturnParams) IsSuccess() bool {
	return p.ResponseCode == CodeSuccess && p.TransactionStatus == CodeSuccess
}

// IsComplete reports whether both completion parameters are present. A URL
// with only one of them (or neither) is not a completion URL and must be
// ignored rather than guessed at.
func (p ReturnParams) IsComplete() bool {
	return p.ResponseCode != "" && p.TransactionStatus != ""
}

// ParseReturnURL extracts the completion parameters from any URL. ok is false
// when the URL cannot be parsed at all; callers should then ignore the event.
func ParseReturnURL(rawURL string) (params ReturnParams, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ReturnParams{}, false
	}

	return ParseReturnQuery(u.Query()), true
}

// ParseReturnQuery extracts the completion parameters from a query string.
func ParseReturnQuery(q url.Values) ReturnParams {
	return ReturnParams{
		ResponseCode:      q.Get(ParamResponseCode),
		TransactionStatus: q.Get(ParamTransactionStatus),
		TxnRef:            q.Get(ParamTxnRef),
	}
}

// VerifySecureHash checks the HMAC-SHA512 signature of an IPN query against
// the merchant hash secret. The hash covers every vnp_ parameter except the
// hash fields themselves, sorted by name and URL-encoded.
func VerifySecureHash(q url.Values, hashSecret string) bool {
	received := q.Get(ParamSecureHash)
	if received == "" {
		return false
	}

	keys := make([]string, 0, len(q))
	for key := range q {
		if key == ParamSecureHash || key == ParamSecureHashType {
			continue
		}
		if !strings.HasPrefix(key, "vnp_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(hashSecret))
	mac.Write([]byte(sb.String()))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}
