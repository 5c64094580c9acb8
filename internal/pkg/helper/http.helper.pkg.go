package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

/*----------- HTTPMethodEnum -----------*/

type HTTPMethodEnum string

const (
	GET    HTTPMethodEnum = "GET"
	POST   HTTPMethodEnum = "POST"
	PUT    HTTPMethodEnum = "PUT"
	PATCH  HTTPMethodEnum = "PATCH"
	DELETE HTTPMethodEnum = "DELETE"
)

func (e HTTPMethodEnum) ToString() string {
	return string(e)
}

func (e HTTPMethodEnum) IsValid() bool {
	switch e {
	case GET, POST, PUT, PATCH, DELETE:
		return true
	}
	return false
}

/*----------- Request / response shapes -----------*/

type HTTPRequestPayload struct {
	Method HTTPMethodEnum
	URL    string
	Body   any
	Params map[string]string
}

type BasicAuth struct {
	Username string
	Password string
}

type HTTPRequestConfig struct {
	Ctx     context.Context
	Headers http.Header
	Auth    *BasicAuth
}

// HTTPAPIResponse carries the decoded response body. Data is a generic value
// because upstream services give no schema guarantees; callers dig out what
// they need defensively.
type HTTPAPIResponse struct {
	StatusCode int
	Headers    http.Header
	Data       any
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if payload.Body == nil {
		return nil, nil
	}

	switch v := payload.Body.(type) {
	case []byte:
		return bytes.NewReader(v), nil
	case string:
		return bytes.NewReader([]byte(v)), nil
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if config.Headers == nil {
			config.Headers = http.Header{}
		}
		if config.Headers.Get("Content-Type") == "" {
			config.Headers.Set("Content-Type", "application/json")
		}
		return bytes.NewReader(jsonBytes), nil
	}
}

func parseResponseBody(resp *http.Response) (any, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON, hand back the raw text.
		return string(raw), nil
	}

	return decoded, nil
}
