package helper

import (
	types "decor-wallet/internal/common/type"
	"decor-wallet/internal/pkg/logger"
	"net/http"
)

// ParseResponse normalizes a service response: fills a default code and
// message, and logs the underlying error server-side so handlers never leak
// internals to the client.
func ParseResponse(r *types.Response) *types.Response {
	if r.Code == 0 {
		r.Code = http.StatusOK
	}

	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}

	if r.Error != nil && r.Code >= http.StatusInternalServerError {
		logger.Error.Printf("response %d: %s: %v", r.Code, r.Message, r.Error)
	}

	return r
}

// ToAPI converts the internal envelope to its wire shape. Error details are
// only exposed for client errors.
func ToAPI(r *types.Response) *types.ResponseAPI {
	api := &types.ResponseAPI{
		Code:    r.Code,
		Message: r.Message,
		Data:    r.Data,
	}

	if r.Error != nil && r.Code >= http.StatusBadRequest && r.Code < http.StatusInternalServerError {
		api.Error = r.Error.Error()
	}

	return api
}
