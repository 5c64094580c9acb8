package types

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Response is the internal envelope every service method returns. Handlers
// never build HTTP responses themselves; they hand this to the `send` func
// injected by the response middleware.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   error  `json:"-"`
}

// ResponseAPI is the wire shape of Response, used for swagger docs and the
// response middleware.
type ResponseAPI struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ValidateStringToBool(fl validator.FieldLevel) bool {
	_, err := strconv.ParseBool(fl.Field().String())
	return err == nil
}
