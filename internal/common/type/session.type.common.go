package types

import (
	"github.com/google/uuid"
)

// UserWithAuth is the customer identity carried in the JWT. The ID doubles as
// the wallet-core customer id.
type UserWithAuth struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Phone   string    `json:"phone" validate:"omitempty"`
	IsVerif bool      `json:"is_verif" validate:"omitempty"`
}
