package users

import (
	"github.com/google/uuid"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
)

// PublicProfile is the account projection safe to return to clients.
// Hash and salt never leave the service layer.
type PublicProfile struct {
	ID      uuid.UUID      `json:"_id"`
	Email   string         `json:"email"`
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
}

// FromModel projects a stored user onto its public shape.
func FromModel(user *models.User) *PublicProfile {
	if user == nil {
		return nil
	}
	return &PublicProfile{
		ID:      user.ID,
		Email:   user.Email,
		Token:   user.Token,
		Account: user.Account,
	}
}

// SignupInput holds the validated signup payload.
type SignupInput struct {
	Email      string  `json:"email" validate:"required,email"`
	Username   string  `json:"username" validate:"required"`
	Password   string  `json:"password" validate:"required"`
	Phone      *string `json:"phone"`
	AvatarPath string  `json:"-"`
}

// LoginInput holds the validated login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
