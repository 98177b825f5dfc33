package usecase

import (
	"studiobook/internal/pkg/errs"
	"studiobook/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrUnauthorized = errs.New("unauthorized")

// AuthenticatedUser is the identity attached to a request after token
// validation.
type AuthenticatedUser struct {
	UserID uuid.UUID
	Role   string
}

type TokenValidator interface {
	Validate(token string) (*AuthenticatedUser, error)
}

type tokenValidator struct {
	jwt *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &tokenValidator{jwt: svc}
}

func (v *tokenValidator) Validate(token string) (*AuthenticatedUser, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, ErrUnauthorized)
	}
	return &AuthenticatedUser{UserID: claims.UserID, Role: claims.Role}, nil
}
