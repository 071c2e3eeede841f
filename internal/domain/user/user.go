package user

import (
	"github.com/eliteprep/eliteprep-api/internal/apperr"
	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
)

var (
	ErrNotFound           = apperr.New(apperr.NotFound, "user_not_found", "User not found")
	ErrEmailTaken         = apperr.New(apperr.Conflict, "email_taken", "Email already exists")
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid_credentials", "Invalid username or password")
)

// User is keyed by email, compared exactly as stored.
//
// PerformanceTrends is nil when the record has no trend list at all, which
// is a different state from an empty list.
type User struct {
	Email             string           `json:"email"`
	Password          string           `json:"-"` // never expose the stored credential
	Onboarding        *onboarding.Data `json:"onboarding_data,omitempty"`
	PerformanceTrends []trend.Entry    `json:"performance_trends"`
}

// New is the shape of a freshly registered user: no onboarding data and an
// empty, present trend list.
func New(email, credential string) User {
	return User{
		Email:             email,
		Password:          credential,
		PerformanceTrends: []trend.Entry{},
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,password"`
}

// Login accepts the full user document; anything besides the credentials is
// ignored.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
