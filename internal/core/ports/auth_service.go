package ports

import (
	"context"
	"time"

	"github.com/triporia/booking-client/internal/core/domain"
)

// RegisterInput carries the fields required to create a platform account.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"omitempty,min=7"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=tourist vendor admin"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthData is the payload of successful register/login calls.
type AuthData struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

// AuthService owns the session lifecycle: it composes the auth operations
// into the Anonymous/Authenticated notion of "current session". Successful
// register/login persist the credential as a side effect; logout and the
// dispatcher's 401 teardown clear it.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) Result[AuthData]
	Login(ctx context.Context, input LoginInput) Result[AuthData]
	// Logout notifies the backend best-effort; the local transition to
	// Anonymous always completes, even when the server call fails.
	Logout(ctx context.Context) Result[Ack]
	SendOTP(ctx context.Context, phone string) Result[Ack]
	VerifyPhone(ctx context.Context, phone, code string) Result[Ack]

	// IsAuthenticated reports whether the store currently holds a credential.
	IsAuthenticated() bool
	// CurrentUser returns the cached profile snapshot without a round trip.
	CurrentUser() (domain.Profile, bool)
	// TokenExpiresAt reports the stored token's exp claim when it parses as a
	// JWT. Advisory only; the backend stays authoritative.
	TokenExpiresAt() (time.Time, bool)
}
