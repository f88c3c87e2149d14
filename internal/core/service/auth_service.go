package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// AuthService implements the session lifecycle: register, login, logout, OTP
// verification, and the synchronous session queries. Successful auth calls
// persist the credential and profile snapshot into the injected store; the
// dispatcher's 401 teardown and explicit logout clear them.
type AuthService struct {
	api   ports.Dispatcher
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewAuthService(api ports.Dispatcher, store ports.CredentialStore, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, store: store, log: log}
}

// authPayload enumerates the shapes the backend uses for auth responses: the
// token under "token" or "access_token", the profile under "user" or
// "profile".
type authPayload struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
	User        *domain.Profile `json:"user"`
	Profile     *domain.Profile `json:"profile"`
}

func (p authPayload) token() string {
	if p.Token != "" {
		return p.Token
	}
	return p.AccessToken
}

func (p authPayload) user() domain.Profile {
	if p.User != nil {
		return *p.User
	}
	if p.Profile != nil {
		return *p.Profile
	}
	return domain.Profile{}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) ports.Result[ports.AuthData] {
	if err := validateInput(input); err != nil {
		return ports.Fail(ports.AuthData{}, err.Error())
	}

	body := map[string]string{
		"name":     input.Name,
		"email":    input.Email,
		"phone":    input.Phone,
		"password": input.Password,
		"role":     input.Role,
	}
	env, err := s.api.Post(ctx, "/auth/register", body, nil)
	return s.finishAuth(env, err)
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) ports.Result[ports.AuthData] {
	if err := validateInput(input); err != nil {
		return ports.Fail(ports.AuthData{}, err.Error())
	}

	body := map[string]string{"email": input.Email, "password": input.Password}
	env, err := s.api.Post(ctx, "/auth/login", body, nil)
	return s.finishAuth(env, err)
}

// finishAuth normalizes an auth response and, on success, persists the
// credential before returning so that IsAuthenticated is true by the time the
// caller sees the result.
func (s *AuthService) finishAuth(env *ports.Envelope, err error) ports.Result[ports.AuthData] {
	if err != nil || env == nil || !env.Success {
		return ports.Fail(ports.AuthData{}, failureMessage(env, err))
	}

	var payload authPayload
	if decodeErr := env.DecodeData(&payload); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("auth payload malformed")
		return ports.Fail(ports.AuthData{}, "the backend returned an unreadable response")
	}

	token := payload.token()
	if token == "" {
		return ports.Fail(ports.AuthData{}, "the backend returned no session token")
	}

	user := payload.user()
	s.store.SetToken(token)
	s.store.SetUser(&user)
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session established")

	return ports.OK(ports.AuthData{Token: token, User: user})
}

// Logout notifies the backend best-effort and always completes the local
// transition to Anonymous. Server-side failures are logged and ignored.
func (s *AuthService) Logout(ctx context.Context) ports.Result[ports.Ack] {
	if _, err := s.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed, clearing session anyway")
	}
	s.store.SetToken("")
	s.store.SetUser(nil)
	return ports.OK(ports.Ack{})
}

func (s *AuthService) SendOTP(ctx context.Context, phone string) ports.Result[ports.Ack] {
	if phone == "" {
		return ports.Fail(ports.Ack{}, "phone is required")
	}
	env, err := s.api.Post(ctx, "/auth/otp/send", map[string]string{"phone": phone}, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(ports.Ack{}, failureMessage(env, err))
	}
	return ports.OK(ports.Ack{})
}

func (s *AuthService) VerifyPhone(ctx context.Context, phone, code string) ports.Result[ports.Ack] {
	if phone == "" || code == "" {
		return ports.Fail(ports.Ack{}, "phone and code are required")
	}
	env, err := s.api.Post(ctx, "/auth/otp/verify", map[string]string{"phone": phone, "code": code}, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(ports.Ack{}, failureMessage(env, err))
	}

	// Reflect the verification in the cached snapshot without a re-fetch.
	if user, ok := s.store.User(); ok {
		user.PhoneVerified = true
		user.Phone = phone
		s.store.SetUser(&user)
	}
	return ports.OK(ports.Ack{})
}

// IsAuthenticated reports whether the store holds a credential.
func (s *AuthService) IsAuthenticated() bool {
	return s.store.Token() != ""
}

// CurrentUser returns the cached profile snapshot, when present.
func (s *AuthService) CurrentUser() (domain.Profile, bool) {
	return s.store.User()
}

// TokenExpiresAt reports the exp claim of the stored token when it parses as
// a JWT. The claim is read without signature verification; it is advisory
// only and never used to grant access.
func (s *AuthService) TokenExpiresAt() (time.Time, bool) {
	token := s.store.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

var _ ports.AuthService = (*AuthService)(nil)
