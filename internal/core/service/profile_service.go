package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// ProfileService fetches and updates the authenticated user's profile. Every
// successful call refreshes the cached snapshot in the credential store.
type ProfileService struct {
	api   ports.Dispatcher
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewProfileService(api ports.Dispatcher, store ports.CredentialStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{api: api, store: store, log: log}
}

// decodeProfile maps the shapes the backend uses for profile responses:
// nested under "user" or "profile", or the profile object itself.
func decodeProfile(env *ports.Envelope) (domain.Profile, error) {
	var nested struct {
		User    *domain.Profile `json:"user"`
		Profile *domain.Profile `json:"profile"`
	}
	if err := env.DecodeData(&nested); err != nil {
		return domain.Profile{}, err
	}
	if nested.User != nil {
		return *nested.User, nil
	}
	if nested.Profile != nil {
		return *nested.Profile, nil
	}

	var flat domain.Profile
	if err := env.DecodeData(&flat); err != nil {
		return domain.Profile{}, err
	}
	return flat, nil
}

func (s *ProfileService) Get(ctx context.Context) ports.Result[domain.Profile] {
	env, err := s.api.Get(ctx, "/users/me", nil)
	return s.finish(env, err)
}

func (s *ProfileService) Update(ctx context.Context, input ports.UpdateProfileInput) ports.Result[domain.Profile] {
	if err := validateInput(input); err != nil {
		return ports.Fail(domain.Profile{}, err.Error())
	}

	body := map[string]string{}
	if input.Name != "" {
		body["name"] = input.Name
	}
	if input.Email != "" {
		body["email"] = input.Email
	}
	if input.Phone != "" {
		body["phone"] = input.Phone
	}
	if len(body) == 0 {
		return ports.Fail(domain.Profile{}, "nothing to update")
	}

	env, err := s.api.Put(ctx, "/users/me", body, nil)
	return s.finish(env, err)
}

func (s *ProfileService) finish(env *ports.Envelope, err error) ports.Result[domain.Profile] {
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Profile{}, failureMessage(env, err))
	}

	profile, decodeErr := decodeProfile(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("profile payload malformed")
		return ports.Fail(domain.Profile{}, "the backend returned an unreadable response")
	}
	if profile.ID != "" {
		s.store.SetUser(&profile)
	}
	return ports.OK(profile)
}

var _ ports.ProfileService = (*ProfileService)(nil)
