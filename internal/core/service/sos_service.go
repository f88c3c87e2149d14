package service

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// SOSService raises emergency alerts and polls their handling status. Every
// alert carries a client-generated reference so a resent alert can be
// correlated server-side.
type SOSService struct {
	api ports.Dispatcher
	log zerolog.Logger
}

func NewSOSService(api ports.Dispatcher, log zerolog.Logger) *SOSService {
	return &SOSService{api: api, log: log}
}

// decodeAlert maps alert responses: nested under "alert" or the object
// itself.
func decodeAlert(env *ports.Envelope) (domain.SOSAlert, error) {
	var nested struct {
		Alert *domain.SOSAlert `json:"alert"`
	}
	if err := env.DecodeData(&nested); err != nil {
		return domain.SOSAlert{}, err
	}
	if nested.Alert != nil {
		return *nested.Alert, nil
	}

	var flat domain.SOSAlert
	if err := env.DecodeData(&flat); err != nil {
		return domain.SOSAlert{}, err
	}
	return flat, nil
}

func (s *SOSService) Send(ctx context.Context, input ports.SendSOSInput) ports.Result[domain.SOSAlert] {
	if err := validateInput(input); err != nil {
		return ports.Fail(domain.SOSAlert{}, err.Error())
	}

	clientRef := uuid.NewString()
	body := map[string]any{
		"client_ref": clientRef,
		"latitude":   input.Latitude,
		"longitude":  input.Longitude,
		"message":    input.Message,
	}

	env, err := s.api.Post(ctx, "/sos", body, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.SOSAlert{}, failureMessage(env, err))
	}

	alert, decodeErr := decodeAlert(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("sos payload malformed")
		return ports.Fail(domain.SOSAlert{}, "the backend returned an unreadable response")
	}
	if alert.ClientRef == "" {
		alert.ClientRef = clientRef
	}
	s.log.Warn().
		Str("alert_id", alert.ID).
		Float64("latitude", input.Latitude).
		Float64("longitude", input.Longitude).
		Msg("sos alert sent")
	return ports.OK(alert)
}

func (s *SOSService) Status(ctx context.Context, alertID string) ports.Result[domain.SOSAlert] {
	if alertID == "" {
		return ports.Fail(domain.SOSAlert{}, "alert id is required")
	}

	env, err := s.api.Get(ctx, "/sos/"+url.PathEscape(alertID), nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.SOSAlert{}, failureMessage(env, err))
	}

	alert, decodeErr := decodeAlert(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("alert_id", alertID).Msg("sos payload malformed")
		return ports.Fail(domain.SOSAlert{}, "the backend returned an unreadable response")
	}
	return ports.OK(alert)
}

var _ ports.SOSService = (*SOSService)(nil)
