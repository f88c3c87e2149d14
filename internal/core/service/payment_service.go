package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// PaymentService implements the two-step payment flow: initiate returns a
// checkout URL the payer opens in a browser; confirm finalises the intent
// once the gateway redirect comes back.
type PaymentService struct {
	api ports.Dispatcher
	log zerolog.Logger
}

func NewPaymentService(api ports.Dispatcher, log zerolog.Logger) *PaymentService {
	return &PaymentService{api: api, log: log}
}

// decodePayment maps the shapes the backend uses for payment responses:
// nested under "payment" or the intent object itself, with the intent id
// under "intent_id" or "id".
func decodePayment(env *ports.Envelope) (domain.Payment, error) {
	var nested struct {
		Payment *domain.Payment `json:"payment"`
	}
	if err := env.DecodeData(&nested); err != nil {
		return domain.Payment{}, err
	}
	if nested.Payment != nil {
		return *nested.Payment, nil
	}

	var flat struct {
		domain.Payment
		ID string `json:"id"`
	}
	if err := env.DecodeData(&flat); err != nil {
		return domain.Payment{}, err
	}
	payment := flat.Payment
	if payment.IntentID == "" {
		payment.IntentID = flat.ID
	}
	return payment, nil
}

func (s *PaymentService) Initiate(ctx context.Context, input ports.InitiatePaymentInput) ports.Result[domain.Payment] {
	if err := validateInput(input); err != nil {
		return ports.Fail(domain.Payment{}, err.Error())
	}

	body := map[string]string{"booking_id": input.BookingID}
	if input.ReturnURL != "" {
		body["return_url"] = input.ReturnURL
	}

	env, err := s.api.Post(ctx, "/payments/initiate", body, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Payment{}, failureMessage(env, err))
	}

	payment, decodeErr := decodePayment(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("payment payload malformed")
		return ports.Fail(domain.Payment{}, "the backend returned an unreadable response")
	}
	if payment.IntentID == "" {
		return ports.Fail(domain.Payment{}, "the backend returned no payment intent")
	}
	s.log.Info().Str("intent_id", payment.IntentID).Str("booking_id", input.BookingID).Msg("payment initiated")
	return ports.OK(payment)
}

func (s *PaymentService) Confirm(ctx context.Context, intentID string) ports.Result[domain.Payment] {
	if intentID == "" {
		return ports.Fail(domain.Payment{}, "payment intent id is required")
	}

	env, err := s.api.Post(ctx, "/payments/confirm", map[string]string{"intent_id": intentID}, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Payment{}, failureMessage(env, err))
	}

	payment, decodeErr := decodePayment(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("intent_id", intentID).Msg("payment payload malformed")
		return ports.Fail(domain.Payment{}, "the backend returned an unreadable response")
	}
	if payment.IntentID == "" {
		payment.IntentID = intentID
	}
	s.log.Info().Str("intent_id", payment.IntentID).Str("status", payment.Status).Msg("payment confirmed")
	return ports.OK(payment)
}

var _ ports.PaymentService = (*PaymentService)(nil)
