package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

func TestPaymentService_Initiate_Success(t *testing.T) {
	api := &stubDispatcher{fn: func(method, path string, body any, _ *ports.CallOptions) (*ports.Envelope, error) {
		if method != "POST" || path != "/payments/initiate" {
			t.Fatalf("unexpected call: %s %s", method, path)
		}
		fields := body.(map[string]string)
		if fields["booking_id"] != "b1" || fields["return_url"] != "http://127.0.0.1:8931/payments/return" {
			t.Fatalf("unexpected body: %+v", fields)
		}
		return envOK(`{"payment":{"intent_id":"pi_1","booking_id":"b1","checkout_url":"https://pay.example/p/pi_1","status":"requires_action"}}`), nil
	}}
	svc := NewPaymentService(api, zerolog.Nop())

	res := svc.Initiate(context.Background(), ports.InitiatePaymentInput{
		BookingID: "b1",
		ReturnURL: "http://127.0.0.1:8931/payments/return",
	})
	if !res.Success {
		t.Fatalf("initiate failed: %s", res.Message)
	}
	if res.Data.IntentID != "pi_1" || res.Data.CheckoutURL == "" {
		t.Fatalf("unexpected payment: %+v", res.Data)
	}
}

func TestPaymentService_Initiate_FlatShapeWithIDKey(t *testing.T) {
	api := &stubDispatcher{fn: func(_, _ string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		return envOK(`{"id":"pi_2","booking_id":"b1","status":"requires_action"}`), nil
	}}
	svc := NewPaymentService(api, zerolog.Nop())

	res := svc.Initiate(context.Background(), ports.InitiatePaymentInput{BookingID: "b1"})
	if !res.Success || res.Data.IntentID != "pi_2" {
		t.Fatalf("alternate shape not handled: %+v", res)
	}
}

func TestPaymentService_Initiate_NoIntentFails(t *testing.T) {
	api := &stubDispatcher{fn: func(_, _ string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		return envOK(`{}`), nil
	}}
	svc := NewPaymentService(api, zerolog.Nop())

	if res := svc.Initiate(context.Background(), ports.InitiatePaymentInput{BookingID: "b1"}); res.Success {
		t.Fatalf("expected failure when no intent is returned")
	}
}

func TestPaymentService_Confirm_Success(t *testing.T) {
	api := &stubDispatcher{fn: func(_, path string, body any, _ *ports.CallOptions) (*ports.Envelope, error) {
		if path != "/payments/confirm" {
			t.Fatalf("unexpected path: %s", path)
		}
		if body.(map[string]string)["intent_id"] != "pi_1" {
			t.Fatalf("unexpected body: %+v", body)
		}
		return envOK(`{"payment":{"intent_id":"pi_1","status":"succeeded"}}`), nil
	}}
	svc := NewPaymentService(api, zerolog.Nop())

	res := svc.Confirm(context.Background(), "pi_1")
	if !res.Success || res.Data.Status != "succeeded" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPaymentService_Confirm_ServerFailure(t *testing.T) {
	api := &stubDispatcher{fn: func(_, _ string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		return envFail("card declined"), fmt.Errorf("%w", domain.ErrUnavailable)
	}}
	svc := NewPaymentService(api, zerolog.Nop())

	res := svc.Confirm(context.Background(), "pi_1")
	if res.Success || res.Message != "card declined" {
		t.Fatalf("expected server message, got %+v", res)
	}
}

func TestPaymentService_Confirm_RequiresIntent(t *testing.T) {
	svc := NewPaymentService(&stubDispatcher{}, zerolog.Nop())
	if res := svc.Confirm(context.Background(), ""); res.Success {
		t.Fatalf("expected failure without intent id")
	}
}
