package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

func TestSOSService_Send_Success(t *testing.T) {
	var gotRef string
	api := &stubDispatcher{fn: func(method, path string, body any, _ *ports.CallOptions) (*ports.Envelope, error) {
		if method != "POST" || path != "/sos" {
			t.Fatalf("unexpected call: %s %s", method, path)
		}
		gotRef = body.(map[string]any)["client_ref"].(string)
		return envOK(`{"alert":{"id":"a1","status":"received"}}`), nil
	}}
	svc := NewSOSService(api, zerolog.Nop())

	res := svc.Send(context.Background(), ports.SendSOSInput{Latitude: 15.49, Longitude: 73.82, Message: "help"})
	if !res.Success {
		t.Fatalf("send failed: %s", res.Message)
	}
	if res.Data.ID != "a1" || res.Data.Status != "received" {
		t.Fatalf("unexpected alert: %+v", res.Data)
	}
	if gotRef == "" {
		t.Fatalf("expected generated client ref")
	}
	if res.Data.ClientRef != gotRef {
		t.Fatalf("client ref not carried into the result: %q vs %q", res.Data.ClientRef, gotRef)
	}
}

func TestSOSService_Send_CoordinateBounds(t *testing.T) {
	svc := NewSOSService(&stubDispatcher{fn: func(_, _ string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		t.Fatalf("network must not be touched")
		return nil, nil
	}}, zerolog.Nop())

	if res := svc.Send(context.Background(), ports.SendSOSInput{Latitude: 120, Longitude: 0}); res.Success {
		t.Fatalf("expected validation failure for latitude out of range")
	}
}

func TestSOSService_Send_NetworkFailureStillHasMessage(t *testing.T) {
	api := &stubDispatcher{fn: func(_, _ string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		return nil, fmt.Errorf("%w: no route", domain.ErrUnavailable)
	}}
	svc := NewSOSService(api, zerolog.Nop())

	res := svc.Send(context.Background(), ports.SendSOSInput{Latitude: 1, Longitude: 1})
	if res.Success || res.Message == "" {
		t.Fatalf("expected failed result with message: %+v", res)
	}
}

func TestSOSService_Status(t *testing.T) {
	api := &stubDispatcher{fn: func(_, path string, _ any, _ *ports.CallOptions) (*ports.Envelope, error) {
		if path != "/sos/a1" {
			t.Fatalf("unexpected path: %s", path)
		}
		return envOK(`{"id":"a1","status":"responder_dispatched"}`), nil
	}}
	svc := NewSOSService(api, zerolog.Nop())

	res := svc.Status(context.Background(), "a1")
	if !res.Success || res.Data.Status != "responder_dispatched" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if res := svc.Status(context.Background(), ""); res.Success {
		t.Fatalf("expected failure without alert id")
	}
}
