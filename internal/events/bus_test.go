package events

import "testing"

func TestBus_PublishReachesSubscriber(t *testing.T) {
	bus := NewBus()

	var got []SessionInvalidated
	handler := func(ev SessionInvalidated) { got = append(got, ev) }
	if err := bus.SubscribeSessionInvalidated(handler); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	bus.PublishSessionInvalidated(SessionInvalidated{Path: "/bookings", Reason: "unauthorized"})

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Path != "/bookings" || got[0].Reason != "unauthorized" {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0
	handler := func(SessionInvalidated) { calls++ }
	if err := bus.SubscribeSessionInvalidated(handler); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := bus.UnsubscribeSessionInvalidated(handler); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}

	bus.PublishSessionInvalidated(SessionInvalidated{Path: "/x", Reason: "unauthorized"})

	if calls != 0 {
		t.Fatalf("expected no deliveries after unsubscribe, got %d", calls)
	}
}
