package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
	"github.com/triporia/booking-client/internal/events"
)

// memStore is an in-memory credential store for dispatcher tests.
type memStore struct {
	mu    sync.Mutex
	token string
	user  *domain.Profile
}

func (s *memStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *memStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *memStore) User() (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.Profile{}, false
	}
	return *s.user, true
}

func (s *memStore) SetUser(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = p
}

func (s *memStore) ClearIfTokenMatches(stale string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stale == "" || s.token != stale {
		return false
	}
	s.token = ""
	s.user = nil
	return true
}

func newTestClient(t *testing.T, handler http.Handler, store ports.CredentialStore, bus *events.Bus) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL}, store, bus, zerolog.Nop())
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	store := &memStore{token: "tok_1"}
	client := newTestClient(t, handler, store, events.NewBus())

	env, err := client.Get(context.Background(), "/hotels", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	if gotAuth != "Bearer tok_1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	if _, err := client.Get(context.Background(), "/hotels", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestClient_QueryAndBody(t *testing.T) {
	var gotQuery, gotContentType, gotBody string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	q := url.Values{}
	q.Set("destination", "Goa")
	_, err := client.Post(context.Background(), "/bookings", map[string]string{"hotel_id": "h1"}, &ports.CallOptions{Query: q})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "destination=Goa" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if gotBody != `{"hotel_id":"h1"}` {
		t.Fatalf("unexpected body: %q", gotBody)
	}
}

func TestClient_UnauthorizedClearsStoreAndPublishesOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})
	store := &memStore{token: "tok_1", user: &domain.Profile{ID: "1"}}
	bus := events.NewBus()

	var mu sync.Mutex
	var published []events.SessionInvalidated
	if err := bus.SubscribeSessionInvalidated(func(ev events.SessionInvalidated) {
		mu.Lock()
		published = append(published, ev)
		mu.Unlock()
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	client := newTestClient(t, handler, store, bus)
	_, err := client.Get(context.Background(), "/bookings", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if got := store.Token(); got != "" {
		t.Fatalf("expected token cleared, got %q", got)
	}
	if _, ok := store.User(); ok {
		t.Fatalf("expected cached profile cleared")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 {
		t.Fatalf("expected exactly one invalidation event, got %d", len(published))
	}
	if published[0].Path != "/bookings" || published[0].Reason != "unauthorized" {
		t.Fatalf("unexpected event: %+v", published[0])
	}
}

func TestClient_UnauthorizedKeepsNewerToken(t *testing.T) {
	store := &memStore{token: "tok_old"}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A login completed while this request was in flight.
		store.SetToken("tok_new")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	bus := events.NewBus()
	var count int
	_ = bus.SubscribeSessionInvalidated(func(events.SessionInvalidated) { count++ })

	client := newTestClient(t, handler, store, bus)
	_, err := client.Get(context.Background(), "/profile", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if got := store.Token(); got != "tok_new" {
		t.Fatalf("login must win: expected tok_new to survive, got %q", got)
	}
	if count != 0 {
		t.Fatalf("no invalidation event expected when the clear was skipped, got %d", count)
	}
}

func TestClient_ServerErrorCarriesMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"check-out before check-in"}`))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	env, err := client.Post(context.Background(), "/bookings", map[string]string{}, nil)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.Status != http.StatusUnprocessableEntity || se.Message != "check-out before check-in" {
		t.Fatalf("unexpected server error: %+v", se)
	}
	if env.FailureMessage() != "check-out before check-in" {
		t.Fatalf("unexpected envelope message: %q", env.FailureMessage())
	}
}

func TestClient_TimeoutIsDistinct(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	_, err := client.Get(context.Background(), "/slow", &ports.CallOptions{Timeout: 20 * time.Millisecond})
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("timeout must not classify as unavailable")
	}
}

func TestClient_ConnectionFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(Options{BaseURL: srv.URL}, &memStore{}, events.NewBus(), zerolog.Nop())

	_, err := client.Get(context.Background(), "/hotels", nil)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_BodyLevelFailurePassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"no rooms left"}`))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	env, err := client.Get(context.Background(), "/hotels", nil)
	if err != nil {
		t.Fatalf("2xx with body failure is not a transport error: %v", err)
	}
	if env.Success {
		t.Fatalf("expected body-level failure")
	}
	if env.FailureMessage() != "no rooms left" {
		t.Fatalf("unexpected message: %q", env.FailureMessage())
	}
}

func TestClient_NonJSONBodyReadsAsEmptyEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	})
	client := newTestClient(t, handler, &memStore{}, events.NewBus())

	env, err := client.Get(context.Background(), "/hotels", nil)
	var se *ServerError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
		t.Fatalf("expected 502 ServerError, got %v", err)
	}
	if env.FailureMessage() != "" {
		t.Fatalf("expected empty message from non-JSON body, got %q", env.FailureMessage())
	}
}
