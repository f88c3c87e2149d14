package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// stubDispatcher routes every verb through a single function and records the
// calls it saw.
type stubDispatcher struct {
	mu    sync.Mutex
	calls []dispatchedCall
	fn    func(method, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error)
}

type dispatchedCall struct {
	Method string
	Path   string
	Body   any
	Opts   *ports.CallOptions
}

func (d *stubDispatcher) dispatch(method, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	d.mu.Lock()
	d.calls = append(d.calls, dispatchedCall{Method: method, Path: path, Body: body, Opts: opts})
	d.mu.Unlock()
	return d.fn(method, path, body, opts)
}

func (d *stubDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *stubDispatcher) Get(_ context.Context, path string, opts *ports.CallOptions) (*ports.Envelope, error) {
	return d.dispatch("GET", path, nil, opts)
}

func (d *stubDispatcher) Post(_ context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return d.dispatch("POST", path, body, opts)
}

func (d *stubDispatcher) Put(_ context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return d.dispatch("PUT", path, body, opts)
}

func (d *stubDispatcher) Patch(_ context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return d.dispatch("PATCH", path, body, opts)
}

func (d *stubDispatcher) Delete(_ context.Context, path string, opts *ports.CallOptions) (*ports.Envelope, error) {
	return d.dispatch("DELETE", path, nil, opts)
}

// envOK builds a success envelope around raw JSON data.
func envOK(data string) *ports.Envelope {
	env := &ports.Envelope{Success: true}
	if data != "" {
		env.Data = json.RawMessage(data)
	}
	return env
}

// envFail builds a body-level failure envelope.
func envFail(message string) *ports.Envelope {
	return &ports.Envelope{Success: false, Message: message}
}

// memStore is an in-memory credential store.
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
	if p == nil {
		s.user = nil
		return
	}
	clone := *p
	s.user = &clone
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

// stubCache records offline-cache writes.
type stubCache struct {
	mu       sync.Mutex
	bookings []domain.Booking
	searches map[string][]domain.Hotel
	saveErr  error
}

func newStubCache() *stubCache {
	return &stubCache{searches: make(map[string][]domain.Hotel)}
}

func (c *stubCache) SaveBookings(_ context.Context, bookings []domain.Booking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.bookings = append([]domain.Booking(nil), bookings...)
	return nil
}

func (c *stubCache) Bookings(_ context.Context) ([]domain.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Booking(nil), c.bookings...), nil
}

func (c *stubCache) SaveHotelSearch(_ context.Context, destination string, hotels []domain.Hotel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.searches[destination] = append([]domain.Hotel(nil), hotels...)
	return nil
}

func (c *stubCache) HotelSearch(_ context.Context, destination string) ([]domain.Hotel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Hotel(nil), c.searches[destination]...), nil
}
