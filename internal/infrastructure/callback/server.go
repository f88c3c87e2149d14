// Package callback runs the short-lived localhost listener that captures the
// payment gateway's redirect during the initiate → confirm flow. The CLI
// passes the listener's URL as the payment return URL, waits for the gateway
// to bounce the payer back, then confirms the intent with the backend.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Outcome is what the gateway redirect reports.
type Outcome struct {
	IntentID string
	Status   string
}

// Server is a one-shot redirect listener. Start it, hand ReturnURL to the
// payment initiation, then Wait for the outcome.
type Server struct {
	echo    *echo.Echo
	addr    string
	outcome chan Outcome
	log     zerolog.Logger
}

// New builds a listener bound to 127.0.0.1:port. Port 0 picks a free port.
func New(port int, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	s := &Server{
		echo:    e,
		addr:    fmt.Sprintf("127.0.0.1:%d", port),
		outcome: make(chan Outcome, 1),
		log:     log,
	}
	e.GET("/payments/return", s.handleReturn)
	return s
}

// Start begins listening and serving in the background. It returns once the
// listener is bound, so ReturnURL is valid immediately after.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("callback listen: %w", err)
	}
	s.echo.Listener = ln
	s.addr = ln.Addr().String()

	go func() {
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn().Err(err).Msg("callback server stopped unexpectedly")
		}
	}()
	return nil
}

// ReturnURL is the address the gateway should redirect to.
func (s *Server) ReturnURL() string {
	return "http://" + s.addr + "/payments/return"
}

// Wait blocks until the redirect arrives or ctx expires.
func (s *Server) Wait(ctx context.Context) (Outcome, error) {
	select {
	case out := <-s.outcome:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleReturn(c echo.Context) error {
	out := Outcome{
		IntentID: c.QueryParam("intent_id"),
		Status:   c.QueryParam("status"),
	}
	if out.Status == "" {
		out.Status = "unknown"
	}

	// only the first redirect counts; replays are acknowledged but dropped
	select {
	case s.outcome <- out:
	default:
	}

	return c.HTML(http.StatusOK,
		"<html><body><h3>Payment received by Triporia.</h3><p>You can close this tab and return to the terminal.</p></body></html>")
}
