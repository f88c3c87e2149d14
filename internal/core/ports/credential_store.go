package ports

import "github.com/triporia/booking-client/internal/core/domain"

// CredentialStore is the durable, synchronous-read home of the bearer token
// and the cached profile snapshot. Implementations never return errors:
// storage failures degrade to "absent" because a lost session is recoverable
// by logging in again, while a crash is not.
//
// The store is always injected explicitly; no package reads it through a
// global.
type CredentialStore interface {
	// Token returns the stored bearer token, or "" when absent.
	Token() string
	// SetToken persists the token; "" clears it.
	SetToken(token string)
	// User returns the cached profile snapshot. Missing or malformed stored
	// data reads as absent.
	User() (domain.Profile, bool)
	// SetUser persists the profile snapshot; nil clears it.
	SetUser(p *domain.Profile)
	// ClearIfTokenMatches atomically clears both token and profile, but only
	// when the currently stored token equals stale. Used by the 401 teardown
	// so that a login that raced the failing request keeps its newer token.
	ClearIfTokenMatches(stale string) bool
}
