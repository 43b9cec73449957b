// Package session holds the authenticated identity of the current user.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/xenking/storefront/internal/storage"
)

// Storage keys owned by the session store.
const (
	KeyToken = "session.token"
	KeyRole  = "session.role"
)

var (
	// ErrUnauthorized is returned when the API rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLoginRequired is returned when an operation needs an authenticated session.
	ErrLoginRequired = errors.New("login required")
	// ErrForbidden is returned when a non-admin session attempts an admin operation.
	ErrForbidden = errors.New("admin access required")
)

// Role is the access level of a session.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a server or storage value to a Role. Unknown values yield
// false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleGuest:
		return RoleGuest, true
	case RoleCustomer, "user":
		return RoleCustomer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Session is the identity held by the client.
type Session struct {
	Token string
	Role  Role
}

// Authenticated reports whether a token is present. No server validation is
// implied.
func (s Session) Authenticated() bool { return s.Token != "" }

// IsAdmin reports whether the session is an authenticated admin.
func (s Session) IsAdmin() bool { return s.Authenticated() && s.Role == RoleAdmin }

// Credentials are the sign-in form fields.
type Credentials struct {
	Email    string
	Password string
}

// Grant is what a successful sign-in returns. Role may be empty when the
// server only encodes it in the token.
type Grant struct {
	Token string
	Role  string
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	SignIn(ctx context.Context, creds Credentials) (*Grant, error)
}

// Store is the only writer of the session. Everything else reads it through
// Get or Token.
type Store struct {
	kv storage.Store

	mu      sync.RWMutex
	current Session
}

// NewStore returns a guest Store. Call Load to restore a persisted session.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv, current: Session{Role: RoleGuest}}
}

// Load restores the persisted session. A stored token is trusted as is.
func (s *Store) Load(ctx context.Context) error {
	token, err := s.kv.Get(ctx, KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		s.replace(Session{Role: RoleGuest})
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "load token")
	}

	var stored string
	if raw, err := s.kv.Get(ctx, KeyRole); err == nil {
		stored = string(raw)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return errors.Wrap(err, "load role")
	}

	s.replace(Session{Token: string(token), Role: resolveRole(stored, string(token))})
	return nil
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current token, empty for guests.
func (s *Store) Token() string {
	return s.Get().Token
}

// Set persists and activates a session.
func (s *Store) Set(ctx context.Context, token string, role Role) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := s.kv.Set(ctx, KeyToken, []byte(token)); err != nil {
		return errors.Wrap(err, "persist token")
	}
	if err := s.kv.Set(ctx, KeyRole, []byte(role)); err != nil {
		return errors.Wrap(err, "persist role")
	}
	s.replace(Session{Token: token, Role: role})
	return nil
}

// Clear forgets the session both in memory and in storage.
func (s *Store) Clear(ctx context.Context) error {
	s.replace(Session{Role: RoleGuest})
	if err := s.kv.Delete(ctx, KeyToken, KeyRole); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

// SignIn authenticates with the API and stores the resulting session.
func (s *Store) SignIn(ctx context.Context, auth Authenticator, creds Credentials) (Session, error) {
	grant, err := auth.SignIn(ctx, creds)
	if err != nil {
		return Session{}, errors.Wrap(err, "sign in")
	}
	if grant.Token == "" {
		return Session{}, errors.New("sign in: empty token in response")
	}

	role := resolveRole(grant.Role, grant.Token)
	if err := s.Set(ctx, grant.Token, role); err != nil {
		return Session{}, err
	}
	return s.Get(), nil
}

func (s *Store) replace(next Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

// resolveRole prefers an explicit role, then the token's role claim, then
// customer.
func resolveRole(explicit, token string) Role {
	if r, ok := ParseRole(explicit); ok && r != RoleGuest {
		return r
	}
	if r, ok := RoleFromToken(token); ok {
		return r
	}
	return RoleCustomer
}

// RoleFromToken reads the "role" claim of a JWT without verifying its
// signature. Opaque tokens yield false.
func RoleFromToken(token string) (Role, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	raw, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	r, ok := ParseRole(raw)
	if !ok || r == RoleGuest {
		return "", false
	}
	return r, true
}
