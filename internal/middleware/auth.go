package middleware

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/dashboard"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "ecodash_session"

// DefaultSessionTTL is how long an admin session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

type session struct {
	user      dashboard.User
	expiresAt time.Time
}

// Sessions keeps admin sessions in memory, keyed by the SHA-256 of the token
// so raw tokens are never stored.
type Sessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	byHash   map[string]session
	newToken func() (string, error)
}

// NewSessions returns an empty session table.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		ttl:      ttl,
		now:      time.Now,
		byHash:   make(map[string]session),
		newToken: generateToken,
	}
}

// Issue creates a session for user and returns its token.
func (s *Sessions) Issue(user dashboard.User) (string, time.Time, error) {
	token, err := s.newToken()
	if err != nil {
		return "", time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt := s.now().Add(s.ttl)
	s.byHash[hashToken(token)] = session{user: user, expiresAt: expiresAt}
	return token, expiresAt, nil
}

// Lookup returns the user behind token. Expired sessions are dropped.
func (s *Sessions) Lookup(token string) (dashboard.User, bool) {
	if token == "" {
		return dashboard.User{}, false
	}
	key := hashToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byHash[key]
	if !ok {
		return dashboard.User{}, false
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.byHash, key)
		return dashboard.User{}, false
	}
	return sess.user, true
}

// Revoke removes the session for token.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byHash, hashToken(token))
}

// RevokeAll removes every session.
func (s *Sessions) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.byHash)
}

// AuthState reports whether an admin is signed in.
type AuthState interface {
	IsAuthenticated() bool
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(c fiber.Ctx) string {
	token := c.Cookies(SessionCookie)
	if token == "" {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	return token
}

// RequireAdmin rejects requests without a live session, or while the store
// is signed out.
func RequireAdmin(sessions *Sessions, state AuthState) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - no session token provided",
			})
		}

		user, ok := sessions.Lookup(token)
		if !ok || !state.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - invalid or expired session",
			})
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c fiber.Ctx) *dashboard.User {
	if user, ok := c.Locals("user").(*dashboard.User); ok {
		return user
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashToken creates SHA256 hash of token for lookup
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
