// Package auth checks the admin credentials configured for the dashboard.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seuros/ecodash/internal/dashboard"
)

// DemoPassword is accepted when no password hash is configured.
const DemoPassword = "password"

// MinPasswordLength applies to passwords hashed through the CLI.
const MinPasswordLength = 8

// StaticAuthenticator accepts a single configured admin account.
type StaticAuthenticator struct {
	email        string
	passwordHash []byte
	userID       string
}

// NewStaticAuthenticator builds an authenticator for email. An empty hash
// means the demo password.
func NewStaticAuthenticator(email, passwordHash string) (*StaticAuthenticator, error) {
	hash := []byte(passwordHash)
	if passwordHash == "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &StaticAuthenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		userID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("ecodash:"+email)).String(),
	}, nil
}

// UsesDemoPassword reports whether the authenticator was built without a hash.
func (a *StaticAuthenticator) UsesDemoPassword() bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(DemoPassword)) == nil
}

// Authenticate returns the admin user when email and password match.
func (a *StaticAuthenticator) Authenticate(email, password string) (dashboard.User, error) {
	if strings.ToLower(strings.TrimSpace(email)) != a.email {
		return dashboard.User{}, dashboard.ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return dashboard.User{}, dashboard.ErrInvalidCredentials
	}
	if err != nil {
		return dashboard.User{}, fmt.Errorf("password check failed: %w", err)
	}

	return dashboard.User{
		ID:    a.userID,
		Name:  "Admin User",
		Email: a.email,
		Role:  "admin",
	}, nil
}

// HashPassword returns a bcrypt hash suitable for admin_password_hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
