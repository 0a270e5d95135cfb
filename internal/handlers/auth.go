package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/logging"
	"github.com/seuros/ecodash/internal/middleware"
	"github.com/seuros/ecodash/internal/validation"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    *dashboard.User `json:"user,omitempty"`
}

// HandleLogin checks the admin credentials and opens a session
func (a *API) HandleLogin(c fiber.Ctx) error {
	var req LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.Login(req.Email, req.Password); err != nil {
		return invalid(c, err)
	}

	if !a.Store.Login(req.Email, req.Password) {
		logging.L().Info("admin login rejected", zap.String("email", req.Email))
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	user, _ := a.Store.User()

	token, expiresAt, err := a.Sessions.Issue(user)
	if err != nil {
		return internalError(c, "Failed to create session", err)
	}

	sameSite := fiber.CookieSameSiteLaxMode
	if a.SecureCookies {
		sameSite = fiber.CookieSameSiteNoneMode // Required for cross-domain dashboards
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   a.SecureCookies,
		SameSite: sameSite,
		Path:     "/",
	})

	return c.JSON(LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    &user,
	})
}

// HandleLogout signs the admin out. The store holds a single admin, so every
// open session ends with it.
func (a *API) HandleLogout(c fiber.Ctx) error {
	a.Store.Logout()
	a.Sessions.RevokeAll()
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

// HandleMe returns current user info
func (a *API) HandleMe(c fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(user)
}
