package middleware

import (
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/logging"
)

// OriginGuard rejects state-changing requests whose Origin (or Referer) host
// is not one of trusted. Requests without either header pass, since they
// cannot come from a browser form on another site.
func OriginGuard(trusted []string) fiber.Handler {
	allowed := make([]string, 0, len(trusted))
	for _, t := range trusted {
		allowed = append(allowed, strings.ToLower(t))
	}

	return func(c fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		source := c.Get(fiber.HeaderOrigin)
		if source == "" {
			source = c.Get(fiber.HeaderReferer)
		}
		if source == "" {
			return c.Next()
		}

		host := originHost(source)
		if host != "" && (host == strings.ToLower(c.Host()) || slices.Contains(allowed, host) || slices.Contains(allowed, hostname(host))) {
			return c.Next()
		}

		logging.L().Warn("blocked cross-origin request",
			zap.String("origin", source),
			zap.String("path", c.Path()))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden - untrusted origin",
		})
	}
}

func originHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func hostname(hostPort string) string {
	if h, _, ok := strings.Cut(hostPort, ":"); ok {
		return h
	}
	return hostPort
}
