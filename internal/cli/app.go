package cli

import (
	"errors"

	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/config"
	"github.com/seuros/ecodash/internal/handlers"
	"github.com/seuros/ecodash/internal/logging"
	"github.com/seuros/ecodash/internal/middleware"
)

// bodyLimit caps request bodies; the largest payload is a chart definition.
const bodyLimit = 1 << 20

// createFiberConfig returns Fiber configuration.
func createFiberConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:   appName,
		BodyLimit: bodyLimit,
		// Use X-Forwarded-For to get real client IP behind reverse proxy
		ProxyHeader:  fiber.HeaderXForwardedFor,
		ErrorHandler: jsonErrorHandler,
	}
}

// jsonErrorHandler renders errors that escape the handlers in the API's
// {"error": "..."} envelope. Details of unexpected errors stay in the log.
func jsonErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logging.L().Error("request failed",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// newApp wires the middleware chain and mounts api.
func newApp(cfg *config.Config, api *handlers.API) *fiber.App {
	app := fiber.New(createFiberConfig("ecodash " + Version))

	app.Use(recover.New())
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logging.L(),
	}))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowOrigins(),
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	}
	// Credentials cannot be combined with the wildcard origin
	corsConfig.AllowCredentials = len(corsConfig.AllowOrigins) > 0
	app.Use(cors.New(corsConfig))

	app.Use(middleware.OriginGuard(cfg.TrustedOrigins))

	// Add version header to all responses
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Ecodash-Version", Version)
		return c.Next()
	})

	api.Register(app)
	return app
}
