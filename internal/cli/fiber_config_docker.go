//go:build docker

package cli

import "github.com/gofiber/fiber/v3"

// createListenConfig returns listener options for the container image. The
// banner is dropped so container logs stay structured JSON.
func createListenConfig() fiber.ListenConfig {
	return fiber.ListenConfig{
		EnablePrefork:         false,
		DisableStartupMessage: true,
	}
}
