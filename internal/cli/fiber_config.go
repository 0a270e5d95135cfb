//go:build !docker

package cli

import "github.com/gofiber/fiber/v3"

// createListenConfig returns listener options for bare metal runs. Prefork
// stays off: every process would hold its own copy of the store.
func createListenConfig() fiber.ListenConfig {
	return fiber.ListenConfig{
		EnablePrefork: false,
	}
}
