package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/celestio/astromcp/pkg/utils"
)

// StatusResponse describes the running service for the root endpoint.
type StatusResponse struct {
	Status           string            `json:"status"`
	Service          string            `json:"service"`
	Version          string            `json:"version"`
	Endpoints        map[string]string `json:"endpoints"`
	Storage          string            `json:"storage"`
	OpenAIConfigured bool              `json:"openai_configured"`
}

// handleStatus returns a service description for browsers and probes
// hitting the root path.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Status:  "ok",
		Service: "Astrologer MCP Server",
		Version: utils.Version,
		Endpoints: map[string]string{
			"mcp":    "/mcp",
			"health": "/health",
		},
		Storage:          s.config.StorageBackend,
		OpenAIConfigured: s.config.OpenAIConfigured,
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
