package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the astrologer service. It serves the
// status and health endpoints directly and delegates /mcp traffic to the
// MCP streamable HTTP handler.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The MCP handler is injected so the
// tool surface and its auth stay owned by the mcp package.
func NewServer(config Config, mcpHandler http.Handler, logger *slog.Logger) (*Server, error) {
	if mcpHandler == nil {
		return nil, errors.New("mcp handler is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Get("/", s.handleStatus)
	app.Get("/health", s.handleHealth)

	tools := adaptor.HTTPHandler(mcpHandler)
	app.All("/mcp", tools)
	app.All("/mcp/*", tools)

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
