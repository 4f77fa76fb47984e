// Package mcp provides the MCP (Model Context Protocol) server exposing the
// astrologer tools over the streamable HTTP transport.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/celestio/astromcp/pkg/insight"
	"github.com/celestio/astromcp/pkg/profile"
	"github.com/celestio/astromcp/pkg/utils"
)

type Config struct {
	// Store persists and resolves birth profiles
	Store profile.Store

	// Generator produces astrological readings from profiles
	Generator insight.Generator

	// AuthToken is the bearer token required on every tool call
	AuthToken string

	// PhoneNumber is the owner's phone number returned by the validate tool
	PhoneNumber string

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the astrologer tools.
func NewServer(c Config) (*Server, error) {
	if c.Store == nil {
		return nil, errors.New("profile store is required")
	}
	if c.Generator == nil {
		return nil, errors.New("insight generator is required")
	}
	if c.AuthToken == "" {
		return nil, errors.New("auth token is required")
	}
	if c.PhoneNumber == "" {
		return nil, errors.New("phone number is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "astromcp",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        validateToolName,
		Description: validateDescription,
	}, s.handleValidate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        registerToolName,
		Description: registerDescription,
	}, s.handleRegister)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)

	s.mcpServer = mcpServer

	// Streamable HTTP handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server. Bearer auth runs in
// front of the transport, so a bad token is rejected before any tool side
// effect.
func (s *Server) Handler() http.Handler {
	return bearerAuth(s.config.AuthToken, s.config.Logger, s.handler)
}
