package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/celestio/astromcp/pkg/utils"
)

var (
	validateToolName    = "validate"
	validateDescription = "Validate this server for an MCP host. Returns the service owner's phone number as a bare digit string."
)

// ValidateInput is empty; the tool takes no arguments.
type ValidateInput struct{}

// ValidateOutput carries the owner's phone number.
type ValidateOutput struct {
	PhoneNumber string `json:"phone_number"`
}

// handleValidate returns the configured owner phone number, digits only.
func (s *Server) handleValidate(_ context.Context, _ *mcp.CallToolRequest, _ ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
	number := utils.Digits(s.config.PhoneNumber)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: number},
		},
	}, ValidateOutput{PhoneNumber: number}, nil
}
