package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/celestio/astromcp/pkg/profile"
)

var (
	registerToolName    = "astro_register_profile"
	registerDescription = "Register your birth details for personalized astrological insights. Returns a profile ID reusable on future questions."
)

// RegisterInput represents the input arguments for the registration tool.
type RegisterInput struct {
	Name      string `json:"name" jsonschema:"your full name"`
	DOB       string `json:"dob" jsonschema:"date of birth in YYYY-MM-DD format"`
	Time      string `json:"time" jsonschema:"time of birth in HH:mm (24h) format"`
	Place     string `json:"place" jsonschema:"place of birth (city, state, country)"`
	SessionID string `json:"session_id,omitempty" jsonschema:"optional session ID for memory persistence"`
}

// RegisterOutput represents the structured output of a registration.
type RegisterOutput struct {
	ProfileID string `json:"profile_id"`
	Summary   string `json:"summary"`
}

// handleRegister validates birth details, persists a new profile, and
// returns a registration summary with an initial reading.
func (s *Server) handleRegister(ctx context.Context, _ *mcp.CallToolRequest, input RegisterInput) (*mcp.CallToolResult, RegisterOutput, error) {
	logger := s.config.Logger

	p, err := profile.New(input.Name, input.DOB, input.Time, input.Place, input.SessionID)
	if err != nil {
		return toolError(err.Error()), RegisterOutput{}, nil
	}

	if err := s.config.Store.Save(ctx, p); err != nil {
		logger.Error("failed to save profile", "profile_id", p.ID, "error", err)
		return toolError(fmt.Sprintf("Failed to store profile: %v", err)), RegisterOutput{}, nil
	}

	logger.Info("registered profile",
		"profile_id", p.ID,
		"place", p.Place,
	)

	reading, err := s.config.Generator.Generate(ctx, p, "", "")
	if err != nil {
		logger.Error("initial insight generation failed", "profile_id", p.ID, "error", err)
		return toolError(fmt.Sprintf(
			"Profile registered with ID %s, but the initial reading failed: %v", p.ID, err,
		)), RegisterOutput{}, nil
	}

	summary := fmt.Sprintf(
		"**Profile Registered Successfully!**\n\n"+
			"**Profile ID**: %s\n"+
			"**Name**: %s\n"+
			"**Birth**: %s at %s\n"+
			"**Place**: %s\n\n"+
			"%s\n\n"+
			"You can now ask specific astrological questions using your registered profile.",
		p.ID, p.Name, p.DOB, p.Time, p.Place, reading,
	)

	output := RegisterOutput{
		ProfileID: p.ID,
		Summary:   summary,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
		},
	}, output, nil
}

// toolError wraps a message as a failed tool call result.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
