package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/celestio/astromcp/pkg/profile"
)

var (
	askToolName    = "astro_ask"
	askDescription = "Ask an astrology question. Reference a registered profile by ID, or provide your birth details inline and a profile is created automatically for future questions."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"your astrology question (free form)"`
	Name      string `json:"name,omitempty" jsonschema:"your name (if profile not registered)"`
	DOB       string `json:"dob,omitempty" jsonschema:"date of birth YYYY-MM-DD (if profile not registered)"`
	Time      string `json:"time,omitempty" jsonschema:"time of birth HH:mm (if profile not registered)"`
	Place     string `json:"place,omitempty" jsonschema:"place of birth (if profile not registered)"`
	Timeframe string `json:"timeframe,omitempty" jsonschema:"optional timeframe hint, e.g. 'next 6 months'"`
	ProfileID string `json:"profile_id,omitempty" jsonschema:"use an existing profile ID"`
}

// AskOutput represents the structured output of an ask call.
type AskOutput struct {
	Insight        string `json:"insight"`
	ProfileID      string `json:"profile_id"`
	ProfileCreated bool   `json:"profile_created"`
}

const missingInputMessage = "No profile to read from. Pass profile_id for a registered profile, " +
	"or include name, dob (YYYY-MM-DD), time (HH:mm), and place with your question " +
	"and a profile will be created automatically. astro_register_profile also works."

// handleAsk resolves or creates a profile, then produces a reading for the
// question.
func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	if input.Question == "" {
		return toolError("question is required"), AskOutput{}, nil
	}

	p, created, errResult := s.resolveProfile(ctx, input)
	if errResult != nil {
		return errResult, AskOutput{}, nil
	}

	reading, err := s.config.Generator.Generate(ctx, p, input.Question, input.Timeframe)
	if err != nil {
		logger.Error("insight generation failed", "profile_id", p.ID, "error", err)
		return toolError(fmt.Sprintf("Unable to generate insights right now: %v", err)), AskOutput{}, nil
	}

	text := reading
	if created {
		text += fmt.Sprintf(
			"\n\n---\nProfile created! Your birth details are saved for future questions. Profile ID: `%s`",
			p.ID,
		)
	}

	output := AskOutput{
		Insight:        reading,
		ProfileID:      p.ID,
		ProfileCreated: created,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, output, nil
}

// resolveProfile loads the referenced profile, or synthesizes one from
// inline birth details. The third return value is non-nil when the caller
// should return it as the tool result.
func (s *Server) resolveProfile(ctx context.Context, input AskInput) (*profile.Profile, bool, *mcp.CallToolResult) {
	logger := s.config.Logger

	if input.ProfileID != "" {
		p, err := s.config.Store.Load(ctx, input.ProfileID)
		if err != nil {
			if profile.IsNotFound(err) {
				return nil, false, toolError(fmt.Sprintf("Profile %s not found. Register first with astro_register_profile.", input.ProfileID))
			}
			logger.Error("failed to load profile", "profile_id", input.ProfileID, "error", err)
			return nil, false, toolError(fmt.Sprintf("Failed to load profile: %v", err))
		}
		return p, false, nil
	}

	if input.Name != "" && input.DOB != "" && input.Time != "" && input.Place != "" {
		p, err := profile.New(input.Name, input.DOB, input.Time, input.Place, "")
		if err != nil {
			return nil, false, toolError(err.Error())
		}

		if err := s.config.Store.Save(ctx, p); err != nil {
			logger.Error("failed to save implicit profile", "profile_id", p.ID, "error", err)
			return nil, false, toolError(fmt.Sprintf("Failed to store profile: %v", err))
		}

		logger.Info("created profile from inline birth details", "profile_id", p.ID)
		return p, true, nil
	}

	return nil, false, toolError(missingInputMessage)
}
