package mcp

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/celestio/astromcp/pkg/logger"
	"github.com/celestio/astromcp/pkg/profile"
	"github.com/celestio/astromcp/pkg/profile/inmemory"
)

// echoGenerator mirrors its inputs so prompts can be asserted on.
type echoGenerator struct {
	err   error
	calls int
}

func (g *echoGenerator) Generate(_ context.Context, p *profile.Profile, question, timeframe string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("insight for %s: %s (%s)", p.Name, question, timeframe), nil
}

func textOf(result *sdk.CallToolResult) string {
	Expect(result.Content).To(HaveLen(1))
	text, ok := result.Content[0].(*sdk.TextContent)
	Expect(ok).To(BeTrue())
	return text.Text
}

var _ = Describe("Tool handlers", func() {
	var (
		server    *Server
		store     *inmemory.Driver
		generator *echoGenerator
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewDriver()
		generator = &echoGenerator{}

		var err error
		server, err = NewServer(Config{
			Store:       store,
			Generator:   generator,
			AuthToken:   "secret",
			PhoneNumber: "+91 98765-43210",
			Logger:      logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("validate", func() {
		It("returns the owner phone number with only digits", func() {
			result, output, err := server.handleValidate(ctx, nil, ValidateInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(textOf(result)).To(Equal("919876543210"))
			Expect(output.PhoneNumber).To(Equal("919876543210"))
		})
	})

	Describe("astro_register_profile", func() {
		validInput := RegisterInput{
			Name:  "Asha Rao",
			DOB:   "1990-05-15",
			Time:  "14:30",
			Place: "Chennai, India",
		}

		It("persists the profile and returns a summary with an initial reading", func() {
			result, output, err := server.handleRegister(ctx, nil, validInput)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.ProfileID).To(HaveLen(12))
			Expect(output.Summary).To(ContainSubstring("Profile Registered Successfully"))
			Expect(output.Summary).To(ContainSubstring(output.ProfileID))
			Expect(output.Summary).To(ContainSubstring("insight for Asha Rao"))

			saved, loadErr := store.Load(ctx, output.ProfileID)
			Expect(loadErr).NotTo(HaveOccurred())
			Expect(saved.Name).To(Equal("Asha Rao"))
		})

		It("rejects a malformed date of birth without saving anything", func() {
			input := validInput
			input.DOB = "1990-13-40"

			result, _, err := server.handleRegister(ctx, nil, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("date of birth"))
			Expect(store.Count()).To(BeZero())
			Expect(generator.calls).To(BeZero())
		})

		It("rejects a malformed time of birth", func() {
			input := validInput
			input.Time = "25:61"

			result, _, err := server.handleRegister(ctx, nil, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(store.Count()).To(BeZero())
		})

		It("reports the profile ID when the initial reading fails", func() {
			generator.err = errors.New("upstream down")

			result, _, err := server.handleRegister(ctx, nil, validInput)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("Profile registered with ID"))

			// The profile survives even though the reading failed.
			Expect(store.Count()).To(Equal(1))
		})
	})

	Describe("astro_ask", func() {
		It("requires a question", func() {
			result, _, err := server.handleAsk(ctx, nil, AskInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("question is required"))
		})

		It("answers against a registered profile by ID", func() {
			p, err := profile.New("Asha Rao", "1990-05-15", "14:30", "Chennai, India", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Save(ctx, p)).To(Succeed())

			result, output, err := server.handleAsk(ctx, nil, AskInput{
				Question:  "What about my career?",
				Timeframe: "next 6 months",
				ProfileID: p.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.ProfileID).To(Equal(p.ID))
			Expect(output.ProfileCreated).To(BeFalse())
			Expect(output.Insight).To(ContainSubstring("What about my career?"))
			Expect(output.Insight).To(ContainSubstring("next 6 months"))
		})

		It("reports an unknown profile ID without generating anything", func() {
			result, _, err := server.handleAsk(ctx, nil, AskInput{
				Question:  "What about my career?",
				ProfileID: "doesnotexist",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("not found"))
			Expect(textOf(result)).To(ContainSubstring("astro_register_profile"))
			Expect(generator.calls).To(BeZero())
		})

		It("creates a profile from inline birth details", func() {
			result, output, err := server.handleAsk(ctx, nil, AskInput{
				Question: "Will this year be good?",
				Name:     "Asha Rao",
				DOB:      "1990-05-15",
				Time:     "14:30",
				Place:    "Chennai, India",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.ProfileCreated).To(BeTrue())
			Expect(output.ProfileID).NotTo(BeEmpty())
			Expect(textOf(result)).To(ContainSubstring("Profile created!"))
			Expect(textOf(result)).To(ContainSubstring(output.ProfileID))

			_, loadErr := store.Load(ctx, output.ProfileID)
			Expect(loadErr).NotTo(HaveOccurred())
		})

		It("rejects inline details with an invalid date", func() {
			result, _, err := server.handleAsk(ctx, nil, AskInput{
				Question: "Will this year be good?",
				Name:     "Asha Rao",
				DOB:      "15-05-1990",
				Time:     "14:30",
				Place:    "Chennai, India",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(store.Count()).To(BeZero())
		})

		It("explains what to provide when neither ID nor full details are given", func() {
			result, _, err := server.handleAsk(ctx, nil, AskInput{
				Question: "Tell me something",
				Name:     "Asha Rao",
				DOB:      "1990-05-15",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("profile_id"))
			Expect(textOf(result)).To(ContainSubstring("astro_register_profile"))
		})

		It("surfaces generation failures as tool errors", func() {
			generator.err = errors.New("rate limited")

			result, _, err := server.handleAsk(ctx, nil, AskInput{
				Question: "Will this year be good?",
				Name:     "Asha Rao",
				DOB:      "1990-05-15",
				Time:     "14:30",
				Place:    "Chennai, India",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textOf(result)).To(ContainSubstring("Unable to generate insights"))
		})
	})
})
