package openai

import (
	"fmt"

	"github.com/celestio/astromcp/pkg/profile"
)

const systemPrompt = "You are a wise and knowledgeable Vedic astrologer who " +
	"provides insightful, personalized, and encouraging astrological guidance. " +
	"Your responses should be detailed, specific to the person's birth details, " +
	"and practical."

// buildPrompt renders the user prompt for a reading. Two shapes: a
// question-specific consultation, or a full birth-chart analysis when no
// question is asked (the initial reading after registration).
func buildPrompt(p *profile.Profile, question, timeframe string) string {
	if question != "" {
		if timeframe == "" {
			timeframe = "General guidance"
		}
		return fmt.Sprintf(
			"You are an expert Vedic astrologer. Provide personalized astrological insights for:\n\n"+
				"Name: %s\n"+
				"Birth Details: %s\n"+
				"Question: %s\n"+
				"Timeframe: %s\n\n"+
				"Please provide:\n"+
				"1. A personalized astrological analysis based on their birth details\n"+
				"2. Specific insights related to their question\n"+
				"3. Practical guidance and recommendations\n"+
				"4. Timing considerations if relevant\n\n"+
				"Use Vedic astrology principles and be specific, insightful, and encouraging.",
			p.Name, p.BirthInfo(), question, timeframe,
		)
	}

	return fmt.Sprintf(
		"You are an expert Vedic astrologer. Create a comprehensive birth chart analysis for:\n\n"+
			"Name: %s\n"+
			"Birth Details: %s\n\n"+
			"Please provide:\n"+
			"1. Overall personality traits based on their birth date\n"+
			"2. Key strengths and potential challenges\n"+
			"3. Life purpose and dharma\n"+
			"4. Recommendations for growth and success\n"+
			"5. Auspicious periods and general timing guidance\n\n"+
			"Use Vedic astrology principles and be detailed, personalized, and encouraging.",
		p.Name, p.BirthInfo(),
	)
}
