package ai

import (
	"fmt"
	"strings"

	"github.com/jansamadhan/backend/internal/routing"
)

const formatInstructions = `Respond with a single JSON object and nothing else, no markdown.
The object must have exactly these fields:
{
  "category": "<one of the department map keys, e.g. Water, Roads, Electricity, Sanitation>",
  "urgency": <integer from 1 (lowest) to 10 (highest)>,
  "english_summary": "<a 2-line summary of the grievance in English>",
  "department": "<the department responsible for addressing the grievance>"
}`

var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert grievance analysis AI for 'Jan Samadhan'.\n")
	b.WriteString("Analyze the input and extract the Category, Urgency (1-10), Summary, and Department.\n")
	b.WriteString("Translate the summary to English if the input is in another language.\n")
	b.WriteString("Use the following mapping for Departments if applicable:\n")
	b.WriteString(routing.MapJSON())
	b.WriteString("\n")
	b.WriteString(formatInstructions)
	return b.String()
}

func SystemPrompt() string {
	return systemPrompt
}

func multimodalPrompt(text string, image []byte, mime string) Prompt {
	user := "Analyze this grievance image."
	if text != "" {
		user = fmt.Sprintf("%s\nThe citizen also wrote:\n%s", user, text)
	}
	return Prompt{
		System:    systemPrompt,
		Text:      user,
		Image:     image,
		ImageMIME: mime,
	}
}

func textPrompt(text string) Prompt {
	return Prompt{
		System: systemPrompt,
		Text:   text,
	}
}
