package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jansamadhan/backend/internal/models"
)

var ErrMalformedOutput = errors.New("malformed model output")

type wireClassification struct {
	Category       string      `json:"category"`
	Urgency        json.Number `json:"urgency"`
	EnglishSummary string      `json:"english_summary"`
	Summary        string      `json:"summary"`
	Department     string      `json:"department"`
}

// ParseClassification turns raw model text into a Classification. Providers do
// not enforce the schema, so the JSON object is dug out of markdown fences or
// surrounding prose first. Urgency is rounded and clamped into [1,10].
func ParseClassification(raw string) (models.Classification, error) {
	body := extractJSON(strings.TrimSpace(raw))
	if body == "" {
		return models.Classification{}, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	var w wireClassification
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return models.Classification{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	summary := strings.TrimSpace(w.EnglishSummary)
	if summary == "" {
		summary = strings.TrimSpace(w.Summary)
	}
	out := models.Classification{
		Category:   strings.TrimSpace(w.Category),
		Summary:    summary,
		Department: strings.TrimSpace(w.Department),
	}
	if out.Category == "" {
		return models.Classification{}, fmt.Errorf("%w: category is required", ErrMalformedOutput)
	}
	if out.Summary == "" {
		return models.Classification{}, fmt.Errorf("%w: english_summary is required", ErrMalformedOutput)
	}
	if out.Department == "" {
		return models.Classification{}, fmt.Errorf("%w: department is required", ErrMalformedOutput)
	}

	f, err := w.Urgency.Float64()
	if err != nil {
		return models.Classification{}, fmt.Errorf("%w: urgency must be a number", ErrMalformedOutput)
	}
	out.Urgency = clampUrgency(int(math.Round(f)))
	return out, nil
}

func clampUrgency(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func extractJSON(s string) string {
	if start := strings.Index(s, "```"); start != -1 {
		rest := s[start+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			block := strings.TrimSpace(rest[:end])
			block = strings.TrimPrefix(block, "json")
			s = strings.TrimSpace(block)
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
