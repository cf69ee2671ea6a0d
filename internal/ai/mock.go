package ai

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"

	"github.com/jansamadhan/backend/internal/routing"
)

// MockModel answers every prompt with a deterministic classification derived
// from a hash of the input. It is selected with AI_PROVIDER=mock.
type MockModel struct {
	ModelVersion string
}

func (m MockModel) Name() string {
	if m.ModelVersion == "" {
		return "mock-v1"
	}
	return m.ModelVersion
}

func (m MockModel) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h := promptSeed(p)

	categories := routing.Categories()
	category := categories[int(h%uint64(len(categories)))]
	department, _ := routing.Route(category)
	urgency := int(h/7%10) + 1

	summary := strings.TrimSpace(p.Text)
	if len(p.Image) > 0 {
		summary = "Photo of a reported civic issue"
	}
	summary = preview(summary, 120)

	b, err := json.Marshal(map[string]any{
		"category":        category,
		"urgency":         urgency,
		"english_summary": summary,
		"department":      department,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// promptSeed hashes the text and image bytes so identical submissions always
// map to the same answer.
func promptSeed(p Prompt) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.Text))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(p.Image)
	return h.Sum64()
}
