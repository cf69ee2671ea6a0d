package ai

import (
	"context"

	"github.com/jansamadhan/backend/internal/models"
)

// Prompt is one model invocation: system instructions plus the user turn,
// which carries text, an image, or both.
type Prompt struct {
	System    string
	Text      string
	Image     []byte
	ImageMIME string
}

// Model is an external generative model. Implementations return the raw text
// of the first candidate; parsing is the classifier's job.
type Model interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

type Outcome string

const (
	OutcomeSuccess              Outcome = "success"
	OutcomeConfigurationMissing Outcome = "configuration_missing"
	OutcomeInvocationFailure    Outcome = "invocation_failure"
	OutcomeParseFailure         Outcome = "parse_failure"
	OutcomeEmptyExtraction      Outcome = "empty_extraction"
	OutcomeNoInput              Outcome = "no_input"
)

const (
	PathMultimodal = "multimodal"
	PathOCRText    = "ocr_text"
	PathText       = "text"
	PathNone       = "none"
)

type Request struct {
	Text      string
	Image     []byte
	ImageMIME string
}

// Classification is the typed result of a classification cascade. Result is
// set only when Outcome is OutcomeSuccess.
type Classification struct {
	Result  *models.Classification
	Outcome Outcome
	Path    string
	Model   string
	OCRText string
	Err     error
}

func (c Classification) OK() bool {
	return c.Outcome == OutcomeSuccess && c.Result != nil
}
