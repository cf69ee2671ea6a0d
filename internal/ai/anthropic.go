package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

type AnthropicModel struct {
	client anthropic.Client
	model  string
}

func NewAnthropicModel(apiKey, model string, opts ...option.RequestOption) AnthropicModel {
	if model == "" {
		model = defaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return AnthropicModel{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (m AnthropicModel) Name() string {
	return m.model
}

func (m AnthropicModel) Generate(ctx context.Context, p Prompt) (string, error) {
	var blocks []anthropic.ContentBlockParamUnion
	if len(p.Image) > 0 {
		mime := p.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(p.Image)))
	}
	text := p.Text
	if strings.TrimSpace(text) == "" {
		text = "."
	}
	blocks = append(blocks, anthropic.NewTextBlock(text))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}

	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text content in anthropic response")
}
