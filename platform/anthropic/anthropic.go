// Package anthropic adapts the Anthropic Messages API to the platform
// interface.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/berkmancenter/llm-engine-sub000/platform"
)

// PlatformName is the registry key this adapter registers under.
const PlatformName = "anthropic"

// Options configure the Anthropic platform adapter (model id, temperature,
// max tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Platform wraps the Anthropic Messages API behind platform.Platform.
type Platform struct {
	client anthropic.Client
	opts   Options
}

// New creates an Anthropic platform using the official client. The API key
// is read from the environment unless set explicitly.
func New(optFns ...func(o *Options)) *Platform {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	return &Platform{client: anthropic.NewClient(clientOpts...), opts: opts}
}

// NewFromClient creates an Anthropic platform from an existing client.
func NewFromClient(client anthropic.Client, optFns ...func(o *Options)) *Platform {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Platform{client: client, opts: opts}
}

// Name implements platform.Platform.
func (p *Platform) Name() string { return PlatformName }

// DefaultOptions implements platform.Platform.
func (p *Platform) DefaultOptions() map[string]any {
	return map[string]any{
		"temperature": p.opts.Temperature,
		"max_tokens":  p.opts.MaxTokens,
	}
}

// Complete implements platform.Platform with a single non-streaming message
// call, concatenating the text blocks of the reply.
func (p *Platform) Complete(ctx context.Context, req platform.Request) (string, error) {
	model := p.opts.Model
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	}
	params := anthropic.MessageNewParams{
		Model: model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens: platform.IntOption(req.Options, "max_tokens", p.opts.MaxTokens),
		Temperature: anthropic.Float(
			platform.FloatOption(req.Options, "temperature", p.opts.Temperature),
		),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}
