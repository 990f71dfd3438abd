// Package openai adapts the OpenAI Chat Completions API to the platform
// interface. It maps a subset of the completion parameters (model,
// temperature, max tokens) from the platform option map onto the SDK's
// request params.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/berkmancenter/llm-engine-sub000/platform"
)

// PlatformName is the registry key this adapter registers under.
const PlatformName = "openai"

// Options configure the OpenAI platform adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Platform wraps the OpenAI Chat Completions API behind platform.Platform.
type Platform struct {
	client openai.Client
	opts   Options
}

// New creates an OpenAI platform using the official client. The API key is
// read from the environment unless set explicitly.
func New(optFns ...func(o *Options)) *Platform {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	return &Platform{client: openai.NewClient(clientOpts...), opts: opts}
}

// NewFromClient creates an OpenAI platform from an existing client.
func NewFromClient(client openai.Client, optFns ...func(o *Options)) *Platform {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
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
		"max_tokens":  p.opts.MaxCompletionTokens,
	}
}

// Complete implements platform.Platform with a single non-streaming chat
// completion.
func (p *Platform) Complete(ctx context.Context, req platform.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = p.opts.Model
	}
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: messages,
		Temperature: openai.Float(
			platform.FloatOption(req.Options, "temperature", p.opts.Temperature),
		),
		MaxCompletionTokens: openai.Int(
			platform.IntOption(req.Options, "max_tokens", p.opts.MaxCompletionTokens),
		),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api error: empty choice list")
	}
	return resp.Choices[0].Message.Content, nil
}
