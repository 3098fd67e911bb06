// Package anthropic provides a core.Invoker backed by the Anthropic Messages
// API, mirroring the openai adapter: agent and tool identity become the
// system prompt, arguments and orchestration context the user message.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lfaley/taskmesh/core"
)

// Options configure the Anthropic invoker (model id, temperature, max
// tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Invoker wraps the Anthropic Messages API behind core.Invoker.
type Invoker struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic invoker using the official client.
func New(optFns ...func(o *Options)) *Invoker {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Invoker{client: &client, opts: opts}
}

// NewFromClient creates an Anthropic invoker from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Invoker {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Invoker{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Invoke implements core.Invoker via a non-streaming message call.
func (i *Invoker) Invoke(ctx context.Context, inv core.Invocation) (any, error) {
	payload := map[string]any{"args": inv.Args}
	if inv.Context != nil {
		payload["context"] = inv.Context
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal invocation payload: %w", err)
	}

	resp, err := i.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       i.opts.Model,
		MaxTokens:   i.opts.MaxTokens,
		Temperature: anthropic.Float(i.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: fmt.Sprintf("You are agent %q executing the tool %q. Respond with the tool's result.", inv.AgentID, inv.ToolName)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(data))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}
