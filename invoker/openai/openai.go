// Package openai provides a core.Invoker backed by the OpenAI Chat
// Completions API. Each invocation is rendered as a chat exchange: the agent
// and tool identity become the system message, the argument map and any
// orchestration context become the user message.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/lfaley/taskmesh/core"
)

// Options configure the OpenAI invoker. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without breaking
// callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Invoker wraps the OpenAI Chat Completions API behind core.Invoker.
type Invoker struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI invoker using the official client with environment
// credentials.
func New(optFns ...func(o *Options)) *Invoker {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI invoker from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Invoker {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Invoker{client: client, opts: opts}
}

// Invoke implements core.Invoker via a non-streaming chat completion.
func (i *Invoker) Invoke(ctx context.Context, inv core.Invocation) (any, error) {
	user, err := userMessage(inv)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: i.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemMessage(inv)),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(i.opts.Temperature),
		MaxCompletionTokens: openai.Int(i.opts.MaxCompletionTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func systemMessage(inv core.Invocation) string {
	return fmt.Sprintf("You are agent %q executing the tool %q. Respond with the tool's result.", inv.AgentID, inv.ToolName)
}

func userMessage(inv core.Invocation) (string, error) {
	payload := map[string]any{"args": inv.Args}
	if inv.Context != nil {
		payload["context"] = inv.Context
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal invocation payload: %w", err)
	}
	return string(data), nil
}
