package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Params are the per-call model parameters.
type Params struct {
	MaxTokens   int
	Temperature float32
}

// Completer is the capability interface for the text-completion
// collaborator. Any backend can be substituted; callers depend on nothing
// beyond prompt-in, text-out.
type Completer interface {
	Complete(ctx context.Context, prompt string, p Params) (string, error)
}

// OpenAIClient implements Completer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	model := cfg.Model
	if model == "" {
		panic("OpenAI model must be specified")
	}
	return &OpenAIClient{client: c, model: model}
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		err = classify(err)
		slog.Error("openai: completion error", "err", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindMalformedResponse, Err: errors.New("no choices returned")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classify maps provider errors onto the request failure taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &Error{Kind: KindRateLimited, Err: err}
		case codeIs(apiErr, "content_policy_violation", "content_filter"):
			return &Error{Kind: KindContentRejected, Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &Error{Kind: KindTimeout, Err: err} // upstream hiccup, retryable
		}
	}
	return err
}

func codeIs(apiErr *openai.APIError, codes ...string) bool {
	c, ok := apiErr.Code.(string)
	if !ok {
		return false
	}
	for _, want := range codes {
		if c == want {
			return true
		}
	}
	return false
}
