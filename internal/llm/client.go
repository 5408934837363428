package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultBaseURL is the OpenAI-compatible Gemini endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-3-flash-preview"
)

var (
	// ErrCredentialMissing indicates no advisory API key is configured.
	ErrCredentialMissing = errors.New("advisory API key is missing")
	// ErrAdvisoryRequest indicates the advisory service call failed.
	ErrAdvisoryRequest = errors.New("advisory request failed")
	// ErrMalformedResponse indicates the advisory response could not be used.
	ErrMalformedResponse = errors.New("malformed advisory response")
)

// ClientConfig configures the advisory transport.
type ClientConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

// Client sends chat completions to the advisory model.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates an advisory client.
// Returns nil if the API key is empty; every method on a nil client fails
// with ErrCredentialMissing before touching the network.
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	)

	return &Client{
		client: client,
		model:  cfg.Model,
	}
}

// Model returns the configured model name, or "" for a nil client.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Complete returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	if c == nil {
		return "", ErrCredentialMissing
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdvisoryRequest, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

// JSONSchema names a structured response shape.
type JSONSchema struct {
	Name   string
	Schema map[string]any
}

// CompleteJSON requests a response constrained to schema and decodes it into out.
func (c *Client) CompleteJSON(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, schema JSONSchema, out any) error {
	if c == nil {
		return ErrCredentialMissing
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schema.Name,
					Schema: schema.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAdvisoryRequest, err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}
