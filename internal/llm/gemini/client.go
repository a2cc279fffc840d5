// Package gemini implements the llm.Provider interface on the Gemini API.
// Sessions whose model snapshot names the "gemini" provider use the snapshot
// key directly, so each user brings their own credentials.
package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
)

type Client struct {
	client *genai.Client
}

// Register wires the factory into a registry.
func Register(registry *llm.Registry) {
	registry.Register("gemini", func(cfg models.ModelConfig) (llm.Provider, error) {
		return NewClient(cfg.APIKey)
	})
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{client: client}, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

// convert maps chat messages onto Gemini contents. The system message
// becomes the system instruction; assistant turns map to the "model" role.
func convert(messages []llm.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case llm.ChatRoleSystem:
			system = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		case llm.ChatRoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	return contents, system
}

func generateConfig(system *genai.Content, opts llm.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = genai.Ptr(int32(opts.MaxTokens))
	}
	return config
}

func (c *Client) ChatComplete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	contents, system := convert(messages)

	result, err := c.client.Models.GenerateContent(ctx, opts.Model, contents, generateConfig(system, opts))
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to generate completion",
			Err:      err,
		}
	}
	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}
	return text, nil
}

func (c *Client) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk func(string) error) (string, error) {
	contents, system := convert(messages)

	var full strings.Builder
	forward := true

	for result, err := range c.client.Models.GenerateContentStream(ctx, opts.Model, contents, generateConfig(system, opts)) {
		if err != nil {
			return full.String(), &llm.ProviderError{
				Provider: "gemini",
				Code:     llm.ErrCodeServiceDown,
				Message:  "Stream interrupted",
				Err:      err,
			}
		}
		chunk, err := result.Text()
		if err != nil || chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if forward && onChunk != nil {
			if err := onChunk(chunk); err != nil {
				forward = false
			}
		}
	}

	return full.String(), nil
}
