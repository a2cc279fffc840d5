// Package openai implements the llm.Provider interface against any
// OpenAI-compatible chat-completions endpoint (OpenAI, OpenRouter,
// DeepSeek, self-hosted gateways). The session snapshot supplies base URL,
// key and model, so each user talks to their own provider.
package openai

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/models"
)

const defaultTimeout = 60 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

// Register wires the factory into a registry under the provider name
// "openai-compatible".
func Register(registry *llm.Registry) {
	registry.Register("openai-compatible", func(cfg models.ModelConfig) (llm.Provider, error) {
		return NewClient(cfg.BaseURL, cfg.APIKey), nil
	})
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    resty.New().SetTimeout(defaultTimeout),
	}
}

func (c *Client) GetProviderName() string {
	return "openai-compatible"
}

func (c *Client) payload(messages []llm.Message, opts llm.Options, stream bool) map[string]interface{} {
	body := map[string]interface{}{
		"model":       opts.Model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"stream":      stream,
	}
	if opts.MaxTokens > 0 {
		body["max_tokens"] = opts.MaxTokens
	}
	return body
}

func (c *Client) ChatComplete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(c.payload(messages, opts, false)).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     llm.ErrCodeServiceDown,
			Message:  "chat completion request failed",
			Err:      err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     statusCode(resp.StatusCode()),
			Message:  upstreamMessage(resp.String(), resp.StatusCode()),
		}
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     llm.ErrCodeInvalidInput,
			Message:  "empty completion in upstream response",
		}
	}
	return text, nil
}

func (c *Client) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk func(string) error) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true).
		SetBody(c.payload(messages, opts, true)).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     llm.ErrCodeServiceDown,
			Message:  "chat stream request failed",
			Err:      err,
		}
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     statusCode(resp.StatusCode()),
			Message:  upstreamMessage("", resp.StatusCode()),
		}
	}

	var full strings.Builder
	forward := true
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}
		chunk := gjson.Get(data, "choices.0.delta.content").String()
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if forward && onChunk != nil {
			// a dead consumer stops forwarding, not buffering
			if err := onChunk(chunk); err != nil {
				forward = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), &llm.ProviderError{
			Provider: c.GetProviderName(),
			Code:     llm.ErrCodeServiceDown,
			Message:  "chat stream interrupted",
			Err:      err,
		}
	}

	return full.String(), nil
}

func statusCode(httpStatus int) string {
	switch httpStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.ErrCodeAPIKey
	case http.StatusTooManyRequests:
		return llm.ErrCodeRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return llm.ErrCodeTimeout
	}
	return llm.ErrCodeServiceDown
}

func upstreamMessage(body string, httpStatus int) string {
	if msg := gjson.Get(body, "error.message").String(); msg != "" {
		return msg
	}
	return http.StatusText(httpStatus)
}
