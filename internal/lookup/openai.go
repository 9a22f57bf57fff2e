package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/slangwatch/internal/ratelimit"
)

const openAIPrompt = `Define the slang term %q as used online by Gen Z and Gen Alpha.
Reply with a JSON object: {"found": bool, "definition": string, "example": string}.
Set "found" to false if it is not recognized slang. Keep the definition under 300 characters
and the example under 200 characters.`

// OpenAI asks a chat model for slang definitions
type OpenAI struct {
	client  *openai.Client
	model   string
	baseURL string
	timeout time.Duration
	limiter *ratelimit.Limiter
}

type openAIAnswer struct {
	Found      bool   `json:"found"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// NewOpenAI creates an OpenAI-backed provider. Calls are spaced by limiter.
func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		baseURL: clientConfig.BaseURL,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

// Name returns the provider name
func (p *OpenAI) Name() string {
	return "openai"
}

// Define asks the model whether term is slang and what it means
func (p *OpenAI) Define(ctx context.Context, term string) (*Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.baseURL); err != nil {
			return nil, &Error{Provider: p.Name(), Term: term, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a careful lexicographer of internet slang. Answer only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(openAIPrompt, term),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   300,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &Error{Provider: p.Name(), Term: term, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Provider: p.Name(), Term: term, Err: fmt.Errorf("no response from OpenAI")}
	}

	var answer openAIAnswer
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, &Error{Provider: p.Name(), Term: term, Err: fmt.Errorf("decode answer: %w", err)}
	}

	def := strings.TrimSpace(answer.Definition)
	if !answer.Found || def == "" {
		return &Result{Term: term, Source: p.Name()}, nil
	}

	return &Result{
		Term:       term,
		Found:      true,
		Definition: truncate(def, maxDefinitionLen),
		Example:    truncate(strings.TrimSpace(answer.Example), maxExampleLen),
		Source:     p.Name(),
	}, nil
}
