package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiAPI talks to the Gemini Developer API with an API key.
type GeminiAPI struct {
	client *genai.Client
	model  string
}

func NewGeminiAPI(ctx context.Context, apiKey, model string) (*GeminiAPI, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAPI{client: c, model: model}, nil
}

func (g *GeminiAPI) Name() string { return "gemini" }

// Close is a no-op; the genai client holds no long-lived connections.
func (g *GeminiAPI) Close() error { return nil }

func (g *GeminiAPI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
