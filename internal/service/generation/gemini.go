package generation

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// milestoneSchema constrains the model to an array of milestone objects.
var milestoneSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"order_index": {Type: genai.TypeInteger},
		},
		Required: []string{"title", "description", "order_index"},
	},
}

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a provider backed by the Gemini API. baseURL
// overrides the API endpoint and is empty outside tests.
func NewGeminiProvider(ctx context.Context, apiKey, modelName, baseURL string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: modelName}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate makes a single structured-output call. There are no retries.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) ([]Milestone, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   milestoneSchema,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(Prompt(req)), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	milestones, err := decodeMilestones(resp.Text())
	if err != nil {
		return nil, err
	}

	slog.Debug("milestones generated", "provider", p.Name(), "model", p.model, "count", len(milestones))
	return milestones, nil
}
