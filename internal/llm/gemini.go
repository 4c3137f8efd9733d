package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client using Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed Client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// ChatCompletion issues one completion call and normalizes the response.
// System messages are folded into the system instruction; tool declarations
// are not supported by this provider binding.
func (c *GeminiClient) ChatCompletion(ctx context.Context, req Request) (*Completion, error) {
	if len(req.Tools) > 0 {
		return nil, fmt.Errorf("tool calls are not supported by the gemini provider")
	}

	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return normalizeGeminiResponse(result)
}

// normalizeGeminiResponse maps a generation result onto the provider
// contract. Text parts of the first candidate are concatenated; the
// token counts are optional in the API response and default to zero.
func normalizeGeminiResponse(result *genai.GenerateContentResponse) (*Completion, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	var content strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	completion := &Completion{Content: content.String()}
	if result.UsageMetadata != nil {
		completion.Usage = Usage{
			Input:  int(int32Value(result.UsageMetadata.PromptTokenCount)),
			Output: int(int32Value(result.UsageMetadata.CandidatesTokenCount)),
			Total:  int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return completion, nil
}

func int32Value(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
