package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"studybuddy/internal/llm"
)

type Generator struct {
	client *genai.Client
	model  string
}

func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key not configured", llm.ErrAuth)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Close() error {
	return g.client.Close()
}

func (g *Generator) Complete(ctx context.Context, msgs []llm.Message, maxTokens int, temperature float32) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(temperature)

	var userParts []genai.Part
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
			continue
		}
		userParts = append(userParts, genai.Text(m.Content))
	}
	if len(userParts) == 0 {
		return "", fmt.Errorf("%w: no user content", llm.ErrUpstream)
	}

	slog.DebugContext(ctx, "generation call", "model", g.model, "max_tokens", maxTokens)
	resp, err := model.GenerateContent(ctx, userParts...)
	if err != nil {
		slog.ErrorContext(ctx, "generation failed", "error", err)
		return "", mapError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty candidate response", llm.ErrUpstream)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

// mapError folds transport failures into the typed classes of internal/llm.
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %v", llm.ErrAuth, err)
		case 429:
			return fmt.Errorf("%w: %v", llm.ErrQuota, err)
		}
	}
	return fmt.Errorf("%w: %v", llm.ErrUpstream, err)
}
