package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient implements LLMClient using the hosted Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by Gemini. The returned client
// also implements io.Closer.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	s := c.cfg.samplingFor(req)

	model := c.client.GenerativeModel(c.cfg.GeminiModel)
	model.SetTemperature(float32(s.temperature))
	if s.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(s.maxTokens))
	}
	model.ResponseMIMEType = "application/json"
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}

	var text string
	err := retry(ctx, c.cfg.MaxRetries, s.timeout, func(ctx context.Context) error {
		out, genErr := c.generateOnce(ctx, model, req.UserPrompt)
		if genErr != nil {
			return genErr
		}
		text = out
		return nil
	})

	latency, err := settle(c.observer, req.Task, ProviderGemini, c.cfg.GeminiModel, start, err)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: text, Model: c.cfg.GeminiModel, LatencyMs: latency}, nil
}

func (c *geminiClient) generateOnce(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// Available reports whether credentials are configured. Gemini has no
// cheap liveness probe.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.GeminiAPIKey != ""
}

// Close releases the underlying Gemini connection.
func (c *geminiClient) Close() error {
	return c.client.Close()
}
