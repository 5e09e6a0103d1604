package customizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/llm"
)

type promptItem struct {
	TemplateID string         `json:"template_id"`
	Kind       domain.Kind    `json:"kind"`
	Name       string         `json:"name"`
	Content    domain.Content `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type promptBatch struct {
	Items []promptItem `json:"items"`
}

type customizeOutput struct {
	Items []map[string]any `json:"items"`
}

// UnmarshalJSON also accepts a bare array of items.
func (o *customizeOutput) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &o.Items)
	}
	var wrapped struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	o.Items = wrapped.Items
	return nil
}

type llmCustomizer struct {
	client llm.LLMClient
}

// NewLLMCustomizer creates a Customizer that sends the whole batch to client
// in one generation call.
func NewLLMCustomizer(client llm.LLMClient) Customizer {
	return &llmCustomizer{client: client}
}

func (c *llmCustomizer) Customize(ctx context.Context, reqs []Request) ([]Response, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(reqs)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         taskFor(reqs),
		SystemPrompt: customizeSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("llm customization failed: %w", err)
	}

	out, err := llm.ExtractJSON[customizeOutput](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract customized items: %w", err)
	}

	responses := make([]Response, 0, len(out.Items))
	for _, doc := range out.Items {
		if doc == nil {
			continue
		}
		id, _ := doc["template_id"].(string)
		responses = append(responses, Response{TemplateID: id, Document: doc})
	}
	return responses, nil
}

func buildPrompt(reqs []Request) (string, error) {
	batch := promptBatch{Items: make([]promptItem, 0, len(reqs))}
	for _, r := range reqs {
		batch.Items = append(batch.Items, promptItem{
			TemplateID: r.TemplateID,
			Kind:       r.Kind,
			Name:       r.Name,
			Content:    r.Content,
			Metadata:   r.Metadata,
		})
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling customization batch: %w", err)
	}
	return string(data), nil
}

func taskFor(reqs []Request) llm.TaskType {
	for _, r := range reqs {
		if r.Kind == domain.KindMeal {
			return llm.TaskCustomizeMeals
		}
	}
	return llm.TaskCustomizeWorkouts
}
