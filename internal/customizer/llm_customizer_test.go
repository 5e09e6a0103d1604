package customizer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	response string
	err      error
	calls    int
	lastReq  llm.GenerateRequest
}

func (m *mockLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test"}, nil
}

func (m *mockLLMClient) Available(ctx context.Context) bool {
	return m.err == nil
}

func mealRequest(id string) Request {
	return Request{
		TemplateID: id,
		Kind:       domain.KindMeal,
		Name:       "Bowl " + id,
		Content: domain.Content{Ingredients: []domain.Ingredient{
			{Name: "rice", Grams: 100, Calories: 130},
		}},
		Metadata: map[string]any{MetaTarget: 500, MetaTargetUnit: "calories", MetaAvoid: []string{"peanut"}},
	}
}

func TestLLMCustomizer_SingleCallForBatch(t *testing.T) {
	client := &mockLLMClient{response: `{"items":[
		{"template_id":"t1","name":"Bowl t1","ingredients":[{"name":"rice","grams":380,"calories":500}]},
		{"template_id":"t2","name":"Bowl t2","ingredients":[{"name":"rice","grams":200,"calories":260}]}
	]}`}

	resps, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1"), mealRequest("t2")})

	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, llm.TaskCustomizeMeals, client.lastReq.Task)
	require.Len(t, resps, 2)
	assert.Equal(t, "t1", resps[0].TemplateID)
	assert.Equal(t, "t2", resps[1].TemplateID)
	assert.Equal(t, "Bowl t2", resps[1].Document["name"])
}

func TestLLMCustomizer_PromptCarriesContentAndMetadata(t *testing.T) {
	client := &mockLLMClient{response: `{"items":[]}`}

	_, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1")})
	require.NoError(t, err)

	var batch struct {
		Items []struct {
			TemplateID string         `json:"template_id"`
			Kind       string         `json:"kind"`
			Content    domain.Content `json:"content"`
			Metadata   map[string]any `json:"metadata"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(client.lastReq.UserPrompt), &batch))
	require.Len(t, batch.Items, 1)
	assert.Equal(t, "t1", batch.Items[0].TemplateID)
	assert.Equal(t, "meal", batch.Items[0].Kind)
	assert.Equal(t, "rice", batch.Items[0].Content.Ingredients[0].Name)
	assert.Equal(t, []any{"peanut"}, batch.Items[0].Metadata[MetaAvoid])
	assert.Contains(t, client.lastReq.SystemPrompt, "Modify only quantitative fields")
}

func TestLLMCustomizer_MissingTemplateIDKeepsDocument(t *testing.T) {
	client := &mockLLMClient{response: "```json\n{\"items\":[{\"name\":\"Bowl\",\"ingredients\":[]}]}\n```"}

	resps, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1")})

	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Empty(t, resps[0].TemplateID)
	assert.Equal(t, "Bowl", resps[0].Document["name"])
}

func TestLLMCustomizer_TransportErrorFailsBatch(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrOllamaUnavailable}

	_, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1")})

	assert.ErrorIs(t, err, llm.ErrOllamaUnavailable)
}

func TestLLMCustomizer_UnparseableOutputFailsBatch(t *testing.T) {
	client := &mockLLMClient{response: "sorry, I cannot do that"}

	_, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1")})

	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestLLMCustomizer_WorkoutOnlyBatchUsesWorkoutTask(t *testing.T) {
	client := &mockLLMClient{response: `{"items":[]}`}
	req := Request{TemplateID: "w1", Kind: domain.KindWorkout, Content: domain.Content{
		Exercises: []domain.Exercise{{Name: "squat", Sets: 3, Reps: 10, RestSeconds: 60}},
	}}

	_, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{req})

	require.NoError(t, err)
	assert.Equal(t, llm.TaskCustomizeWorkouts, client.lastReq.Task)
}

func TestLLMCustomizer_EmptyBatchSkipsCall(t *testing.T) {
	client := &mockLLMClient{}

	resps, err := NewLLMCustomizer(client).Customize(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, resps)
	assert.Zero(t, client.calls)
}

func TestScalingOnly_ReturnsNoCandidates(t *testing.T) {
	resps, err := ScalingOnly{}.Customize(context.Background(), []Request{mealRequest("t1")})
	require.NoError(t, err)
	assert.Empty(t, resps)
}

func TestLLMCustomizer_AcceptsBareArray(t *testing.T) {
	client := &mockLLMClient{response: `[{"template_id":"t1","name":"Bowl t1","ingredients":[{"name":"rice","grams":380,"calories":500},]}]`}

	resps, err := NewLLMCustomizer(client).Customize(context.Background(), []Request{mealRequest("t1")})

	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, "t1", resps[0].TemplateID)
}
