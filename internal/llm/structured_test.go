package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	TemplateID string  `json:"template_id"`
	Calories   float64 `json:"calories"`
}

type testPayload struct {
	Items []testItem `json:"items"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"items":[{"template_id":"t1","calories":450}]}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "t1", result.Items[0].TemplateID)
	assert.Equal(t, 450.0, result.Items[0].Calories)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"items\":[{\"template_id\":\"t2\",\"calories\":300}]}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "t2", result.Items[0].TemplateID)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here are your meals:\n{\"items\":[{\"template_id\":\"t3\"}]}\nEnjoy!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "t3", result.Items[0].TemplateID)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	raw := `{"items":[{"template_id":"t1","content":{"ingredients":[{"name":"rice"}]}}]}`
	result, err := ExtractJSON[map[string]any](raw, nil)
	require.NoError(t, err)
	items, ok := result["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	raw := "I can't help with that."
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	raw := `{"items":[ broken }`
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	raw := `{"items":[]}`
	validator := func(p testPayload) error {
		if len(p.Items) == 0 {
			return errors.New("no items returned")
		}
		return nil
	}
	_, err := ExtractJSON(raw, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_EscapedBracesInString(t *testing.T) {
	raw := `{"items":[{"template_id":"a}b{c","calories":1}]}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "a}b{c", result.Items[0].TemplateID)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  // scaled down\n  \"items\": [{\"template_id\": \"t1\", \"calories\": .5}]\n}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Items[0].Calories)
}

func TestExtractJSON_MultipleFences(t *testing.T) {
	raw := "Some text\n```\n{\"items\":[{\"template_id\":\"t4\"}]}\n```\nMore text"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "t4", result.Items[0].TemplateID)
}

func TestExtractJSON_ArrayRoot(t *testing.T) {
	raw := "Sure:\n[{\"template_id\":\"t1\"},{\"template_id\":\"t2\"}]"
	result, err := ExtractJSON[[]testItem](raw, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "t2", result[1].TemplateID)
}

func TestExtractJSON_TrailingCommas(t *testing.T) {
	raw := "{\"items\":[{\"template_id\":\"t1\",\"calories\":10,},\n],}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 10.0, result.Items[0].Calories)
}

func TestExtractJSON_BlockCommentAndStringsUntouched(t *testing.T) {
	raw := `{"items":[{"template_id":"a, ]/* keep */ .5" /* drop me */, "calories": -.25}]}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "a, ]/* keep */ .5", result.Items[0].TemplateID)
	assert.Equal(t, -0.25, result.Items[0].Calories)
}

func TestExtractJSON_MismatchedBrackets(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"items":[}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}
