package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	got, err := ExtractJSON(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestExtractJSON_MarkdownFenced(t *testing.T) {
	response := "Here you go:\n```json\n{\"name\": \"revenue\"}\n```\nLet me know if you need more."
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "revenue"}`, got)
}

func TestExtractJSON_ThinkTagsStripped(t *testing.T) {
	response := "<think>reasoning about tables</think>\n[{\"id\": \"k1\"}]"
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `[{"id": "k1"}]`, got)
}

func TestExtractJSON_ArrayWithProse(t *testing.T) {
	response := `The suggestions are: [{"id": "a"}, {"id": "b"}] as requested.`
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `[{"id": "a"}, {"id": "b"}]`, got)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"template": "use {placeholder} here"}`
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, got)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not produce any suggestions.")
	assert.Error(t, err)
}

func TestParseJSONResponse_Typed(t *testing.T) {
	type suggestion struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	got, err := ParseJSONResponse[[]suggestion](`[{"id": "k1", "name": "One"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "k1", got[0].ID)
}

func TestParseJSONResponse_TypeMismatch(t *testing.T) {
	_, err := ParseJSONResponse[[]string](`{"not": "an array"}`)
	assert.Error(t, err)
}
