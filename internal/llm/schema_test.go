package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explanationSchema() *Schema {
	return &Schema{
		Name: "quiz-explanation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":     map[string]any{"type": "string"},
				"key_point": map[string]any{"type": "string"},
			},
			"required":             []any{"title", "key_point"},
			"additionalProperties": false,
		},
	}
}

func TestSchemaCheck(t *testing.T) {
	s := explanationSchema()

	assert.NoError(t, s.Check(json.RawMessage(`{"title":"Lists","key_point":"append mutates"}`)))

	tests := map[string]string{
		"missing field": `{"title":"Lists"}`,
		"extra field":   `{"title":"a","key_point":"b","score":3}`,
		"wrong type":    `{"title":1,"key_point":"b"}`,
		"not json":      `Lists are mutable.`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := s.Check(json.RawMessage(raw))
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, Malformed, kind)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, raw, string(e.Raw))
		})
	}
}

func TestSchemaCompileErrorIsSticky(t *testing.T) {
	s := &Schema{Name: "broken", Definition: map[string]any{"type": 12}}
	first := s.Check(json.RawMessage(`{}`))
	require.Error(t, first)
	_, isLLM := KindOf(first)
	assert.False(t, isLLM, "a bad schema is a programming error, not a reply problem")
	assert.Equal(t, first, s.Check(json.RawMessage(`{}`)))
}
