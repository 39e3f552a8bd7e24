package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	t.Parallel()

	tp, err := InitTracing(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	got := ParseHeaders("Authorization=Basic abc, x-team = polly ,broken,=nokey")

	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc",
		"x-team":        "polly",
	}, got)
	assert.Empty(t, ParseHeaders(""))
}

func TestGenAIAttributes(t *testing.T) {
	t.Parallel()

	attrs := GenAIAttributes("groq", "llama-3.1-8b-instant", 0.6, 40)

	byKey := map[string]any{}
	for _, a := range attrs {
		byKey[string(a.Key)] = a.Value.AsInterface()
	}
	assert.Equal(t, "chat", byKey["gen_ai.operation.name"])
	assert.Equal(t, "groq", byKey["gen_ai.system"])
	assert.Equal(t, "llama-3.1-8b-instant", byKey["gen_ai.request.model"])
	assert.Equal(t, 0.6, byKey["gen_ai.request.temperature"])
	assert.Equal(t, int64(40), byKey["gen_ai.request.max_tokens"])
}
