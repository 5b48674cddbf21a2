package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestGenerateDeterministicVector(t *testing.T) {
	a := GenerateDeterministicVector("hello", 16)
	b := GenerateDeterministicVector("hello", 16)
	c := GenerateDeterministicVector("world", 16)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	v, err := m.EmbedText(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, v, VectorDimensions)

	vs, err := m.EmbedTexts(ctx, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, v, vs[0])
	assert.Equal(t, 2, m.CallCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}

func TestMockLLM(t *testing.T) {
	ctx := context.Background()
	m := NewMockLLM("one")

	out, err := llms.GenerateFromSinglePrompt(ctx, m, "first prompt", llms.WithMaxTokens(10))
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	// Echoes once the script is exhausted
	out, err = m.Call(ctx, "second prompt")
	require.NoError(t, err)
	assert.Equal(t, "second prompt", out)

	assert.Equal(t, []string{"first prompt", "second prompt"}, m.Prompts())
	assert.Equal(t, 10, m.Options()[0].MaxTokens)
	assert.Equal(t, 2, m.CallCount())

	m.Err = assert.AnError
	_, err = m.Call(ctx, "third")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	assert.NotNil(t, p.Embedder())
	assert.NotNil(t, p.Model())
	assert.NotNil(t, p.ImageModel())
	assert.NoError(t, p.Close())

	noImage := NewMockProviderWithServices(NewMockEmbedder(), NewMockLLM(), nil)
	assert.Nil(t, noImage.ImageModel())
}
