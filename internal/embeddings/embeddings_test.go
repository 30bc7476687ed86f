package embeddings

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	resp openai.EmbeddingResponse
	err  error
	got  openai.EmbeddingRequest
}

func (f *fakeCreator) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.got = conv.Convert()
	return f.resp, f.err
}

func TestEmbedOrdersByIndex(t *testing.T) {
	f := &fakeCreator{resp: openai.EmbeddingResponse{Data: []openai.Embedding{
		{Index: 1, Embedding: []float32{0.2}},
		{Index: 0, Embedding: []float32{0.1}},
	}}}
	vecs, err := New(f, "text-embedding-ada-002").Embed(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1}, {0.2}}, vecs)
	assert.Equal(t, openai.EmbeddingModel("text-embedding-ada-002"), f.got.Model)
	assert.Equal(t, []string{"a", "b"}, f.got.Input)
}

func TestEmbedErrors(t *testing.T) {
	_, err := New(&fakeCreator{err: errors.New("429")}, "m").EmbedOne(context.Background(), "q")
	assert.ErrorContains(t, err, "429")

	_, err = New(&fakeCreator{}, "m").EmbedOne(context.Background(), "q")
	assert.ErrorContains(t, err, "0 vectors for 1 inputs")

	vecs, err := New(&fakeCreator{}, "m").Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
}
