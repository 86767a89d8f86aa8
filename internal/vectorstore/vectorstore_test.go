package vectorstore_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clausecheck/internal/vectorstore"
)

// testEmbedder returns deterministic normalized vectors so similarity
// search behaves consistently without a live embedding API.
type testEmbedder struct {
	vectorSize int
}

func (e *testEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.makeEmbedding(text)
	}
	return embeddings, nil
}

func (e *testEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.makeEmbedding(text), nil
}

// makeEmbedding creates a unit vector from a text hash (chromem requires
// normalized vectors).
func (e *testEmbedder) makeEmbedding(text string) []float32 {
	embedding := make([]float32, e.vectorSize)
	hash := 0
	for _, c := range text {
		hash = (hash*31 + int(c)) % 1000
	}
	var sumSq float64
	for i := range embedding {
		embedding[i] = float32((hash+i)%100) / 100.0
		sumSq += float64(embedding[i]) * float64(embedding[i])
	}
	if sumSq > 0 {
		norm := float32(1.0 / math.Sqrt(sumSq))
		for i := range embedding {
			embedding[i] *= norm
		}
	}
	return embedding
}

func newTestStore(t *testing.T) *vectorstore.Store {
	t.Helper()
	store, err := vectorstore.New(vectorstore.Config{
		Collection: "test_guidelines",
	}, &testEmbedder{vectorSize: 16}, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestNew_Validation(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := vectorstore.New(vectorstore.Config{Collection: "c"}, nil, nil)
		assert.ErrorIs(t, err, vectorstore.ErrInvalidConfig)
	})

	t.Run("missing collection", func(t *testing.T) {
		_, err := vectorstore.New(vectorstore.Config{}, &testEmbedder{vectorSize: 16}, nil)
		assert.ErrorIs(t, err, vectorstore.ErrInvalidConfig)
	})
}

func TestAddDocumentsAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []vectorstore.Document{
		{ID: "c1", Content: "Payment terms must specify a due date.", Metadata: map[string]string{"source": "guide.pdf", "chunk": "0"}},
		{ID: "c2", Content: "Liability should be capped at contract value.", Metadata: map[string]string{"source": "guide.pdf", "chunk": "1"}},
		{ID: "c3", Content: "Termination requires thirty days written notice.", Metadata: map[string]string{"source": "types.pdf", "chunk": "0"}},
	}
	require.NoError(t, store.AddDocuments(ctx, docs))
	assert.Equal(t, 3, store.Count())

	results, err := store.Query(ctx, "payment due dates", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Content)
		assert.NotEmpty(t, r.Metadata["source"])
	}
}

func TestAddDocuments_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	assert.ErrorIs(t, store.AddDocuments(ctx, nil), vectorstore.ErrEmptyDocuments)

	err := store.AddDocuments(ctx, []vectorstore.Document{{Content: "no id"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ID")
}

func TestQuery_CapsKAtCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddDocuments(ctx, []vectorstore.Document{
		{ID: "c1", Content: "only chunk"},
	}))

	results, err := store.Query(ctx, "anything", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestQuery_EmptyCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_Validation(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Query(context.Background(), "", 5)
	assert.Error(t, err)

	_, err = store.Query(context.Background(), "query", 0)
	assert.Error(t, err)
}

func TestPersistentStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := &testEmbedder{vectorSize: 16}

	store, err := vectorstore.New(vectorstore.Config{
		Path:       dir,
		Collection: "test_guidelines",
	}, embedder, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.AddDocuments(ctx, []vectorstore.Document{
		{ID: "c1", Content: "persisted chunk"},
	}))

	// A second store over the same path sees the persisted data.
	reopened, err := vectorstore.New(vectorstore.Config{
		Path:       dir,
		Collection: "test_guidelines",
	}, embedder, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}
