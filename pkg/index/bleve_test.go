package index

import (
	"context"
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/vocabulary"
)

func newTestIndex(t *testing.T, texts ...string) (*Bleve, []string) {
	t.Helper()

	vocab := vocabulary.New()
	idx, err := OpenMemOnly(vocab, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	ids, err := idx.AddBulk(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, ids, len(texts))

	return idx, ids
}

func TestAddFeedsVocabulary(t *testing.T) {
	vocab := vocabulary.New()
	idx, err := OpenMemOnly(vocab)
	require.NoError(t, err)
	defer idx.Close()

	id, err := idx.Add(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Equal(t, 1, vocab.Count("quick"))
	assert.Equal(t, 1, vocab.Count("fox"))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchRanksMatchingDocuments(t *testing.T) {
	idx, ids := newTestIndex(t,
		"the quick brown fox jumps over the lazy dog",
		"a slow green turtle crawls under the fence",
		"quick quick quick repetition of quick terms",
	)

	result, err := idx.Search(context.Background(), "quick fox", 10)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.GreaterOrEqual(t, result.Total, uint64(2))

	hitIDs := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hitIDs = append(hitIDs, hit.ID)
		assert.Greater(t, hit.Score, 0.0)
	}
	assert.Contains(t, hitIDs, ids[0])
	assert.NotContains(t, hitIDs, ids[1])
}

func TestSearchRespectsSize(t *testing.T) {
	idx, _ := newTestIndex(t,
		"alpha common", "beta common", "gamma common", "delta common",
	)

	result, err := idx.Search(context.Background(), "common", 2)
	require.NoError(t, err)

	assert.Len(t, result.Hits, 2)
	assert.Equal(t, uint64(4), result.Total)
}

func TestGet(t *testing.T) {
	idx, ids := newTestIndex(t, "stored document text")

	t.Run("existing document", func(t *testing.T) {
		doc, err := idx.Get(context.Background(), ids[0])
		require.NoError(t, err)
		assert.Equal(t, ids[0], doc.ID)
		assert.Equal(t, "stored document text", doc.FullText)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := idx.Get(context.Background(), "no-such-id")
		require.Error(t, err)

		var customErr *errors.Error
		require.True(t, stderrors.As(err, &customErr))
		assert.Equal(t, errors.ResourceNotFound, customErr.Code())
	})
}

func TestExplain(t *testing.T) {
	idx, ids := newTestIndex(t,
		"the quick brown fox",
		"completely unrelated content",
	)

	t.Run("matching document has positive value", func(t *testing.T) {
		expl, err := idx.Explain(context.Background(), "quick fox", ids[0])
		require.NoError(t, err)
		assert.Greater(t, expl.Value, 0.0)
	})

	t.Run("non-matching document yields zero, not an error", func(t *testing.T) {
		expl, err := idx.Explain(context.Background(), "quick fox", ids[1])
		require.NoError(t, err)
		assert.Equal(t, 0.0, expl.Value)
	})

	t.Run("missing document is an error", func(t *testing.T) {
		_, err := idx.Explain(context.Background(), "quick fox", "no-such-id")
		require.Error(t, err)

		var customErr *errors.Error
		require.True(t, stderrors.As(err, &customErr))
		assert.Equal(t, errors.ResourceNotFound, customErr.Code())
	})
}

func TestRandomDocument(t *testing.T) {
	t.Run("returns one of the indexed documents", func(t *testing.T) {
		idx, ids := newTestIndex(t, "one", "two", "three")

		doc, err := idx.RandomDocument(context.Background())
		require.NoError(t, err)
		assert.Contains(t, ids, doc.ID)
	})

	t.Run("empty index is an error", func(t *testing.T) {
		idx, _ := newTestIndex(t)

		_, err := idx.RandomDocument(context.Background())
		require.Error(t, err)
	})
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir() + "/index"

	idx, err := Open(dir, vocabulary.New())
	require.NoError(t, err)

	id, err := idx.Add(context.Background(), "durable document")
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened, err := Open(dir, vocabulary.New())
	require.NoError(t, err)
	defer reopened.Close()

	doc, err := reopened.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "durable document", doc.FullText)
}

func TestCanceledContextPropagates(t *testing.T) {
	idx, _ := newTestIndex(t, "doc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Search(ctx, "doc", 10)
	require.Error(t, err)

	var customErr *errors.Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, errors.Canceled, customErr.Code())
}
