package index

import (
	"context"
	"math/rand"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	index_api "github.com/blevesearch/bleve_index_api"
	"github.com/google/uuid"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/logging"
	"github.com/kaumanns/evolve-a-query/pkg/vocabulary"
)

const (
	fullTextField = "full_text"

	// bulkFlushEvery bounds batch size during bulk indexing.
	bulkFlushEvery = 1000

	// randomSampleSize caps how many ids a random pick considers.
	randomSampleSize = 10000
)

// Bleve is an embedded full-text index. Every document added to it also
// feeds the vocabulary collector, which supplies the mutation word pool.
type Bleve struct {
	index      bleve.Index
	vocabulary *vocabulary.Vocabulary
	rng        *rand.Rand
}

type storedDocument struct {
	FullText string `json:"full_text"`
}

// Option configures a Bleve index.
type Option func(*Bleve)

// WithRand sets the random source used by RandomDocument.
func WithRand(rng *rand.Rand) Option {
	return func(b *Bleve) {
		b.rng = rng
	}
}

func indexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(fullTextField, bleve.NewTextFieldMapping())
	m.DefaultMapping = docMapping

	return m
}

// Open opens the index at path, creating it when absent. The vocabulary is
// fed on every add; pass a fresh one when no word pool is carried over.
func Open(path string, vocab *vocabulary.Vocabulary, opts ...Option) (*Bleve, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, indexMapping())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.IndexUnavailable, "cannot open index")
	}

	return newBleve(idx, vocab, opts...), nil
}

// OpenMemOnly creates a transient in-memory index; used by tests and dry runs.
func OpenMemOnly(vocab *vocabulary.Vocabulary, opts ...Option) (*Bleve, error) {
	idx, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return nil, errors.Wrap(err, errors.IndexUnavailable, "cannot create in-memory index")
	}

	return newBleve(idx, vocab, opts...), nil
}

func newBleve(idx bleve.Index, vocab *vocabulary.Vocabulary, opts ...Option) *Bleve {
	b := &Bleve{
		index:      idx,
		vocabulary: vocab,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Close closes the underlying index.
func (b *Bleve) Close() error {
	return b.index.Close()
}

// Vocabulary returns the word pool fed by this index.
func (b *Bleve) Vocabulary() *vocabulary.Vocabulary {
	return b.vocabulary
}

// DocCount returns the number of indexed documents.
func (b *Bleve) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Add indexes a single document and adds its words to the vocabulary.
// Returns the generated document id.
func (b *Bleve) Add(ctx context.Context, text string) (string, error) {
	if err := errors.CheckContext(ctx, "index add"); err != nil {
		return "", err
	}

	b.vocabulary.AddWordsFrom(text)

	id := uuid.New().String()
	if err := b.index.Index(id, storedDocument{FullText: text}); err != nil {
		return "", errors.Wrap(err, errors.Unknown, "cannot index document")
	}

	return id, nil
}

// AddBulk indexes many documents in batches and adds their words to the
// vocabulary. Returns the generated document ids in input order.
func (b *Bleve) AddBulk(ctx context.Context, texts []string) ([]string, error) {
	logger := logging.GetLogger()

	ids := make([]string, 0, len(texts))
	batch := b.index.NewBatch()

	flush := func() error {
		if batch.Size() == 0 {
			return nil
		}
		if err := b.index.Batch(batch); err != nil {
			return errors.Wrap(err, errors.Unknown, "cannot index batch")
		}
		batch = b.index.NewBatch()
		return nil
	}

	for i, text := range texts {
		if err := errors.CheckContext(ctx, "bulk indexing"); err != nil {
			return nil, err
		}

		b.vocabulary.AddWordsFrom(text)

		id := uuid.New().String()
		if err := batch.Index(id, storedDocument{FullText: text}); err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "cannot add document to batch")
		}
		ids = append(ids, id)

		if (i+1)%bulkFlushEvery == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
			logger.Debug(ctx, "indexed %d of %d documents", i+1, len(texts))
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	logger.Info(ctx, "indexed %d documents, vocabulary size %d", len(ids), b.vocabulary.Len())

	return ids, nil
}

// Get fetches a document by id.
func (b *Bleve) Get(ctx context.Context, docID string) (*Document, error) {
	if err := errors.CheckContext(ctx, "index get"); err != nil {
		return nil, err
	}

	doc, err := b.index.Document(docID)
	if err != nil {
		return nil, errors.Wrap(err, errors.SearchFailed, "cannot read document")
	}
	if doc == nil {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "document not found"),
			errors.Fields{"doc_id": docID},
		)
	}

	text := ""
	doc.VisitFields(func(field index_api.Field) {
		if field.Name() == fullTextField {
			text = string(field.Value())
		}
	})

	return &Document{ID: docID, FullText: text}, nil
}

// Search runs a query body against the index and returns up to size ranked
// matches. The body is parsed as a query string; on a syntax error it falls
// back to a plain match query so evolved bodies never hard-fail the search.
func (b *Bleve) Search(ctx context.Context, body string, size int) (*Result, error) {
	if err := errors.CheckContext(ctx, "index search"); err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(body))
	req.Size = size

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		req = bleve.NewSearchRequest(bleve.NewMatchQuery(body))
		req.Size = size

		res, err = b.index.SearchInContext(ctx, req)
		if err != nil {
			return nil, errors.Wrap(err, errors.SearchFailed, "search against index failed")
		}
	}

	result := &Result{
		Hits:     make([]Hit, 0, len(res.Hits)),
		Total:    res.Total,
		MaxScore: res.MaxScore,
	}
	for _, hit := range res.Hits {
		result.Hits = append(result.Hits, Hit{ID: hit.ID, Score: hit.Score})
	}

	return result, nil
}

// Explain scores one specific document against a query body. A document that
// exists but does not match yields a zero-valued explanation, not an error;
// a missing document is an error.
func (b *Bleve) Explain(ctx context.Context, body, docID string) (*Explanation, error) {
	if _, err := b.Get(ctx, docID); err != nil {
		return nil, err
	}

	q := bleve.NewConjunctionQuery(
		bleve.NewQueryStringQuery(body),
		bleve.NewDocIDQuery([]string{docID}),
	)

	req := bleve.NewSearchRequest(q)
	req.Size = 1
	req.Explain = true

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, errors.SearchFailed, "explain against index failed")
	}

	if len(res.Hits) == 0 {
		return &Explanation{Value: 0, Message: "no match"}, nil
	}

	return convertExplanation(res.Hits[0].Expl), nil
}

// RandomDocument returns a uniformly chosen document from the index.
func (b *Bleve) RandomDocument(ctx context.Context) (*Document, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = randomSampleSize

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, errors.SearchFailed, "cannot list documents")
	}
	if len(res.Hits) == 0 {
		return nil, errors.New(errors.ResourceNotFound, "index is empty")
	}

	hit := res.Hits[b.rng.Intn(len(res.Hits))]

	return b.Get(ctx, hit.ID)
}

func convertExplanation(expl *search.Explanation) *Explanation {
	if expl == nil {
		return &Explanation{}
	}

	converted := &Explanation{
		Value:   expl.Value,
		Message: expl.Message,
	}
	for _, child := range expl.Children {
		converted.Children = append(converted.Children, *convertExplanation(child))
	}

	return converted
}
