// Package index provides the text-index collaborator consumed by fitness
// evaluation: document search for a query body, per-document relevance
// explanation, and document retrieval by id.
package index

import "context"

// Hit is a single ranked match.
type Hit struct {
	ID    string
	Score float64
}

// Result is a ranked result set for one search.
type Result struct {
	Hits     []Hit
	Total    uint64
	MaxScore float64
}

// Explanation describes how a document scored against a query body.
type Explanation struct {
	Value    float64
	Message  string
	Children []Explanation
}

// Document is an indexed document.
type Document struct {
	ID       string
	FullText string
}

// Searcher runs a query body against the index and returns ranked matches.
type Searcher interface {
	Search(ctx context.Context, body string, size int) (*Result, error)
}

// Explainer scores one specific document against a query body.
type Explainer interface {
	Explain(ctx context.Context, body, docID string) (*Explanation, error)
}

// Getter fetches a document by identifier.
type Getter interface {
	Get(ctx context.Context, docID string) (*Document, error)
}

// Index is the full collaborator contract.
type Index interface {
	Searcher
	Explainer
	Getter
}
